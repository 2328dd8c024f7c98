package export

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mvp-studio/mvp-planner-backend/internal/auth"
	"github.com/mvp-studio/mvp-planner-backend/internal/planning"
	"github.com/mvp-studio/mvp-planner-backend/internal/projects"
)

type Handler struct {
	collector *Collector
}

// Register mounts the download endpoints under the projects group, e.g.
// GET /api/projects/:id/export/readme.
func Register(projectsGroup *gin.RouterGroup, collector *Collector) {
	h := &Handler{collector: collector}
	ex := projectsGroup.Group("/:id/export")
	ex.GET("/readme", h.readme)
	ex.GET("/powerpoint", h.powerpoint)
	ex.GET("/flowdiagram", h.flowDiagram)
}

func (h *Handler) readme(c *gin.Context) {
	b, ok := h.collect(c)
	if !ok {
		return
	}
	body, err := RenderReadme(b)
	if err != nil {
		log.Printf("[export] readme render failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not build the README export"})
		return
	}
	attach(c, fileStem(b.Project.Name)+"-README.md", "text/markdown; charset=utf-8", body)
}

func (h *Handler) powerpoint(c *gin.Context) {
	b, ok := h.collect(c)
	if !ok {
		return
	}
	body, err := RenderDeck(b)
	if err != nil {
		log.Printf("[export] deck render failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not build the presentation export"})
		return
	}
	attach(c, fileStem(b.Project.Name)+"-pitch.html", "text/html; charset=utf-8", body)
}

func (h *Handler) flowDiagram(c *gin.Context) {
	b, ok := h.collect(c)
	if !ok {
		return
	}
	attach(c, fileStem(b.Project.Name)+"-flow.svg", "image/svg+xml", RenderDiagramSVG(b.FlowDiagram))
}

func (h *Handler) collect(c *gin.Context) (*Bundle, bool) {
	b, err := h.collector.Collect(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) || errors.Is(err, planning.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return nil, false
		}
		log.Printf("[export] collect failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not load the project for export"})
		return nil, false
	}
	return b, true
}

func attach(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, body)
}

// fileStem makes a project name safe to use inside a download filename.
func fileStem(name string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		}
		return -1
	}, strings.TrimSpace(name))
	stem = strings.Trim(stem, "-")
	if stem == "" {
		return "project"
	}
	return stem
}
