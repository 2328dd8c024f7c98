package projects

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mvp-studio/mvp-planner-backend/internal/auth"
	"github.com/mvp-studio/mvp-planner-backend/internal/wizard"
)

type Handler struct {
	repo *Repo
}

func Register(rg *gin.RouterGroup, repo *Repo) {
	h := &Handler{repo: repo}

	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.POST("/:id/advance", h.advance)
	rg.POST("/:id/previous", h.previous)
}

type createReq struct {
	Name             string   `json:"name"`
	Industry         string   `json:"industry"`
	Audience         string   `json:"audience"`
	ProblemStatement string   `json:"problemStatement"`
	KeyBenefits      []string `json:"keyBenefits"`
	AdditionalNotes  string   `json:"additionalNotes"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body: name is required"})
		return
	}

	p, err := h.repo.Create(c.Request.Context(), auth.UserID(c), CreateInput{
		Name:             strings.TrimSpace(req.Name),
		Industry:         strings.TrimSpace(req.Industry),
		Audience:         strings.TrimSpace(req.Audience),
		ProblemStatement: strings.TrimSpace(req.ProblemStatement),
		KeyBenefits:      req.KeyBenefits,
		AdditionalNotes:  req.AdditionalNotes,
	})
	if err != nil {
		log.Printf("[projects] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not create project"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		log.Printf("[projects] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not list projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.repo.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		h.replyError(c, err, "could not load project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

type updateReq struct {
	Name             *string   `json:"name"`
	Industry         *string   `json:"industry"`
	Audience         *string   `json:"audience"`
	ProblemStatement *string   `json:"problemStatement"`
	KeyBenefits      *[]string `json:"keyBenefits"`
	AdditionalNotes  *string   `json:"additionalNotes"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "name cannot be empty"})
		return
	}

	p, err := h.repo.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), UpdateInput{
		Name:             req.Name,
		Industry:         req.Industry,
		Audience:         req.Audience,
		ProblemStatement: req.ProblemStatement,
		KeyBenefits:      req.KeyBenefits,
		AdditionalNotes:  req.AdditionalNotes,
	})
	if err != nil {
		h.replyError(c, err, "could not update project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	ok, err := h.repo.SoftDelete(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		log.Printf("[projects] delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not delete project"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// advance moves the project to the next wizard step if the current step's
// precondition holds. A blocked precondition returns the wizard's message
// and leaves current_step untouched.
func (h *Handler) advance(c *gin.Context) {
	userID := auth.UserID(c)
	id := c.Param("id")

	snap, err := h.repo.Snapshot(c.Request.Context(), userID, id)
	if err != nil {
		h.replyError(c, err, "could not load project")
		return
	}

	p, err := h.repo.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.replyError(c, err, "could not load project")
		return
	}

	cur, err := wizard.ParseStep(p.CurrentStep)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "project is in an unknown step"})
		return
	}

	next, err := wizard.Advance(cur, *snap)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	updated, err := h.repo.UpdateStep(c.Request.Context(), userID, id, next)
	if err != nil {
		log.Printf("[projects] step update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not save your progress, please try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": updated})
}

// previous is unconditional: it persists the preceding step and navigates.
func (h *Handler) previous(c *gin.Context) {
	userID := auth.UserID(c)
	id := c.Param("id")

	p, err := h.repo.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.replyError(c, err, "could not load project")
		return
	}

	cur, err := wizard.ParseStep(p.CurrentStep)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "project is in an unknown step"})
		return
	}

	prev, err := wizard.Previous(cur)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	updated, err := h.repo.UpdateStep(c.Request.Context(), userID, id, prev)
	if err != nil {
		log.Printf("[projects] step update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not save your progress, please try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": updated})
}

func (h *Handler) replyError(c *gin.Context, err error, generic string) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	log.Printf("[projects] %s: %v", generic, err)
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": generic})
}
