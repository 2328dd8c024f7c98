package mvpplans

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mvp-studio/mvp-planner-backend/internal/auth"
)

type Handler struct {
	repo          *Repo
	adminUsername string
}

func NewHandler(repo *Repo, adminUsername string) *Handler {
	return &Handler{repo: repo, adminUsername: adminUsername}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	plans := rg.Group("/mvp-plans")
	plans.POST("", h.create)
	plans.GET("", h.list)
	plans.GET("/:id", h.get)
	plans.DELETE("/:id", h.delete)
}

func (h *Handler) isAdmin(c *gin.Context) bool {
	return h.adminUsername != "" && auth.Username(c) == h.adminUsername
}

type planReq struct {
	ProjectID        string          `json:"projectId"`
	Name             string          `json:"name"`
	ExecutiveSummary string          `json:"executiveSummary"`
	ProblemStatement string          `json:"problemStatement"`
	ValueProposition string          `json:"valueProposition"`
	Scope            string          `json:"scope"`
	SuccessCriteria  string          `json:"successCriteria"`
	Challenges       string          `json:"challenges"`
	NextSteps        string          `json:"nextSteps"`
	KeyFeatures      []string        `json:"keyFeatures"`
	FeaturesData     json.RawMessage `json:"featuresData"`
	MilestonesData   json.RawMessage `json:"milestonesData"`
	KpiData          json.RawMessage `json:"kpiData"`
	DiagramsData     json.RawMessage `json:"diagramsData"`
}

func (h *Handler) create(c *gin.Context) {
	var req planReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	in := Input{
		ProjectID:        strings.TrimSpace(req.ProjectID),
		Name:             strings.TrimSpace(req.Name),
		ExecutiveSummary: req.ExecutiveSummary,
		ProblemStatement: req.ProblemStatement,
		ValueProposition: req.ValueProposition,
		Scope:            req.Scope,
		SuccessCriteria:  req.SuccessCriteria,
		Challenges:       req.Challenges,
		NextSteps:        req.NextSteps,
		KeyFeatures:      req.KeyFeatures,
		FeaturesData:     req.FeaturesData,
		MilestonesData:   req.MilestonesData,
		KpiData:          req.KpiData,
		DiagramsData:     req.DiagramsData,
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	p, err := h.repo.Create(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		h.replyError(c, err, "could not save MVP plan")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "mvp_plan": p})
}

func (h *Handler) list(c *gin.Context) {
	plans, err := h.repo.List(c.Request.Context(), auth.UserID(c), h.isAdmin(c))
	if err != nil {
		h.replyError(c, err, "could not list MVP plans")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "mvp_plans": plans})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.repo.Get(c.Request.Context(), auth.UserID(c), h.isAdmin(c), c.Param("id"))
	if err != nil {
		h.replyError(c, err, "could not load MVP plan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "mvp_plan": p})
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.repo.Delete(c.Request.Context(), auth.UserID(c), h.isAdmin(c), c.Param("id"))
	if err != nil {
		h.replyError(c, err, "could not delete MVP plan")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) replyError(c *gin.Context, err error, generic string) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
		return
	}
	log.Printf("[mvp-plans] %s: %v", generic, err)
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": generic})
}
