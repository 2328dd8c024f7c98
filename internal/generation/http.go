package generation

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvp-studio/mvp-planner-backend/internal/auth"
)

// SnapshotSaver receives the result of a completed full generation run.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, userID, projectID string, req *Request, res *Result) error
}

// Handler exposes the generation endpoints. Every response uses the
// {success, data} / {success:false, error} envelope.
type Handler struct {
	svc   *Service
	orch  *Orchestrator
	saver SnapshotSaver
}

func NewHandler(svc *Service, saver SnapshotSaver) *Handler {
	return &Handler{svc: svc, orch: NewOrchestrator(svc), saver: saver}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/generate-plan", h.generatePlan)
	rg.POST("/generate-features", h.generateFeatures)
	rg.POST("/generate-milestones", h.generateMilestones)
	rg.POST("/generate-kpis", h.generateKpis)
	rg.POST("/generate-diagrams", h.generateDiagrams)
	rg.POST("/generate-all", h.generateAll)
}

func bindRequest(c *gin.Context) (*Request, bool) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return nil, false
	}
	return &req, true
}

func (h *Handler) generatePlan(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	plan, err := h.svc.GeneratePlan(c.Request.Context(), req)
	h.reply(c, plan, err)
}

func (h *Handler) generateFeatures(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	list, err := h.svc.GenerateFeatures(c.Request.Context(), req)
	h.reply(c, list, err)
}

func (h *Handler) generateMilestones(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	list, err := h.svc.GenerateMilestones(c.Request.Context(), req)
	h.reply(c, list, err)
}

func (h *Handler) generateKpis(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	list, err := h.svc.GenerateKpis(c.Request.Context(), req)
	h.reply(c, list, err)
}

func (h *Handler) generateDiagrams(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	// Never fails past validation: the service substitutes the fallback set.
	set, _ := h.svc.GenerateDiagrams(c.Request.Context(), req)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": set})
}

func (h *Handler) generateAll(c *gin.Context) {
	var req struct {
		ProjectID string `json:"projectId"`
		Request
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	res, err := h.orch.Generate(c.Request.Context(), &req.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	// A fully successful run is snapshotted; a failed save never fails the
	// response, the generated content is already in hand.
	if h.saver != nil && res.Complete() {
		if err := h.saver.SaveSnapshot(c.Request.Context(), auth.UserID(c), req.ProjectID, &req.Request, res); err != nil {
			log.Printf("[ai] snapshot save failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

func (h *Handler) reply(c *gin.Context, data any, err error) {
	if err != nil {
		// The original error is already logged in the service; the caller
		// gets a generic, actionable message.
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "generation failed, please try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
