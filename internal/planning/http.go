package planning

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mvp-studio/mvp-planner-backend/internal/auth"
)

type Handler struct {
	repo *Repo
}

// Register mounts the child-entity route groups under the /api group.
func Register(api *gin.RouterGroup, repo *Repo) {
	h := &Handler{repo: repo}

	features := api.Group("/features")
	features.POST("", h.createFeature)
	features.GET("", h.listFeatures)
	features.PATCH("/:id", h.updateFeature)
	features.DELETE("/:id", h.deleteFeature)

	validation := api.Group("/validation-methods")
	validation.POST("", h.createValidationMethod)
	validation.GET("", h.listValidationMethods)
	validation.PATCH("/:id", h.updateValidationMethod)
	validation.DELETE("/:id", h.deleteValidationMethod)

	competitors := api.Group("/competitors")
	competitors.POST("", h.createCompetitor)
	competitors.GET("", h.listCompetitors)
	competitors.DELETE("/:id", h.deleteCompetitor)

	compFeatures := api.Group("/competitive-features")
	compFeatures.POST("", h.createCompetitiveFeature)
	compFeatures.GET("", h.listCompetitiveFeatures)
	compFeatures.POST("/:id/toggle", h.toggleCompetitiveFeature)
	compFeatures.DELETE("/:id", h.deleteCompetitiveFeature)

	milestones := api.Group("/milestones")
	milestones.POST("", h.createMilestone)
	milestones.GET("", h.listMilestones)
	milestones.PATCH("/:id", h.updateMilestone)
	milestones.POST("/:id/move", h.moveMilestone)
	milestones.DELETE("/:id", h.deleteMilestone)

	kpis := api.Group("/kpis")
	kpis.POST("", h.createKpi)
	kpis.GET("", h.listKpis)
	kpis.PATCH("/:id", h.updateKpi)
	kpis.DELETE("/:id", h.deleteKpi)

	diagrams := api.Group("/flow-diagrams")
	diagrams.POST("", h.saveFlowDiagram)
	diagrams.GET("", h.getFlowDiagram)
	diagrams.DELETE("", h.deleteFlowDiagram)
}

func projectIDQuery(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Query("projectId"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "projectId query parameter is required"})
		return "", false
	}
	return id, true
}

func (h *Handler) replyError(c *gin.Context, err error, generic string) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
		return
	}
	log.Printf("[planning] %s: %v", generic, err)
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": generic})
}

// --- features ---

type featureReq struct {
	ProjectID    string `json:"projectId"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	Difficulty   string `json:"difficulty"`
	IncludeInMvp bool   `json:"includeInMvp"`
}

func (h *Handler) createFeature(c *gin.Context) {
	var req featureReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	in := FeatureInput{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Priority:     req.Priority,
		Difficulty:   req.Difficulty,
		IncludeInMvp: req.IncludeInMvp,
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	f, err := h.repo.CreateFeature(c.Request.Context(), auth.UserID(c), req.ProjectID, in)
	if err != nil {
		h.replyError(c, err, "could not create feature")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "feature": f})
}

func (h *Handler) listFeatures(c *gin.Context) {
	projectID, ok := projectIDQuery(c)
	if !ok {
		return
	}
	items, err := h.repo.ListFeatures(c.Request.Context(), auth.UserID(c), projectID)
	if err != nil {
		h.replyError(c, err, "could not list features")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "features": items})
}

type featurePatchReq struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Priority     *string `json:"priority"`
	Difficulty   *string `json:"difficulty"`
	IncludeInMvp *bool   `json:"includeInMvp"`
}

func (h *Handler) updateFeature(c *gin.Context) {
	var req featurePatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if req.Priority != nil && !ValidPriority(*req.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "priority must be one of Low, Medium, High"})
		return
	}
	if req.Difficulty != nil && !ValidDifficulty(*req.Difficulty) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "difficulty must be one of Easy, Medium, Hard"})
		return
	}

	f, err := h.repo.UpdateFeature(c.Request.Context(), auth.UserID(c), c.Param("id"), FeaturePatch{
		Name:         req.Name,
		Description:  req.Description,
		Priority:     req.Priority,
		Difficulty:   req.Difficulty,
		IncludeInMvp: req.IncludeInMvp,
	})
	if err != nil {
		h.replyError(c, err, "could not update feature")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "feature": f})
}

func (h *Handler) deleteFeature(c *gin.Context) {
	h.deleteByID(c, "feature", func() (bool, error) {
		return h.repo.DeleteFeature(c.Request.Context(), auth.UserID(c), c.Param("id"))
	})
}

// --- validation methods ---

type validationReq struct {
	ProjectID string `json:"projectId"`
	Method    string `json:"method"`
	Selected  bool   `json:"selected"`
}

func (h *Handler) createValidationMethod(c *gin.Context) {
	var req validationReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Method) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body: method is required"})
		return
	}

	v, err := h.repo.CreateValidationMethod(c.Request.Context(), auth.UserID(c), req.ProjectID, strings.TrimSpace(req.Method), req.Selected)
	if err != nil {
		h.replyError(c, err, "could not create validation method")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "validation_method": v})
}

func (h *Handler) listValidationMethods(c *gin.Context) {
	projectID, ok := projectIDQuery(c)
	if !ok {
		return
	}
	items, err := h.repo.ListValidationMethods(c.Request.Context(), auth.UserID(c), projectID)
	if err != nil {
		h.replyError(c, err, "could not list validation methods")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "validation_methods": items})
}

func (h *Handler) updateValidationMethod(c *gin.Context) {
	var req struct {
		Selected *bool `json:"selected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Selected == nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body: selected is required"})
		return
	}

	v, err := h.repo.SetValidationSelected(c.Request.Context(), auth.UserID(c), c.Param("id"), *req.Selected)
	if err != nil {
		h.replyError(c, err, "could not update validation method")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "validation_method": v})
}

func (h *Handler) deleteValidationMethod(c *gin.Context) {
	h.deleteByID(c, "validation method", func() (bool, error) {
		return h.repo.DeleteValidationMethod(c.Request.Context(), auth.UserID(c), c.Param("id"))
	})
}

// --- competitors ---

func (h *Handler) createCompetitor(c *gin.Context) {
	var req struct {
		ProjectID string `json:"projectId"`
		Name      string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body: name is required"})
		return
	}

	comp, err := h.repo.CreateCompetitor(c.Request.Context(), auth.UserID(c), req.ProjectID, strings.TrimSpace(req.Name))
	if err != nil {
		h.replyError(c, err, "could not create competitor")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "competitor": comp})
}

func (h *Handler) listCompetitors(c *gin.Context) {
	projectID, ok := projectIDQuery(c)
	if !ok {
		return
	}
	items, err := h.repo.ListCompetitors(c.Request.Context(), auth.UserID(c), projectID)
	if err != nil {
		h.replyError(c, err, "could not list competitors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "competitors": items})
}

func (h *Handler) deleteCompetitor(c *gin.Context) {
	h.deleteByID(c, "competitor", func() (bool, error) {
		return h.repo.DeleteCompetitor(c.Request.Context(), auth.UserID(c), c.Param("id"))
	})
}

// --- competitive features ---

func (h *Handler) createCompetitiveFeature(c *gin.Context) {
	var req struct {
		ProjectID string `json:"projectId"`
		Name      string `json:"name"`
		YourMvp   bool   `json:"yourMvp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body: name is required"})
		return
	}

	cf, err := h.repo.CreateCompetitiveFeature(c.Request.Context(), auth.UserID(c), req.ProjectID, strings.TrimSpace(req.Name), req.YourMvp)
	if err != nil {
		h.replyError(c, err, "could not create competitive feature")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "competitive_feature": cf})
}

func (h *Handler) listCompetitiveFeatures(c *gin.Context) {
	projectID, ok := projectIDQuery(c)
	if !ok {
		return
	}
	items, err := h.repo.ListCompetitiveFeatures(c.Request.Context(), auth.UserID(c), projectID)
	if err != nil {
		h.replyError(c, err, "could not list competitive features")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "competitive_features": items})
}

// toggleCompetitiveFeature flips one column of the comparison grid: an
// empty/absent competitorId targets the "your MVP" column.
func (h *Handler) toggleCompetitiveFeature(c *gin.Context) {
	var req struct {
		CompetitorID string `json:"competitorId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	competitorID := strings.TrimSpace(req.CompetitorID)
	if competitorID == "-1" {
		// Legacy clients send -1 for the "your MVP" column.
		competitorID = ""
	}

	cf, err := h.repo.ToggleCompetitiveFeature(c.Request.Context(), auth.UserID(c), c.Param("id"), competitorID)
	if err != nil {
		if errors.Is(err, ErrUnknownCompetitor) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unknown competitor"})
			return
		}
		h.replyError(c, err, "could not update competitive feature")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "competitive_feature": cf})
}

func (h *Handler) deleteCompetitiveFeature(c *gin.Context) {
	h.deleteByID(c, "competitive feature", func() (bool, error) {
		return h.repo.DeleteCompetitiveFeature(c.Request.Context(), auth.UserID(c), c.Param("id"))
	})
}

// --- milestones ---

type milestoneReq struct {
	ProjectID     string `json:"projectId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	DurationWeeks int    `json:"durationWeeks"`
}

func (h *Handler) createMilestone(c *gin.Context) {
	var req milestoneReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	in := MilestoneInput{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	m, err := h.repo.CreateMilestone(c.Request.Context(), auth.UserID(c), req.ProjectID, in)
	if err != nil {
		h.replyError(c, err, "could not create milestone")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "milestone": m})
}

func (h *Handler) listMilestones(c *gin.Context) {
	projectID, ok := projectIDQuery(c)
	if !ok {
		return
	}
	items, err := h.repo.ListMilestones(c.Request.Context(), auth.UserID(c), projectID)
	if err != nil {
		h.replyError(c, err, "could not list milestones")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "milestones": items})
}

func (h *Handler) updateMilestone(c *gin.Context) {
	var req struct {
		Title         *string `json:"title"`
		Description   *string `json:"description"`
		DurationWeeks *int    `json:"durationWeeks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if req.DurationWeeks != nil && *req.DurationWeeks < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "durationWeeks must be a positive integer"})
		return
	}

	m, err := h.repo.UpdateMilestone(c.Request.Context(), auth.UserID(c), c.Param("id"), MilestonePatch{
		Title:         req.Title,
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
	})
	if err != nil {
		h.replyError(c, err, "could not update milestone")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "milestone": m})
}

func (h *Handler) moveMilestone(c *gin.Context) {
	var req struct {
		Direction string `json:"direction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	dir := MoveDirection(req.Direction)
	if dir != MoveUp && dir != MoveDown {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "direction must be up or down"})
		return
	}

	items, err := h.repo.MoveMilestone(c.Request.Context(), auth.UserID(c), c.Param("id"), dir)
	if err != nil {
		h.replyError(c, err, "could not move milestone")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "milestones": items})
}

func (h *Handler) deleteMilestone(c *gin.Context) {
	h.deleteByID(c, "milestone", func() (bool, error) {
		return h.repo.DeleteMilestone(c.Request.Context(), auth.UserID(c), c.Param("id"))
	})
}

// --- kpis ---

type kpiReq struct {
	ProjectID   string `json:"projectId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Target      string `json:"target"`
	Timeframe   string `json:"timeframe"`
}

func (h *Handler) createKpi(c *gin.Context) {
	var req kpiReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	in := KpiInput{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Target:      req.Target,
		Timeframe:   req.Timeframe,
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	k, err := h.repo.CreateKpi(c.Request.Context(), auth.UserID(c), req.ProjectID, in)
	if err != nil {
		h.replyError(c, err, "could not create KPI")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "kpi": k})
}

func (h *Handler) listKpis(c *gin.Context) {
	projectID, ok := projectIDQuery(c)
	if !ok {
		return
	}
	items, err := h.repo.ListKpis(c.Request.Context(), auth.UserID(c), projectID)
	if err != nil {
		h.replyError(c, err, "could not list KPIs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "kpis": items})
}

func (h *Handler) updateKpi(c *gin.Context) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Target      *string `json:"target"`
		Timeframe   *string `json:"timeframe"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	k, err := h.repo.UpdateKpi(c.Request.Context(), auth.UserID(c), c.Param("id"), KpiPatch{
		Name:        req.Name,
		Description: req.Description,
		Target:      req.Target,
		Timeframe:   req.Timeframe,
	})
	if err != nil {
		h.replyError(c, err, "could not update KPI")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "kpi": k})
}

func (h *Handler) deleteKpi(c *gin.Context) {
	h.deleteByID(c, "KPI", func() (bool, error) {
		return h.repo.DeleteKpi(c.Request.Context(), auth.UserID(c), c.Param("id"))
	})
}

// --- flow diagrams ---

type flowDiagramReq struct {
	ProjectID   string `json:"projectId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Graph       Graph  `json:"graph"`
}

func (h *Handler) saveFlowDiagram(c *gin.Context) {
	var req flowDiagramReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body: title is required"})
		return
	}

	d, err := h.repo.SaveFlowDiagram(c.Request.Context(), auth.UserID(c), req.ProjectID, FlowDiagramInput{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Graph:       req.Graph,
	})
	if err != nil {
		h.replyError(c, err, "could not save flow diagram")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "flow_diagram": d})
}

func (h *Handler) getFlowDiagram(c *gin.Context) {
	projectID, ok := projectIDQuery(c)
	if !ok {
		return
	}
	d, err := h.repo.GetFlowDiagram(c.Request.Context(), auth.UserID(c), projectID)
	if err != nil {
		h.replyError(c, err, "could not load flow diagram")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "flow_diagram": d})
}

func (h *Handler) deleteFlowDiagram(c *gin.Context) {
	projectID, ok := projectIDQuery(c)
	if !ok {
		return
	}
	deleted, err := h.repo.DeleteFlowDiagram(c.Request.Context(), auth.UserID(c), projectID)
	if err != nil {
		h.replyError(c, err, "could not delete flow diagram")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) deleteByID(c *gin.Context, what string, del func() (bool, error)) {
	deleted, err := del()
	if err != nil {
		h.replyError(c, err, "could not delete "+what)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
