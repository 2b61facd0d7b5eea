package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/application/service"
	"github.com/Honey822438/RecuirtSys/internal/application/workflow"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/gate"
	domainwf "github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

// Actor headers identify the employee on requests without an actor body.
// They are trusted as sent, so the server must sit behind a proxy that
// authenticates the caller and sets them.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	maxBodyBytes     = 1 << 20
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers contains all HTTP request handlers
type Handlers struct {
	deps Dependencies
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{deps: deps}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}

// TransitionBody is the body of POST /api/candidates/:id/transition
type TransitionBody struct {
	TargetStage     string                `json:"targetStage"`
	ActorID         string                `json:"actorId"`
	ActorRole       entity.Role           `json:"actorRole"`
	Documents       []entity.Document     `json:"documents,omitempty"`
	MedicalStatus   *entity.MedicalStatus `json:"medicalStatus,omitempty"`
	Payment         *entity.Payment       `json:"payment,omitempty"`
	ExpectedVersion *int64                `json:"expectedVersion,omitempty"`
}

// ReadinessResponse answers whether a target stage may be requested
type ReadinessResponse struct {
	CandidateID      string           `json:"candidateId"`
	CurrentStage     domainwf.Stage   `json:"currentStage"`
	TargetStage      domainwf.Stage   `json:"targetStage,omitempty"`
	Gate             *gate.Result     `json:"gate,omitempty"`
	PermittedTargets []domainwf.Stage `json:"permittedTargets"`
}

// LoginBody is the body of POST /api/auth/login
type LoginBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ListCandidatesQuery holds the listing filters
type ListCandidatesQuery struct {
	HiringOfficerID string `form:"hiringOfficerId"`
	Stage           string `form:"stage"`
	Search          string `form:"search"`
	Limit           int    `form:"limit"`
	Offset          int    `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if h.deps.Health != nil {
		if err := h.deps.Health(c.Request.Context()); err != nil {
			resp.Status = "unhealthy"
			resp.Error = err.Error()
			c.JSON(http.StatusServiceUnavailable, Response{Success: false, Data: resp, Error: "storage unavailable"})
			return
		}
	}
	respondOK(c, http.StatusOK, resp)
}

// Login handles POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var body LoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	actor, err := h.deps.Employees.VerifyCredential(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, actor)
}

// CreateCandidate handles POST /api/candidates
func (h *Handlers) CreateCandidate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var in service.CreateCandidateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	cand, err := h.deps.Candidates.CreateCandidate(c.Request.Context(), actor, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, cand)
}

// ListCandidates handles GET /api/candidates
func (h *Handlers) ListCandidates(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q ListCandidatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, fmt.Errorf("invalid query parameters: %w", err))
		return
	}

	filter := port.CandidateFilter{
		HiringOfficerID: q.HiringOfficerID,
		Search:          q.Search,
		Limit:           q.Limit,
		Offset:          q.Offset,
	}
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = defaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if q.Stage != "" {
		stage, err := domainwf.ParseStage(q.Stage)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.Stage = stage
	}

	list, err := h.deps.Candidates.ListCandidates(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []*entity.Candidate{}
	}
	respondOK(c, http.StatusOK, list)
}

// GetCandidate handles GET /api/candidates/:id
func (h *Handlers) GetCandidate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	cand, err := h.deps.Candidates.GetCandidate(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, cand)
}

// GetHistory handles GET /api/candidates/:id/history
func (h *Handlers) GetHistory(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	records, err := h.deps.Candidates.GetHistory(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []*entity.StageHistory{}
	}
	respondOK(c, http.StatusOK, records)
}

// GetReadiness handles GET /api/candidates/:id/readiness
func (h *Handlers) GetReadiness(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	cand, err := h.deps.Candidates.GetCandidate(ctx, actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := ReadinessResponse{CandidateID: id, CurrentStage: cand.Stage}
	if raw := c.Query("targetStage"); raw != "" {
		target, err := domainwf.ParseStage(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		result, err := h.deps.Engine.CanAdvance(ctx, id, target)
		if err != nil {
			respondError(c, err)
			return
		}
		resp.TargetStage = target
		resp.Gate = &result
	}

	targets, err := h.deps.Engine.PermittedTargets(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.PermittedTargets = targets
	respondOK(c, http.StatusOK, resp)
}

// RequestTransition handles POST /api/candidates/:id/transition
func (h *Handlers) RequestTransition(c *gin.Context) {
	raw, ok := h.readBody(c)
	if !ok {
		return
	}
	if err := validateBody(transitionSchema, raw); err != nil {
		badRequest(c, err)
		return
	}
	var body TransitionBody
	if err := json.Unmarshal(raw, &body); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	actor, err := h.deps.Employees.ResolveActor(ctx, body.ActorID, body.ActorRole)
	if err != nil {
		respondError(c, err)
		return
	}
	target, err := domainwf.ParseStage(body.TargetStage)
	if err != nil {
		badRequest(c, err)
		return
	}

	cand, err := h.deps.Engine.RequestTransition(ctx, workflow.TransitionRequest{
		CandidateID: c.Param("id"),
		Actor:       actor,
		TargetStage: target,
		Payload: workflow.Payload{
			Documents:     body.Documents,
			MedicalStatus: body.MedicalStatus,
			Payment:       body.Payment,
		},
		ExpectedVersion: body.ExpectedVersion,
	})
	if err != nil {
		h.deps.Logger.Error("Transition rejected",
			"candidate_id", c.Param("id"),
			"target_stage", string(target),
			"actor_id", actor.ID,
			"error", err)
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, cand)
}

// UpdateDocuments handles PATCH /api/candidates/:id/documents
func (h *Handlers) UpdateDocuments(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	raw, ok := h.readBody(c)
	if !ok {
		return
	}
	if err := validateBody(documentsSchema, raw); err != nil {
		badRequest(c, err)
		return
	}
	var in service.DocumentUpdate
	if err := json.Unmarshal(raw, &in); err != nil {
		badRequest(c, err)
		return
	}

	cand, err := h.deps.Candidates.UpdateDocuments(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, cand)
}

// UpdateProfile handles PATCH /api/candidates/:id/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var in service.ProfileUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	cand, err := h.deps.Candidates.UpdateProfile(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, cand)
}

// PipelineStats handles GET /api/stats/pipeline
func (h *Handlers) PipelineStats(c *gin.Context) {
	if _, ok := h.admin(c); !ok {
		return
	}
	stats, err := h.deps.Candidates.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, stats)
}

// PipelineReport handles GET /api/reports/pipeline
func (h *Handlers) PipelineReport(c *gin.Context) {
	actor, ok := h.admin(c)
	if !ok {
		return
	}
	all, err := h.deps.Candidates.ListCandidates(c.Request.Context(), actor, port.CandidateFilter{})
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.deps.Report.Write(&buf, all, service.BuildStats(all)); err != nil {
		h.deps.Logger.Error("Failed to render pipeline report", "error", err)
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("pipeline-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// CreateEmployee handles POST /api/employees
func (h *Handlers) CreateEmployee(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var in service.CreateEmployeeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	emp, err := h.deps.Employees.CreateEmployee(c.Request.Context(), actor, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, emp)
}

// ListEmployees handles GET /api/employees
func (h *Handlers) ListEmployees(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	list, err := h.deps.Employees.ListEmployees(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []*entity.Employee{}
	}
	respondOK(c, http.StatusOK, list)
}

// GetEmployee handles GET /api/employees/:id
func (h *Handlers) GetEmployee(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	emp, err := h.deps.Employees.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, emp)
}

// actor resolves the actor headers against the employee store and writes
// the error reply when that fails
func (h *Handlers) actor(c *gin.Context) (entity.Actor, bool) {
	actor, err := h.deps.Employees.ResolveActor(c.Request.Context(),
		c.GetHeader(HeaderActorID), entity.Role(c.GetHeader(HeaderActorRole)))
	if err != nil {
		respondError(c, err)
		return entity.Actor{}, false
	}
	return actor, true
}

func (h *Handlers) admin(c *gin.Context) (entity.Actor, bool) {
	actor, ok := h.actor(c)
	if !ok {
		return actor, false
	}
	if !actor.IsAdmin() {
		respondError(c, workflow.NewError(workflow.KindAuthorizationDenied, "",
			fmt.Errorf("role %q may not view pipeline reports", actor.Role)))
		return actor, false
	}
	return actor, true
}

func (h *Handlers) readBody(c *gin.Context) ([]byte, bool) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		badRequest(c, fmt.Errorf("read body: %w", err))
		return nil, false
	}
	return raw, true
}
