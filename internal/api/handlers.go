// Package api implements the HTTP handlers for the solve-job service:
// submit a grid template for filling, poll or stream its progress, and
// (for admin callers) inspect job history.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/crossplay/xwordfill/internal/auth"
	"github.com/crossplay/xwordfill/internal/db"
	"github.com/crossplay/xwordfill/internal/middleware"
	"github.com/crossplay/xwordfill/internal/models"
	"github.com/crossplay/xwordfill/internal/realtime"
	"github.com/crossplay/xwordfill/pkg/fill"
	"github.com/crossplay/xwordfill/pkg/output"
	"github.com/crossplay/xwordfill/pkg/puzzle"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// resultCacheTTL is how long a completed job's result stays in Redis
// before GetSolveResult falls back to Postgres.
const resultCacheTTL = time.Hour

// Handlers wires the solve-job endpoints to their backing services: the
// persistence layer, the admin JWT service, the progress broadcast hub,
// and the generator that actually runs a solve.
type Handlers struct {
	db          *db.Database
	authService *auth.Service
	hub         *realtime.Hub
	generator   *puzzle.Generator
}

// NewHandlers returns Handlers backed by database, authService, hub,
// and generator. hub may be nil to disable progress broadcasting.
func NewHandlers(database *db.Database, authService *auth.Service, hub *realtime.Hub, generator *puzzle.Generator) *Handlers {
	return &Handlers{db: database, authService: authService, hub: hub, generator: generator}
}

// AdminLoginRequest is the body of POST /api/admin/login.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse carries the issued token and the account it names.
type AdminLoginResponse struct {
	Admin models.AdminUser `json:"admin"`
	Token string           `json:"token"`
}

// AdminLogin authenticates a service account and issues a JWT.
func (h *Handlers) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.db.GetAdminByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if admin == nil || !h.authService.CheckPassword(req.Password, admin.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.authService.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, AdminLoginResponse{Admin: *admin, Token: token})
}

// SubmitSolveRequest is the body of POST /api/solve.
type SubmitSolveRequest struct {
	Template   string `json:"template" binding:"required"`
	WordListID string `json:"wordListId"`
	MinScore   int    `json:"minScore"`
	Seed       int64  `json:"seed"`
}

// submitRateLimit and submitRateWindow bound how often a single client
// may queue a solve job; solving is CPU-bound and cheap to abuse.
const (
	submitRateLimit  = 30
	submitRateWindow = time.Minute
)

// SubmitSolve queues a new solve job and kicks off the search in the
// background, returning immediately with the job's queued record.
func (h *Handlers) SubmitSolve(c *gin.Context) {
	var req SubmitSolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.db.Redis != nil {
		allowed, err := h.db.AllowRequest(c.Request.Context(), c.ClientIP(), submitRateLimit, submitRateWindow)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "rate limit check failed"})
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many solve requests, slow down"})
			return
		}
	}

	job := &models.SolveJob{
		ID:         uuid.New().String(),
		Template:   req.Template,
		WordListID: req.WordListID,
		MinScore:   req.MinScore,
		Seed:       req.Seed,
		Status:     models.JobQueued,
		CreatedAt:  time.Now(),
	}

	if err := h.db.CreateSolveJob(job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue job"})
		return
	}

	go h.runJob(job)

	c.JSON(http.StatusAccepted, job)
}

// runJob marks job running, executes the solve, persists the result,
// and broadcasts progress/outcome events to any subscribed WebSocket
// clients. It runs on its own goroutine, detached from the request.
func (h *Handlers) runJob(job *models.SolveJob) {
	if err := h.db.UpdateSolveJobStatus(job.ID, models.JobRunning); err != nil {
		return
	}

	start := time.Now()
	cfg := puzzle.Config{
		WordListID:     job.WordListID,
		GlobalMinScore: job.MinScore,
		Seed:           job.Seed,
	}
	if h.hub != nil {
		progress := func(states, backtracks, retry int) {
			h.hub.Broadcast(&realtime.ProgressEvent{
				JobID:      job.ID,
				Type:       realtime.EventProgress,
				States:     states,
				Backtracks: backtracks,
				Retries:    retry,
			})
		}
		cfg.Progress = progress
	}

	gridCfg, result, err := h.generator.Solve(context.Background(), job.Template, cfg)
	duration := time.Since(start)

	solveResult := &models.SolveResult{
		JobID:      job.ID,
		Outcome:    result.Outcome.String(),
		States:     result.Statistics.States,
		Backtracks: result.Statistics.Backtracks,
		Retries:    result.Statistics.Retries,
		DurationMs: duration.Milliseconds(),
	}

	status := models.JobFailed
	if err == nil && result.Outcome == fill.Success {
		status = models.JobComplete
		if rendered, rerr := output.RenderText(gridCfg, result); rerr == nil {
			solveResult.Rendered = rendered
		}
		solveResult.Choices = make(map[int]int, len(result.Choices))
		for _, choice := range result.Choices {
			solveResult.Choices[choice.SlotID] = choice.WordID
		}
	}

	if saveErr := h.db.SaveSolveResult(solveResult); saveErr != nil {
		solveResult.Outcome = "save_error"
	}
	h.db.UpdateSolveJobStatus(job.ID, status)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if h.db.Redis != nil {
		h.db.CacheResult(ctx, job.ID, solveResult, resultCacheTTL)
	}

	if h.hub != nil {
		h.hub.Broadcast(&realtime.ProgressEvent{
			JobID:      job.ID,
			Type:       realtime.EventOutcome,
			States:     solveResult.States,
			Backtracks: solveResult.Backtracks,
			Retries:    solveResult.Retries,
			Outcome:    solveResult.Outcome,
		})
	}
}

// GetSolveJob returns a job's current status.
func (h *Handlers) GetSolveJob(c *gin.Context) {
	id := c.Param("id")
	job, err := h.db.GetSolveJob(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// GetSolveResult returns a completed job's result, checking the Redis
// cache before falling back to Postgres.
func (h *Handlers) GetSolveResult(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if h.db.Redis != nil {
		if cached, err := h.db.GetCachedResult(ctx, id); err == nil && cached != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := h.db.GetSolveResult(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no result for this job yet"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// SolveProgress upgrades the connection to a WebSocket streaming
// ProgressEvents for the given job id until the client disconnects.
func (h *Handlers) SolveProgress(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "progress streaming is not enabled"})
		return
	}
	id := c.Param("id")
	if err := realtime.ServeWs(h.hub, c.Writer, c.Request, id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open websocket"})
	}
}

// ListJobsResponse is the paginated admin job-history response.
type ListJobsResponse struct {
	Jobs   []models.SolveJob `json:"jobs"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// ListJobs returns recent solve jobs, newest first, for the admin
// history view. Requires a valid admin token.
func (h *Handlers) ListJobs(c *gin.Context) {
	if claims := middleware.GetAuthUser(c); claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	jobs, err := h.db.ListSolveJobs(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, ListJobsResponse{Jobs: jobs, Limit: limit, Offset: offset})
}
