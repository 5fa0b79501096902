package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaohire/wallet_backend/internal/apperrors"
	"github.com/jaohire/wallet_backend/internal/core/domain"
	portssvc "github.com/jaohire/wallet_backend/internal/core/ports/services"
	"github.com/jaohire/wallet_backend/internal/dto"
	"github.com/jaohire/wallet_backend/internal/middleware"
)

// reconciliationHandler handles HTTP requests for reconciliation runs and
// settlement uploads.
type reconciliationHandler struct {
	reconService portssvc.ReconciliationSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(reconService portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{
		reconService: reconService,
	}
}

// registerReconciliationRoutes registers reconciliation routes under the
// given (operator-only) router group.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconService)

	recon := rg.Group("/reconciliation")
	{
		recon.POST("/runs", h.runReconciliation)
		recon.POST("/uploads", h.uploadAndReconcile)
		recon.GET("/runs", h.listRuns)
		recon.GET("/runs/:runID", h.getRunDetail)
	}
}

// runReconciliation godoc
// @Summary Reconcile a gateway day against supplied settlement rows
// @Description Matches internal topup legs for the (gateway, date) pair against the supplied rows and persists an immutable run.
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   run body dto.RunReconciliationRequest true "Run parameters and settlement rows"
// @Success 200 {object} dto.ReconRunResponse "Completed run summary"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Run already exists for this gateway and date"
// @Failure 500 {object} map[string]string "Failed to run reconciliation"
// @Router /reconciliation/runs [post]
func (h *reconciliationHandler) runReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.RunReconciliationRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for RunReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("gateway", string(req.Gateway)), slog.String("run_date", req.RunDate))

	run, err := h.reconService.Run(c.Request.Context(), actorID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error running reconciliation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Reconciliation run already exists", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to run reconciliation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run reconciliation"})
		}
		return
	}

	logger.Info("Reconciliation run completed",
		slog.String("run_id", run.RunID),
		slog.String("status", run.Status))
	c.JSON(http.StatusOK, run)
}

// uploadAndReconcile godoc
// @Summary Upload a settlement file and reconcile it
// @Description Parses the raw settlement payload, records the upload with its checksum, and reconciles the parsed rows in one step.
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   upload body dto.UploadReconciliationRequest true "Settlement file and run parameters"
// @Success 200 {object} dto.UploadReconResponse "Completed run summary with upload record"
// @Failure 400 {object} map[string]string "Invalid request or unparseable payload"
// @Failure 409 {object} map[string]string "Run already exists for this gateway and date"
// @Failure 500 {object} map[string]string "Failed to process upload"
// @Router /reconciliation/uploads [post]
func (h *reconciliationHandler) uploadAndReconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.UploadReconciliationRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for UploadAndReconcile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("gateway", string(req.Gateway)),
		slog.String("settlement_date", req.SettlementDate),
		slog.String("filename", req.Filename))

	result, err := h.reconService.UploadAndReconcile(c.Request.Context(), actorID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error processing settlement upload", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Reconciliation run already exists", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to process settlement upload", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process upload"})
		}
		return
	}

	logger.Info("Settlement upload reconciled",
		slog.String("run_id", result.RunID),
		slog.String("upload_id", result.UploadID),
		slog.Int("row_count", result.RowCount))
	c.JSON(http.StatusOK, result)
}

// listRuns godoc
// @Summary List reconciliation runs
// @Description Returns a page of runs, newest first, optionally filtered by gateway.
// @Tags reconciliation
// @Produce  json
// @Param   gateway query string false "Filter by gateway" Enums(promptpay, bank_transfer, truemoney)
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   offset query int false "Page offset"
// @Success 200 {array} dto.ReconRunResponse "Runs"
// @Failure 400 {object} map[string]string "Unknown gateway"
// @Failure 500 {object} map[string]string "Failed to list runs"
// @Router /reconciliation/runs [get]
func (h *reconciliationHandler) listRuns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var gateway *domain.Gateway
	if raw := c.Query("gateway"); raw != "" {
		g := domain.Gateway(raw)
		if !domain.IsKnownGateway(g) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown gateway: " + raw})
			return
		}
		gateway = &g
	}

	limit, offset := parsePagination(c)
	runs, err := h.reconService.ListRuns(c.Request.Context(), gateway, limit, offset)
	if err != nil {
		logger.Error("Failed to list reconciliation runs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list runs"})
		return
	}

	c.JSON(http.StatusOK, runs)
}

// getRunDetail godoc
// @Summary Get a reconciliation run with its lines
// @Description Retrieves a run summary and every matched or unmatched line, mismatches first.
// @Tags reconciliation
// @Produce  json
// @Param   runID path string true "Run ID"
// @Success 200 {object} dto.ReconRunDetailResponse "Run with lines"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 500 {object} map[string]string "Failed to retrieve run"
// @Router /reconciliation/runs/{runID} [get]
func (h *reconciliationHandler) getRunDetail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")

	detail, err := h.reconService.GetRunDetail(c.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Reconciliation run not found", slog.String("run_id", runID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
			return
		}
		logger.Error("Failed to get reconciliation run", slog.String("error", err.Error()), slog.String("run_id", runID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve run"})
		return
	}

	c.JSON(http.StatusOK, detail)
}
