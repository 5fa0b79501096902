package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/jaohire/wallet_backend/internal/core/ports/services"
	"github.com/jaohire/wallet_backend/internal/middleware"
)

// auditHandler serves the financial audit trail to operators.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(auditService portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: auditService}
}

// registerAuditRoutes registers audit routes under the given (operator-only)
// router group.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)
	rg.GET("/audit/:correlationID", h.listByCorrelation)
}

// listByCorrelation godoc
// @Summary List audit entries for a correlation id
// @Description Retrieves every audit entry tied to a transaction group or reconciliation run, oldest first.
// @Tags audit
// @Produce  json
// @Param   correlationID path string true "Transaction group ID or run ID"
// @Success 200 {array} domain.FinancialAuditLogEntry "Audit entries"
// @Failure 500 {object} map[string]string "Failed to retrieve audit entries"
// @Router /audit/{correlationID} [get]
func (h *auditHandler) listByCorrelation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	correlationID := c.Param("correlationID")

	entries, err := h.auditService.ListAuditTrail(c.Request.Context(), correlationID)
	if err != nil {
		logger.Error("Failed to list audit entries", slog.String("error", err.Error()), slog.String("correlation_id", correlationID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
