package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	appbilling "github.com/subhub/backend/internal/application/billing"
	"github.com/subhub/backend/internal/domain/billing"
	"github.com/subhub/backend/internal/interfaces/http/middleware"
)

// AdminHandler handles owner-restricted administrative HTTP requests
type AdminHandler struct {
	BaseHandler
	admin *appbilling.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin *appbilling.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// BulkRequest is the body of a bulk operation dispatch. Operation names
// outside the known set are normalized to an analytics report, and the
// subscriber list bounds, plan id and duration are all validated by the
// billing core so that violations surface with their numeric code, so only
// the operation name carries a binding rule.
type BulkRequest struct {
	Operation      string   `json:"operation" binding:"required"`
	Subscribers    []string `json:"subscribers"`
	PlanID         int64    `json:"plan_id"`
	DurationMonths int      `json:"duration_months"`
}

// StatsResponse carries the running revenue aggregates. Revenue is reported
// both in minor units and as a major-unit decimal string.
type StatsResponse struct {
	TotalRevenue      int64  `json:"total_revenue"`
	TotalRevenueMajor string `json:"total_revenue_major"`
	ActiveSubscribers int64  `json:"active_subscribers"`
}

// ProcessBulk handles POST /admin/bulk
func (h *AdminHandler) ProcessBulk(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	subscribers := make([]billing.AccountID, len(req.Subscribers))
	for i, s := range req.Subscribers {
		subscribers[i] = billing.AccountID(s)
	}

	caller := middleware.GetAccountID(c)
	result, err := h.admin.ProcessBulk(c.Request.Context(), caller, appbilling.BulkRequest{
		Operation:      billing.ParseBulkOperation(req.Operation),
		Subscribers:    subscribers,
		PlanID:         req.PlanID,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Stats handles GET /admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	major := decimal.NewFromInt(stats.TotalRevenue).Shift(-2)
	h.Success(c, StatsResponse{
		TotalRevenue:      stats.TotalRevenue,
		TotalRevenueMajor: major.StringFixed(2),
		ActiveSubscribers: stats.ActiveSubscribers,
	})
}

// RegisterRoutes registers admin routes on the given group
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	{
		admin.POST("/bulk", h.ProcessBulk)
		admin.GET("/stats", h.Stats)
	}
}
