package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	appbilling "github.com/subhub/backend/internal/application/billing"
	"github.com/subhub/backend/internal/domain/billing"
	"github.com/subhub/backend/internal/interfaces/http/middleware"
)

// PlanHandler handles plan registry HTTP requests
type PlanHandler struct {
	BaseHandler
	plans *appbilling.PlanService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(plans *appbilling.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// CreatePlanRequest is the body of a plan creation request. The price is
// validated by the billing core so that a non-positive value surfaces with
// its numeric code, so the field carries no binding rule.
type CreatePlanRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	PricePerMonth int64  `json:"price_per_month"`
	MaxUsers      int    `json:"max_users" binding:"omitempty,gte=0"`
	Features      string `json:"features"`
}

// CreatePlanResponse carries the id assigned to a newly created plan
type CreatePlanResponse struct {
	PlanID int64 `json:"plan_id"`
}

// PlanResponse is the wire representation of a plan
type PlanResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	PricePerMonth int64     `json:"price_per_month"`
	MaxUsers      int       `json:"max_users"`
	Features      string    `json:"features,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

func toPlanResponse(p *billing.Plan) PlanResponse {
	return PlanResponse{
		ID:            p.ID,
		Name:          p.Name,
		PricePerMonth: p.PricePerMonth,
		MaxUsers:      p.MaxUsers,
		Features:      p.Features,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
	}
}

// CreatePlan handles POST /billing/plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	caller := middleware.GetAccountID(c)
	planID, err := h.plans.CreatePlan(c.Request.Context(), caller, appbilling.CreatePlanInput{
		Name:          req.Name,
		PricePerMonth: req.PricePerMonth,
		MaxUsers:      req.MaxUsers,
		Features:      req.Features,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, CreatePlanResponse{PlanID: planID})
}

// GetPlan handles GET /billing/plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "Invalid plan id")
		return
	}

	plan, err := h.plans.GetPlan(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPlanResponse(plan))
}

// RegisterRoutes registers plan routes on the given group
func (h *PlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	plans := rg.Group("/billing/plans")
	{
		plans.POST("", h.CreatePlan)
		plans.GET("/:id", h.GetPlan)
	}
}
