package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	appbilling "github.com/subhub/backend/internal/application/billing"
	"github.com/subhub/backend/internal/domain/billing"
	"github.com/subhub/backend/internal/interfaces/http/middleware"
)

// SubscriptionHandler handles subscription lifecycle HTTP requests
type SubscriptionHandler struct {
	BaseHandler
	subscriptions *appbilling.SubscriptionService
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptions *appbilling.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// SubscribeRequest is the body of a subscription request. Plan id and
// duration are validated by the billing core so that violations surface with
// their numeric code (an unknown plan or a below-minimum total), so neither
// field carries binding rules.
type SubscribeRequest struct {
	PlanID         int64 `json:"plan_id"`
	DurationMonths int   `json:"duration_months"`
}

// RenewRequest is the body of a renewal request. Duration is validated by
// the billing core, same as SubscribeRequest.
type RenewRequest struct {
	DurationMonths int `json:"duration_months"`
}

// AccessResponse reports the outcome of a service access check
type AccessResponse struct {
	Service   string `json:"service"`
	HasAccess bool   `json:"has_access"`
}

// PaymentResponse is the wire representation of a payment ledger entry
type PaymentResponse struct {
	ID         int64     `json:"id"`
	Subscriber string    `json:"subscriber"`
	PlanID     int64     `json:"plan_id"`
	Amount     int64     `json:"amount"`
	Date       time.Time `json:"date"`
	Type       string    `json:"type"`
}

func toPaymentResponse(p *billing.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		Subscriber: p.Subscriber.String(),
		PlanID:     p.PlanID,
		Amount:     p.Amount,
		Date:       p.Date,
		Type:       string(p.Type),
	}
}

// Subscribe handles POST /billing/subscriptions
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	caller := middleware.GetAccountID(c)
	result, err := h.subscriptions.Subscribe(c.Request.Context(), caller, req.PlanID, req.DurationMonths)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Renew handles POST /billing/subscriptions/renew
func (h *SubscriptionHandler) Renew(c *gin.Context) {
	var req RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	caller := middleware.GetAccountID(c)
	result, err := h.subscriptions.Renew(c.Request.Context(), caller, req.DurationMonths)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CheckAccess handles GET /billing/access/:service
func (h *SubscriptionHandler) CheckAccess(c *gin.Context) {
	service := c.Param("service")

	caller := middleware.GetAccountID(c)
	hasAccess, err := h.subscriptions.CheckServiceAccess(c.Request.Context(), caller, service)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AccessResponse{Service: service, HasAccess: hasAccess})
}

// GetPayment handles GET /billing/payments/:id
func (h *SubscriptionHandler) GetPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "Invalid payment id")
		return
	}

	record, err := h.subscriptions.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if record == nil {
		h.NotFound(c, "Payment not found")
		return
	}

	h.Success(c, toPaymentResponse(record))
}

// RegisterRoutes registers subscription routes on the given group
func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	billingGroup := rg.Group("/billing")
	{
		billingGroup.POST("/subscriptions", h.Subscribe)
		billingGroup.POST("/subscriptions/renew", h.Renew)
		billingGroup.GET("/access/:service", h.CheckAccess)
		billingGroup.GET("/payments/:id", h.GetPayment)
	}
}
