package dto

import (
	"net/http"

	"github.com/subhub/backend/internal/domain/billing"
)

// Transport-level error reasons for failures that never reach the billing
// core. They carry no numeric code.
const (
	ReasonBadRequest   = "BAD_REQUEST"
	ReasonUnauthorized = "UNAUTHORIZED"
	ReasonNotFound     = "NOT_FOUND"
	ReasonInternal     = "INTERNAL_ERROR"
)

// domainCodeHTTPStatus maps billing error codes to HTTP status codes
var domainCodeHTTPStatus = map[int]int{
	billing.CodeNotAuthorized:        http.StatusForbidden,
	billing.CodeInvalidPlan:          http.StatusConflict,
	billing.CodeSubscriptionNotFound: http.StatusNotFound,
	billing.CodeSubscriptionExpired:  http.StatusForbidden,
	billing.CodeInsufficientPayment:  http.StatusPaymentRequired,
	billing.CodePlanNotFound:         http.StatusNotFound,
	billing.CodeAlreadySubscribed:    http.StatusConflict,
	billing.CodeInvalidAmount:        http.StatusBadRequest,
	billing.CodeSubscriptionInactive: http.StatusConflict,
}

// HTTPStatusForCode returns the HTTP status for a billing error code.
// Unknown codes fall back to 500 Internal Server Error.
func HTTPStatusForCode(code int) int {
	if status, ok := domainCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
