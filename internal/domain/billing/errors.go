package billing

import "github.com/subhub/backend/internal/domain/shared"

// Numeric error codes for billing operations. Each code corresponds to
// exactly one violated precondition.
const (
	CodeNotAuthorized        = 100
	CodeInvalidPlan          = 101
	CodeSubscriptionNotFound = 102
	CodeSubscriptionExpired  = 103
	CodeInsufficientPayment  = 104
	CodePlanNotFound         = 105
	CodeAlreadySubscribed    = 106
	CodeInvalidAmount        = 107
	CodeSubscriptionInactive = 108
)

var (
	// ErrNotAuthorized is returned when a caller other than the designated
	// owner invokes an owner-restricted operation.
	ErrNotAuthorized = shared.NewDomainError(CodeNotAuthorized, "NOT_AUTHORIZED", "Caller is not authorized to perform this operation")

	// ErrInvalidPlan is returned when the referenced plan exists but is not active.
	ErrInvalidPlan = shared.NewDomainError(CodeInvalidPlan, "INVALID_PLAN", "Plan is not active")

	// ErrSubscriptionNotFound is returned when the caller has no subscription record.
	ErrSubscriptionNotFound = shared.NewDomainError(CodeSubscriptionNotFound, "SUBSCRIPTION_NOT_FOUND", "No subscription exists for this subscriber")

	// ErrSubscriptionExpired is returned on access checks when the caller's
	// subscription exists but its validity window has passed.
	ErrSubscriptionExpired = shared.NewDomainError(CodeSubscriptionExpired, "SUBSCRIPTION_EXPIRED", "Subscription is no longer valid")

	// ErrInsufficientPayment is returned when the computed cost falls below
	// the minimum subscription amount.
	ErrInsufficientPayment = shared.NewDomainError(CodeInsufficientPayment, "INSUFFICIENT_PAYMENT", "Payment amount is below the minimum subscription amount")

	// ErrPlanNotFound is returned when the referenced plan does not exist.
	ErrPlanNotFound = shared.NewDomainError(CodePlanNotFound, "PLAN_NOT_FOUND", "Plan not found")

	// ErrAlreadySubscribed is returned when the caller already holds a
	// subscription record, regardless of its current validity.
	ErrAlreadySubscribed = shared.NewDomainError(CodeAlreadySubscribed, "ALREADY_SUBSCRIBED", "Subscriber already has a subscription")

	// ErrInvalidAmount is returned for non-positive prices and for empty or
	// oversized bulk subscriber lists.
	ErrInvalidAmount = shared.NewDomainError(CodeInvalidAmount, "INVALID_AMOUNT", "Amount or list size is invalid")

	// ErrSubscriptionInactive is returned on renewal when the subscription's
	// active flag is cleared.
	ErrSubscriptionInactive = shared.NewDomainError(CodeSubscriptionInactive, "SUBSCRIPTION_INACTIVE", "Subscription is inactive")
)
