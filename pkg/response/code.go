package response

// Error taxonomy. Every handler failure maps onto one of these codes so the
// storefront and dashboard can branch without parsing messages.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeUpstreamFailure = "UPSTREAM_FAILURE"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
)
