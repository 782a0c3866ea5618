package constants

// Request headers
const (
	HeaderAuthorization  = "Authorization"
	HeaderOrigin         = "Origin"
	HeaderXRequestID     = "X-Request-ID"
	HeaderXCorrelationID = "X-Correlation-ID"
)

// Response headers
const (
	HeaderLink               = "Link"
	HeaderRetryAfter         = "Retry-After"
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// CORS
const (
	CORSAllowHeaders  = "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID"
	CORSAllowMethods  = "GET, POST, OPTIONS"
	CORSExposeHeaders = HeaderLink + ", " + HeaderRetryAfter + ", " + HeaderXRequestID + ", " +
		HeaderRateLimitLimit + ", " + HeaderRateLimitRemaining + ", " + HeaderRateLimitReset
)

const (
	MsgBadRequest    = "Invalid request"
	MsgInternalError = "Internal server error"
	MsgTimeout       = "Request timeout"
	MsgLogout        = "Logout successful"
)
