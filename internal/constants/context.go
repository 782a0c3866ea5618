package constants

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// Context Keys for request tracking and metadata
const (
	CtxKeyRequestID     ContextKey = "request_id"
	CtxKeyMemberID      ContextKey = "member_id"
	CtxKeyPermissions   ContextKey = "permissions"
	CtxKeyClientIP      ContextKey = "client_ip"
	CtxKeyUserAgent     ContextKey = "user_agent"
	CtxKeyTraceID       ContextKey = "trace_id"
	CtxKeyCorrelationID ContextKey = "correlation_id"
	CtxKeyStartTime     ContextKey = "start_time"
	CtxKeyModule        ContextKey = "module"
	CtxKeyFunction      ContextKey = "function"
	CtxKeyMemberName    ContextKey = "member_name"
)

// Gin context keys set by the auth middleware
const (
	GinKeyMemberID    = "member_id"
	GinKeyMemberName  = "member_name"
	GinKeyPermissions = "permissions"
	GinKeyRequestID   = "request_id"
	GinKeyRequestBody = "request_body"
)
