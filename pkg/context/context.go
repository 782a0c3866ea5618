// Package ctxutil carries request metadata on context.Context for logging
// and authorisation.
package ctxutil

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/demonlist/internal/constants"
)

type ContextKey = constants.ContextKey

const (
	RequestIDKey     = constants.CtxKeyRequestID
	MemberIDKey      = constants.CtxKeyMemberID
	PermissionsKey   = constants.CtxKeyPermissions
	ClientIPKey      = constants.CtxKeyClientIP
	UserAgentKey     = constants.CtxKeyUserAgent
	TraceIDKey       = constants.CtxKeyTraceID
	CorrelationIDKey = constants.CtxKeyCorrelationID
	StartTimeKey     = constants.CtxKeyStartTime
	ModuleKey        = constants.CtxKeyModule
	FunctionKey      = constants.CtxKeyFunction
	MemberNameKey    = constants.CtxKeyMemberName
)

func lookup[T any](ctx context.Context, key ContextKey) (T, bool) {
	v, ok := ctx.Value(key).(T)
	return v, ok
}

func str(ctx context.Context, key ContextKey) string {
	v, _ := lookup[string](ctx, key)
	return v
}

// WithMember records the authenticated member on ctx
func WithMember(ctx context.Context, memberID int64, name string, permissions uint16) context.Context {
	ctx = context.WithValue(ctx, MemberIDKey, memberID)
	ctx = context.WithValue(ctx, MemberNameKey, name)
	return context.WithValue(ctx, PermissionsKey, permissions)
}

func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func GetRequestID(ctx context.Context) string     { return str(ctx, RequestIDKey) }
func GetTraceID(ctx context.Context) string       { return str(ctx, TraceIDKey) }
func GetCorrelationID(ctx context.Context) string { return str(ctx, CorrelationIDKey) }
func GetClientIP(ctx context.Context) string      { return str(ctx, ClientIPKey) }
func GetUserAgent(ctx context.Context) string     { return str(ctx, UserAgentKey) }
func GetModule(ctx context.Context) string        { return str(ctx, ModuleKey) }
func GetFunction(ctx context.Context) string      { return str(ctx, FunctionKey) }

// GetMemberID returns the authenticated member id. Anonymous requests
// report false.
func GetMemberID(ctx context.Context) (int64, bool) {
	return lookup[int64](ctx, MemberIDKey)
}

// GetDuration is the time since NewContext stamped the request
func GetDuration(ctx context.Context) time.Duration {
	if start, ok := lookup[time.Time](ctx, StartTimeKey); ok && !start.IsZero() {
		return time.Since(start)
	}
	return 0
}

// NewContext stamps a start time on ctx unless one is already set
func NewContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := lookup[time.Time](ctx, StartTimeKey); !ok {
		ctx = context.WithValue(ctx, StartTimeKey, time.Now())
	}
	return ctx
}

// NewContextWithRequest tags ctx with the calling module and function and
// fills request metadata that RequestContext has not already set.
func NewContextWithRequest(ctx context.Context, req *http.Request, module, function string) context.Context {
	ctx = NewContext(ctx)
	ctx = context.WithValue(ctx, ModuleKey, module)
	ctx = context.WithValue(ctx, FunctionKey, function)

	if req == nil {
		return ctx
	}
	if GetUserAgent(ctx) == "" {
		ctx = context.WithValue(ctx, UserAgentKey, req.UserAgent())
	}
	if GetRequestID(ctx) == "" {
		if id := req.Header.Get(constants.HeaderXRequestID); id != "" {
			ctx = context.WithValue(ctx, RequestIDKey, id)
		}
	}
	return ctx
}
