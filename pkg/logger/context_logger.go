package logger

import (
	"context"
	"fmt"
	"time"

	ctxutil "github.com/Payphone-Digital/demonlist/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextLogBuilder accumulates fields for one entry. Request metadata is
// pulled out of ctx once the level is known to be enabled.
type ContextLogBuilder struct {
	logger  *OptimizedLogger
	ctx     context.Context
	level   zapcore.Level
	message string
	fields  []zap.Field
	enabled bool
}

// WithContext starts a builder bound to ctx
func (ol *OptimizedLogger) WithContext(ctx context.Context) *ContextLogBuilder {
	return &ContextLogBuilder{logger: ol, ctx: ctx, level: zapcore.InfoLevel}
}

func (b *ContextLogBuilder) at(level zapcore.Level, message string) *ContextLogBuilder {
	b.level = level
	b.message = message
	b.enabled = b.logger.ShouldLog(level)
	if b.enabled {
		b.fields = make([]zap.Field, 0, 12)
		b.contextFields()
	}
	return b
}

func (b *ContextLogBuilder) contextFields() {
	if b.ctx == nil {
		return
	}

	for _, f := range []struct{ key, value string }{
		{"request_id", ctxutil.GetRequestID(b.ctx)},
		{"trace_id", ctxutil.GetTraceID(b.ctx)},
		{"correlation_id", ctxutil.GetCorrelationID(b.ctx)},
		{"client_ip", ctxutil.GetClientIP(b.ctx)},
		{"user_agent", ctxutil.GetUserAgent(b.ctx)},
		{"module", ctxutil.GetModule(b.ctx)},
		{"function", ctxutil.GetFunction(b.ctx)},
	} {
		if f.value != "" {
			b.fields = append(b.fields, zap.String(f.key, f.value))
		}
	}
	if memberID, ok := ctxutil.GetMemberID(b.ctx); ok {
		b.fields = append(b.fields, zap.Int64("member_id", memberID))
	}
	if elapsed := ctxutil.GetDuration(b.ctx); elapsed > 0 {
		b.fields = append(b.fields, zap.Duration("elapsed", elapsed))
	}
	if err := b.ctx.Err(); err != nil {
		b.fields = append(b.fields, zap.NamedError("context_error", err))
	}
}

func (b *ContextLogBuilder) Info(message string) *ContextLogBuilder {
	return b.at(zapcore.InfoLevel, message)
}

func (b *ContextLogBuilder) Warn(message string) *ContextLogBuilder {
	return b.at(zapcore.WarnLevel, message)
}

func (b *ContextLogBuilder) Error(message string) *ContextLogBuilder {
	return b.at(zapcore.ErrorLevel, message)
}

func (b *ContextLogBuilder) Debug(message string) *ContextLogBuilder {
	return b.at(zapcore.DebugLevel, message)
}

func (b *ContextLogBuilder) add(f zap.Field) *ContextLogBuilder {
	if b.enabled {
		b.fields = append(b.fields, f)
	}
	return b
}

func (b *ContextLogBuilder) String(key, value string) *ContextLogBuilder {
	return b.add(zap.String(key, value))
}

func (b *ContextLogBuilder) Int(key string, value int) *ContextLogBuilder {
	return b.add(zap.Int(key, value))
}

func (b *ContextLogBuilder) Int64(key string, value int64) *ContextLogBuilder {
	return b.add(zap.Int64(key, value))
}

func (b *ContextLogBuilder) Bool(key string, value bool) *ContextLogBuilder {
	return b.add(zap.Bool(key, value))
}

func (b *ContextLogBuilder) Stringer(key string, value fmt.Stringer) *ContextLogBuilder {
	return b.add(zap.Stringer(key, value))
}

func (b *ContextLogBuilder) Any(key string, value interface{}) *ContextLogBuilder {
	return b.add(zap.Any(key, value))
}

// Duration records how long the logged operation took
func (b *ContextLogBuilder) Duration(value time.Duration) *ContextLogBuilder {
	return b.add(zap.Duration("duration", value))
}

func (b *ContextLogBuilder) Err(err error) *ContextLogBuilder {
	if err == nil {
		return b
	}
	return b.add(zap.Error(err))
}

// Log writes the entry. Entries on a cancelled context still go out
// with context_error attached.
func (b *ContextLogBuilder) Log() {
	if !b.enabled {
		return
	}
	if ce := b.logger.logger.Check(b.level, b.message); ce != nil {
		ce.Write(b.fields...)
	}
}

func InfoWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Info(message)
}

func WarnWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Warn(message)
}

func ErrorWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Error(message)
}

func DebugWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Debug(message)
}
