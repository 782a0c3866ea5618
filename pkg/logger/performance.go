package logger

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// PerformanceConfig tunes the hot-path logger
type PerformanceConfig struct {
	SamplingRate    float64       `json:"sampling_rate"`
	MinLogLevel     zapcore.Level `json:"min_log_level"`
	EnableSampling  bool          `json:"enable_sampling"`
	MaxLogPerSecond int           `json:"max_log_per_second"`
	EnableRateLimit bool          `json:"enable_rate_limit"`
}

// DefaultPerformanceConfig is used when nothing was initialised
func DefaultPerformanceConfig() PerformanceConfig {
	return PerformanceConfig{
		SamplingRate:    1.0,
		MinLogLevel:     zapcore.InfoLevel,
		EnableSampling:  false,
		MaxLogPerSecond: 1000,
		EnableRateLimit: false,
	}
}

// ProductionConfig samples and rate limits
func ProductionConfig() PerformanceConfig {
	return PerformanceConfig{
		SamplingRate:    0.1,
		MinLogLevel:     zapcore.InfoLevel,
		EnableSampling:  true,
		MaxLogPerSecond: 500,
		EnableRateLimit: true,
	}
}

// DevelopmentConfig logs everything
func DevelopmentConfig() PerformanceConfig {
	return PerformanceConfig{
		SamplingRate:    1.0,
		MinLogLevel:     zapcore.DebugLevel,
		EnableSampling:  false,
		MaxLogPerSecond: 10000,
		EnableRateLimit: false,
	}
}

// ConfigForEnvironment picks one of the presets above
func ConfigForEnvironment(env string) PerformanceConfig {
	switch env {
	case "production":
		return ProductionConfig()
	case "development":
		return DevelopmentConfig()
	default:
		return DefaultPerformanceConfig()
	}
}

// OptimizedLogger drops entries below MinLogLevel before any field is built
type OptimizedLogger struct {
	config      PerformanceConfig
	logger      *zap.Logger
	rateLimiter *RateLimiter
}

// RateLimiter caps the number of entries per second
type RateLimiter struct {
	maxLogs   int
	current   int
	lastReset time.Time
	mu        sync.Mutex
}

func NewRateLimiter(maxLogs int) *RateLimiter {
	return &RateLimiter{
		maxLogs:   maxLogs,
		lastReset: time.Now(),
	}
}

func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastReset) >= time.Second {
		rl.current = 0
		rl.lastReset = now
	}

	if rl.current >= rl.maxLogs {
		return false
	}

	rl.current++
	return true
}

// NewOptimizedLogger builds a JSON stdout logger for config
func NewOptimizedLogger(config PerformanceConfig) (*OptimizedLogger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(config.MinLogLevel)
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	zapConfig.DisableStacktrace = true

	zapLogger, err := zapConfig.Build(zap.WithCaller(false))
	if err != nil {
		return nil, err
	}

	return Wrap(zapLogger, config), nil
}

// Wrap puts an existing zap logger behind the level and rate checks.
// Sampling only applies below ErrorLevel.
func Wrap(zapLogger *zap.Logger, config PerformanceConfig) *OptimizedLogger {
	if config.EnableSampling {
		zapLogger = zapLogger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return sampleBelowError(core, int(config.SamplingRate*100))
		}))
	}

	return &OptimizedLogger{
		config:      config,
		logger:      zapLogger,
		rateLimiter: NewRateLimiter(config.MaxLogPerSecond),
	}
}

func sampleBelowError(core zapcore.Core, first int) zapcore.Core {
	sampled := zapcore.NewSamplerWithOptions(belowLevel{Core: core, ceiling: zapcore.ErrorLevel}, time.Second, first, 0)
	loud, err := zapcore.NewIncreaseLevelCore(core, zapcore.ErrorLevel)
	if err != nil {
		return sampled
	}
	return zapcore.NewTee(sampled, loud)
}

// belowLevel passes only entries under ceiling to the wrapped core
type belowLevel struct {
	zapcore.Core
	ceiling zapcore.Level
}

func (c belowLevel) Enabled(level zapcore.Level) bool {
	return level < c.ceiling && c.Core.Enabled(level)
}

func (c belowLevel) With(fields []zapcore.Field) zapcore.Core {
	return belowLevel{Core: c.Core.With(fields), ceiling: c.ceiling}
}

func (c belowLevel) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ent.Level >= c.ceiling {
		return ce
	}
	return c.Core.Check(ent, ce)
}

// ShouldLog reports whether an entry at level would be written. Errors
// are never rate limited.
func (ol *OptimizedLogger) ShouldLog(level zapcore.Level) bool {
	if level < ol.config.MinLogLevel {
		return false
	}

	if level < zapcore.ErrorLevel && ol.config.EnableRateLimit && !ol.rateLimiter.Allow() {
		return false
	}

	return true
}

// Zap exposes the underlying logger
func (ol *OptimizedLogger) Zap() *zap.Logger {
	return ol.logger
}

var (
	optimizedLogger *OptimizedLogger
	optimizedMu     sync.RWMutex
)

// InitOptimizedLogger replaces the global hot-path logger
func InitOptimizedLogger(config PerformanceConfig) error {
	logger, err := NewOptimizedLogger(config)
	if err != nil {
		return err
	}
	SetOptimizedLogger(logger)
	return nil
}

// SetOptimizedLogger installs ol as the global logger
func SetOptimizedLogger(ol *OptimizedLogger) {
	optimizedMu.Lock()
	optimizedLogger = ol
	optimizedMu.Unlock()
}

// GetOptimizedLogger returns the global logger, building one from GO_ENV on first use
func GetOptimizedLogger() *OptimizedLogger {
	optimizedMu.RLock()
	ol := optimizedLogger
	optimizedMu.RUnlock()
	if ol != nil {
		return ol
	}

	optimizedMu.Lock()
	defer optimizedMu.Unlock()
	if optimizedLogger == nil {
		logger, err := NewOptimizedLogger(ConfigForEnvironment(os.Getenv("GO_ENV")))
		if err != nil {
			logger = Wrap(zap.NewNop(), DefaultPerformanceConfig())
		}
		optimizedLogger = logger
	}
	return optimizedLogger
}
