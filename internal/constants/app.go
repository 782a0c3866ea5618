package constants

const AppVersion = "1.0.0"

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Redis keys. The client IP is appended.
const (
	KeyRateLimitLogin  = "demonlist:ratelimit:login:"
	KeyRateLimitGlobal = "demonlist:ratelimit:global:"
)
