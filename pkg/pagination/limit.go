package pagination

import "github.com/Payphone-Digital/demonlist/internal/constants"

const (
	DefaultLimit = constants.DefaultLimit
	MaxLimit     = constants.MaxLimit
)

// Limits holds the configured page size bounds
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits returns the stock page size bounds
func DefaultLimits() Limits {
	return Limits{Default: DefaultLimit, Max: MaxLimit}
}

// Resolve turns the optional limit query value into a page size.
// Unset falls back to Default; anything outside [1, Max] is rejected.
func (l Limits) Resolve(raw *int) (int, error) {
	if raw == nil {
		return l.Default, nil
	}
	if *raw < constants.MinLimit || *raw > l.Max {
		return 0, invalid(ErrInvalidLimit, "limit must be between 1 and %d, got %d", l.Max, *raw)
	}
	return *raw, nil
}
