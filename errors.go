package readprof

import "errors"

var (
	// ErrNilConfig is returned by [Config.Validate] on a nil receiver.
	ErrNilConfig = errors.New("nil config")
	// ErrInvalidSamplingPercentage is returned when SamplingPercentage is outside [0,100].
	ErrInvalidSamplingPercentage = errors.New("sampling percentage must be within [0,100]")
	// ErrNilReader is returned by [Open] helpers when no underlying reader is available.
	ErrNilReader = errors.New("nil underlying reader")
)
