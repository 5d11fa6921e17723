package pcc

import "github.com/pkg/errors"

// Error classes returned by the decoder. Concrete failures wrap one of these
// and should be tested with errors.Is.
var (
	// ErrNoFrames reports a group header whose frame count is zero.
	ErrNoFrames = errors.New("pcc: group of frames is empty")
	// ErrTruncated reports a field or coded segment that runs past the buffer.
	ErrTruncated = errors.New("pcc: truncated input")
	// ErrMalformed reports input the decoder cannot interpret.
	ErrMalformed = errors.New("pcc: malformed input")
	// ErrConformance reports a violation only detected in strict mode.
	ErrConformance = errors.New("pcc: conformance violation")
	// ErrInvariant reports a broken internal invariant.
	ErrInvariant = errors.New("pcc: invariant violated")
)

func malformedf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformed, format, args...)
}

func conformancef(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConformance, format, args...)
}

func invariantf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvariant, format, args...)
}
