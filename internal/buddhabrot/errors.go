package buddhabrot

import "errors"

// Precondition failures. Every entry point checks these before touching a buffer.
var (
	ErrInvalidDimension      = errors.New("invalid dimension")
	ErrInvalidIterationBound = errors.New("invalid iteration bound")
	ErrUnknownColorMode      = errors.New("unknown color mode")
	ErrUnknownPointsMode     = errors.New("unknown points mode")
	ErrUnknownEscapeTest     = errors.New("unknown escape test")
	ErrUnknownLuminance      = errors.New("unknown luminance mode")
	ErrBufferSizeMismatch    = errors.New("buffer size mismatch")
	ErrInvalidTransform      = errors.New("invalid transform")
	ErrInvalidContrast       = errors.New("invalid contrast")
	ErrUnsupportedFormat     = errors.New("unsupported image format")
)
