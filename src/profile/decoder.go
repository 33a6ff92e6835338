package profile

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	DecoderSecurity = "security"
	DecoderPKCS7    = "pkcs7"
)

// Decoder verifies the signed envelope at inputPath and writes the embedded
// property list to outputPath. On success the caller owns outputPath and must
// remove it. Failures are reported as *DecodeError.
type Decoder interface {
	Decode(ctx context.Context, inputPath, outputPath string) error
}

// DecodeError is a rejected or unprocessable envelope.
type DecodeError struct {
	Path       string
	Diagnostic string // decoder output, verbatim
	Err        error
}

func (e *DecodeError) Error() string {
	if e.Diagnostic != "" {
		return fmt.Sprintf("decode %s: %s", e.Path, e.Diagnostic)
	}
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NewDecoder returns the named backend. timeout bounds a single decode; zero
// leaves it unbounded.
func NewDecoder(name string, timeout time.Duration) (Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DecoderSecurity, "":
		return &SecurityDecoder{Binary: "security", Timeout: timeout}, nil
	case DecoderPKCS7:
		return &PKCS7Decoder{}, nil
	default:
		return nil, fmt.Errorf("unknown decoder %q", name)
	}
}

func isKnownDecoder(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DecoderSecurity, DecoderPKCS7, "":
		return true
	}
	return false
}
