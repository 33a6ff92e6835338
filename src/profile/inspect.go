package profile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"howett.net/plist"
)

var ErrNoExpirationDate = errors.New("no expiration date found")

// ParseError means the decoded artifact could not be read as a property list,
// or its expiration field had the wrong type.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Inspect reads the property list at path (XML or binary) and returns its
// ExpirationDate unchanged. A missing or zero date yields ErrNoExpirationDate.
func Inspect(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	var doc map[string]any
	if err := plist.NewDecoder(f).Decode(&doc); err != nil {
		return time.Time{}, &ParseError{Path: path, Err: err}
	}

	raw, ok := doc[ExpirationDateKey]
	if !ok || raw == nil {
		return time.Time{}, ErrNoExpirationDate
	}
	date, ok := raw.(time.Time)
	if !ok {
		return time.Time{}, &ParseError{
			Path: path,
			Err:  fmt.Errorf("%s is %T, not a date", ExpirationDateKey, raw),
		}
	}
	if date.IsZero() {
		return time.Time{}, ErrNoExpirationDate
	}
	return date, nil
}
