package profile

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusExpired      Status = "EXPIRED"
	StatusValid        Status = "VALID"
	StatusDecodeFailed Status = "DECODE_FAILED"
	StatusMissingField Status = "MISSING_FIELD"
	StatusParseError   Status = "PARSE_ERROR"
	// archive-only outcomes
	StatusNoEmbedded   Status = "NO_EMBEDDED_PROFILE"
	StatusExtractError Status = "EXTRACT_ERROR"
)

// Verdict is the outcome for one checked file.
type Verdict struct {
	Path       string
	Status     Status
	Expiration time.Time // set for EXPIRED and VALID
	Detail     string    // cause for PARSE_ERROR and EXTRACT_ERROR
}

// Evaluate classifies expiration against ref. Only a strictly earlier date is expired.
func Evaluate(path string, expiration, ref time.Time) Verdict {
	status := StatusValid
	if expiration.Before(ref) {
		status = StatusExpired
	}
	return Verdict{Path: path, Status: status, Expiration: expiration}
}

// Line renders the verdict as printed to the console.
func (v Verdict) Line() string {
	switch v.Status {
	case StatusExpired, StatusValid:
		return fmt.Sprintf("%s: %s (Expires: %s)", v.Path, v.Status, v.Expiration.Format(DateLayout))
	case StatusDecodeFailed:
		return v.Path + ": Failed to decode"
	case StatusMissingField:
		return v.Path + ": No expiration date found"
	case StatusParseError:
		return v.Path + ": Error processing - " + v.Detail
	case StatusNoEmbedded:
		return v.Path + ": No " + EmbeddedProfileName + " found"
	case StatusExtractError:
		return v.Path + ": Error extracting - " + v.Detail
	default:
		return fmt.Sprintf("%s: %s", v.Path, v.Status)
	}
}

func (v Verdict) String() string { return v.Line() }
