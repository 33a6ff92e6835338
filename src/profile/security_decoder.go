package profile

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	logs "github.com/danmuck/smplog"
)

// SecurityDecoder shells out to the macOS `security cms -D` tool, which
// checks the CMS signature before writing the payload.
type SecurityDecoder struct {
	Binary  string
	Timeout time.Duration // 0 = no deadline
}

func (d *SecurityDecoder) Decode(ctx context.Context, inputPath, outputPath string) error {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	binary := d.Binary
	if binary == "" {
		binary = "security"
	}

	logs.Debugf("Decode(%s -> %s)", inputPath, outputPath)
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "cms", "-D", "-i", inputPath, "-o", outputPath)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		diag := strings.TrimRight(stderr.String(), "\r\n")
		if diag == "" {
			switch {
			case errors.Is(ctx.Err(), context.DeadlineExceeded):
				diag = "timed out after " + d.Timeout.String()
			case errors.Is(err, exec.ErrNotFound):
				diag = binary + ": tool unavailable"
			default:
				diag = err.Error()
			}
		}
		return &DecodeError{Path: inputPath, Diagnostic: diag, Err: err}
	}
	return nil
}
