package profile

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/fullsailor/pkcs7"
)

// PKCS7Decoder decodes the envelope in-process. Verify checks the signature
// over the content against the signer certificates carried in the envelope;
// it does not evaluate a trust chain.
type PKCS7Decoder struct{}

func (PKCS7Decoder) Decode(ctx context.Context, inputPath, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return &DecodeError{Path: inputPath, Err: err}
	}

	content, err := fileutil.ReadBytesFromFile(inputPath)
	if err != nil {
		return &DecodeError{Path: inputPath, Err: err}
	}

	p7, err := pkcs7.Parse(content)
	if err != nil {
		return &DecodeError{Path: inputPath, Diagnostic: "malformed envelope: " + err.Error(), Err: err}
	}
	if len(p7.Signers) == 0 {
		err := errors.New("envelope carries no signers")
		return &DecodeError{Path: inputPath, Diagnostic: err.Error(), Err: err}
	}
	if err := p7.Verify(); err != nil {
		return &DecodeError{Path: inputPath, Diagnostic: "signature verification failed: " + err.Error(), Err: err}
	}
	if len(p7.Content) == 0 {
		err := errors.New("envelope carries no content")
		return &DecodeError{Path: inputPath, Diagnostic: err.Error(), Err: err}
	}

	if err := os.WriteFile(outputPath, p7.Content, 0644); err != nil {
		return &DecodeError{Path: inputPath, Err: fmt.Errorf("failed to write %s: %w", outputPath, err)}
	}
	return nil
}
