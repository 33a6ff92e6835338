package profile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

// fakeResult scripts what fakeDecoder does for one input file name.
type fakeResult struct {
	doc        map[string]any // marshalled as XML plist when set
	raw        []byte         // written verbatim when set
	diagnostic string         // non-empty means fail
	partial    bool           // write raw before failing
}

// fakeDecoder stands in for the external decoder, keyed by input base name.
type fakeDecoder struct {
	mu      sync.Mutex
	results map[string]fakeResult
	calls   []string
}

func newFakeDecoder(results map[string]fakeResult) *fakeDecoder {
	return &fakeDecoder{results: results}
}

func (f *fakeDecoder) Decode(_ context.Context, inputPath, outputPath string) error {
	f.mu.Lock()
	f.calls = append(f.calls, inputPath)
	f.mu.Unlock()

	res, ok := f.results[filepath.Base(inputPath)]
	if !ok {
		return &DecodeError{Path: inputPath, Diagnostic: "unscripted input"}
	}
	if res.diagnostic != "" {
		if res.partial {
			_ = os.WriteFile(outputPath, res.raw, 0644)
		}
		return &DecodeError{Path: inputPath, Diagnostic: res.diagnostic}
	}
	data := res.raw
	if res.doc != nil {
		var err error
		data, err = plist.Marshal(res.doc, plist.XMLFormat)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(outputPath, data, 0644)
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("signed blob"), 0644))
}

func writePlist(t *testing.T, path string, doc map[string]any, format int) {
	t.Helper()
	data, err := plist.Marshal(doc, format)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

// leftovers lists decoded artifacts remaining under dir.
func leftovers(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*"+DecodedSuffix))
	require.NoError(t, err)
	return matches
}
