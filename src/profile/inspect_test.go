package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

func TestInspectFormats(t *testing.T) {
	want := utcDate(2030, 1, 1)
	doc := map[string]any{
		"AppIDName":      "Example",
		"ExpirationDate": want,
		"Entitlements":   map[string]any{"get-task-allow": true},
	}

	for name, format := range map[string]int{
		"xml":    plist.XMLFormat,
		"binary": plist.BinaryFormat,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "doc.plist")
			writePlist(t, path, doc, format)

			got, err := Inspect(path)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v, want %v", got, want)
		})
	}
}

func TestInspectErrors(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.plist")
	writePlist(t, missing, map[string]any{"Name": "no date"}, plist.XMLFormat)
	_, err := Inspect(missing)
	assert.ErrorIs(t, err, ErrNoExpirationDate)

	wrongType := filepath.Join(dir, "wrong.plist")
	writePlist(t, wrongType, map[string]any{"ExpirationDate": 42}, plist.XMLFormat)
	_, err = Inspect(wrongType)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, wrongType, pe.Path)

	malformed := filepath.Join(dir, "bad.plist")
	require.NoError(t, os.WriteFile(malformed, []byte("<?xml version=\"1.0\"?><plist><dict><key>A"), 0644))
	_, err = Inspect(malformed)
	require.ErrorAs(t, err, &pe)

	_, err = Inspect(filepath.Join(dir, "absent.plist"))
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
