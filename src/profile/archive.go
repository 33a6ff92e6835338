package profile

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrNoEmbeddedProfile = errors.New("no embedded profile")

// maxEmbeddedSize caps how much of an archive entry is copied out.
const maxEmbeddedSize = 16 << 20

// ExtractEmbedded copies the first entry of the .ipa at archivePath whose name
// ends in embedded.mobileprovision into destDir. It returns the extracted path
// and the entry name. The entry is written flat under destDir regardless of
// its path inside the archive.
func ExtractEmbedded(archivePath, destDir string) (string, string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, EmbeddedProfileName) {
			continue
		}
		outPath := filepath.Join(destDir, EmbeddedProfileName)
		if err := copyZipEntry(f, outPath); err != nil {
			return "", "", err
		}
		return outPath, f.Name, nil
	}
	return "", "", ErrNoEmbeddedProfile
}

func copyZipEntry(f *zip.File, outPath string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer out.Close()

	n, err := io.Copy(out, io.LimitReader(rc, maxEmbeddedSize+1))
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	if n > maxEmbeddedSize {
		return fmt.Errorf("%s exceeds %d bytes", f.Name, maxEmbeddedSize)
	}
	return nil
}
