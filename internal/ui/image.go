package ui

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// maxImageBytes caps local images embedded as data URIs.
const maxImageBytes = 5 << 20

// uploadedImageLabel stands in for an embedded image in the form, so the
// data URI itself never has to fit in a text input.
const uploadedImageLabel = "(uploaded image)"

// isLocalPath reports whether raw names a file rather than a URL.
func isLocalPath(raw string) bool {
	for _, prefix := range []string{"/", "~/", "./", "../", "file://"} {
		if strings.HasPrefix(raw, prefix) {
			return true
		}
	}
	return false
}

// readImageFile loads the image at path and returns it as a data URI.
func readImageFile(path string) (string, error) {
	path = strings.TrimPrefix(path, "file://")
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, rest)
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", errors.New("image file not found")
	case err != nil:
		return "", fmt.Errorf("read image: %w", err)
	case info.IsDir():
		return "", errors.New("image path is a directory")
	case info.Size() > maxImageBytes:
		return "", fmt.Errorf("image must be %d MB or smaller", maxImageBytes>>20)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return "", fmt.Errorf("image must be %d MB or smaller", maxImageBytes>>20)
	}
	mime, _, _ := strings.Cut(http.DetectContentType(data), ";")
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("file is not an image (%s)", mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// describeImage renders an image reference for display. Data URIs are
// summarised instead of printed.
func describeImage(ref string) string {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return ref
	}
	mime, payload, _ := strings.Cut(rest, ";base64,")
	size := base64.StdEncoding.DecodedLen(len(payload))
	return fmt.Sprintf("uploaded %s, %d KB", mime, (size+1023)/1024)
}
