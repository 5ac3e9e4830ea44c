// Package qr renders the printable QR posters that become the physical
// tags of the hunt. Each poster encodes the scan URL for one tag.
package qr

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/mboer/treasurehunt/internal/clues"
)

// DefaultSize is a print- and mobile-friendly PNG size in pixels
const DefaultSize = 320

// TagURL builds the scan URL for a tag
func TagURL(baseURL, tag string) string {
	return strings.TrimSuffix(baseURL, "/") + "/hunt/clue/" + tag
}

// PNG encodes the scan URL for one tag as a PNG QR code
func PNG(baseURL, tag string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(TagURL(baseURL, tag), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr for tag %s: %w", tag, err)
	}
	return png, nil
}

// WriteAll writes one PNG per chain tag into dir, named after the tag
func WriteAll(chain *clues.Chain, baseURL, dir string, size int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, tag := range chain.Tags() {
		png, err := PNG(baseURL, tag, size)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, tag+".png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
