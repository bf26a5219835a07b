// Package export bundles captured items into a portable zip archive.
package export

import (
	"archive/zip"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pickquote/pickquote/internal/storage"
)

// ManifestName is the markdown file listing every exported item.
const ManifestName = "export.md"

// WriteZip serializes items into a zip bundle written to w. Each item
// becomes one markdown line in export.md. Image and snapshot items whose
// content is an inline data:image URL have their binary payload extracted
// to images/<hash>.png and the line references that asset instead; items
// without a hash get a generated filename.
func WriteZip(items []storage.Item, w io.Writer) error {
	zw := zip.NewWriter(w)

	var lines []string
	for _, it := range items {
		assetPath := ""
		if isInlineImage(it) {
			payload, err := decodeDataURL(it.Content)
			if err != nil {
				return fmt.Errorf("decode image for item %s: %w", it.ID, err)
			}
			assetPath = "images/" + assetName(it) + ".png"
			f, err := zw.Create(assetPath)
			if err != nil {
				return fmt.Errorf("create asset %s: %w", assetPath, err)
			}
			if _, err := f.Write(payload); err != nil {
				return fmt.Errorf("write asset %s: %w", assetPath, err)
			}
		}

		lines = append(lines, manifestLine(it, assetPath))
	}

	f, err := zw.Create(ManifestName)
	if err != nil {
		return fmt.Errorf("create %s: %w", ManifestName, err)
	}
	if _, err := f.Write([]byte(strings.Join(lines, "\n"))); err != nil {
		return fmt.Errorf("write %s: %w", ManifestName, err)
	}

	return zw.Close()
}

// isInlineImage reports whether the item carries a self-describing inline
// image payload.
func isInlineImage(it storage.Item) bool {
	if it.Type != storage.TypeImage && it.Type != storage.TypeSnapshot {
		return false
	}
	return strings.HasPrefix(it.Content, "data:image")
}

// decodeDataURL extracts the binary payload of a base64 data URL.
func decodeDataURL(dataURL string) ([]byte, error) {
	_, encoded, found := strings.Cut(dataURL, ",")
	if !found {
		return nil, fmt.Errorf("malformed data URL")
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// assetName picks the filename for an extracted image: the item's hash
// when present (stable and filename-safe by contract), otherwise a
// timestamp plus random suffix.
func assetName(it storage.Item) string {
	if it.Hash != "" {
		return it.Hash
	}
	b := make([]byte, 4)
	rand.Read(b) //nolint:errcheck
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}

// manifestLine renders one item as a markdown bullet. Newlines collapse to
// spaces so every item stays on a single line.
func manifestLine(it storage.Item, assetPath string) string {
	content := strings.ReplaceAll(it.Content, "\n", " ")
	if assetPath != "" {
		content = fmt.Sprintf("![snapshot](%s)", assetPath)
	}

	source := it.Source.Title
	if source == "" {
		source = it.Source.URL
	}

	return fmt.Sprintf("- %s (%s)", content, source)
}
