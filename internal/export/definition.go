package export

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
)

// Part is one file of an exported item definition. Payload is base64 when
// PayloadType is "InlineBase64" (the only payload type the export API
// currently emits).
type Part struct {
	Path        string `json:"path"`
	Payload     string `json:"payload"`
	PayloadType string `json:"payloadType"`
}

// Definition is the full multi-part definition of one item.
type Definition struct {
	Parts []Part `json:"parts"`
}

// WriteDefinition materializes a definition under dir, one file per part.
// Part paths are relative and may contain subfolders; anything escaping dir
// is rejected. With compress=true each payload is written brotli-compressed
// with a ".br" suffix instead of raw.
func WriteDefinition(dir string, def Definition, compress bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: create item folder %s: %w", dir, err)
	}

	for _, part := range def.Parts {
		rel, err := safeRelPath(part.Path)
		if err != nil {
			return err
		}

		payload, err := decodePayload(part)
		if err != nil {
			return err
		}

		dest := filepath.Join(dir, rel)
		if sub := filepath.Dir(dest); sub != dir {
			if err := os.MkdirAll(sub, 0o755); err != nil {
				return fmt.Errorf("export: create part folder %s: %w", sub, err)
			}
		}

		if compress {
			err = writeCompressed(dest+".br", payload)
		} else {
			err = os.WriteFile(dest, payload, 0o644)
		}
		if err != nil {
			return fmt.Errorf("export: write part %s: %w", part.Path, err)
		}
	}

	return nil
}

func decodePayload(part Part) ([]byte, error) {
	switch part.PayloadType {
	case "", "InlineBase64":
		b, err := base64.StdEncoding.DecodeString(part.Payload)
		if err != nil {
			return nil, fmt.Errorf("export: decode payload of %s: %w", part.Path, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("export: unsupported payload type %q for %s", part.PayloadType, part.Path)
	}
}

func safeRelPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", fmt.Errorf("export: definition part with empty path")
	}
	clean := filepath.Clean(filepath.FromSlash(p))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("export: definition part path %q escapes the item folder", p)
	}
	return clean, nil
}

func writeCompressed(dest string, payload []byte) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}

	bw := brotli.NewWriter(f)
	if _, err := bw.Write(payload); err != nil {
		bw.Close()
		f.Close()
		return err
	}
	if err := bw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
