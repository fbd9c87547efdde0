// Package pack reads resource pack metadata and contents: the pack.mcmeta
// descriptor, texture listings by asset category, and zip extraction with
// basic validity checking.
package pack

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// MetaFileName is the metadata descriptor every valid pack carries at its
// root.
const MetaFileName = "pack.mcmeta"

// ErrMissingMetadata is returned when a directory or archive does not
// contain a pack.mcmeta at its root.
var ErrMissingMetadata = errors.New("pack.mcmeta not found")

// Meta is the parsed pack.mcmeta descriptor. Only the fields the converter
// reads are modeled; rewriting preserves everything else (see archive).
type Meta struct {
	Pack struct {
		PackFormat  int    `json:"pack_format"`
		Description string `json:"description"`
	} `json:"pack"`
}

// StripBOM removes a leading UTF-8 byte order mark. Packs produced by
// Windows editors frequently carry one, and encoding/json rejects it.
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}

// ReadMeta parses the pack.mcmeta inside dir.
func ReadMeta(dir string) (*Meta, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetaFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w in %s", ErrMissingMetadata, dir)
		}
		return nil, err
	}

	var m Meta
	if err := json.Unmarshal(StripBOM(data), &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", MetaFileName, err)
	}
	return &m, nil
}

// formatVersions maps pack_format codes to the version line they identify.
var formatVersions = map[int]string{
	6:  "1.16.5",
	7:  "1.17.1",
	8:  "1.18.2",
	9:  "1.19.2",
	12: "1.19.3",
	13: "1.19.4",
	15: "1.20.1",
	18: "1.20.2",
	26: "1.20.4",
	30: "1.21",
}

// VersionForFormat returns the version string a pack_format code denotes,
// or "" when the code is unknown.
func VersionForFormat(code int) string {
	return formatVersions[code]
}
