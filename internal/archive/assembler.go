// Package archive turns a converted working tree into the final pack zip.
// It rewrites the metadata format code for the target version, then walks
// the tree and writes every non-excluded file as a deflate-compressed entry
// with forward-slash paths.
package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/packshift/packshift/internal/pack"
)

// DefaultFormatCode is written when the target version has no table entry.
const DefaultFormatCode = 15

// formatCodes is the version → pack_format table for the supported line.
var formatCodes = map[string]int{
	"1.16.5": 6,
	"1.17.1": 7,
	"1.18.2": 8,
	"1.19.2": 9,
	"1.19.3": 12,
	"1.19.4": 13,
	"1.20.1": 15,
	"1.20.2": 18,
	"1.20.4": 26,
	"1.21":   30,
}

// FormatCode returns the pack_format code for a target version string,
// falling back to DefaultFormatCode for unmapped versions.
func FormatCode(targetVersion string) int {
	if code, ok := formatCodes[targetVersion]; ok {
		return code
	}
	return DefaultFormatCode
}

// RewriteMeta sets pack.pack_format in the tree's pack.mcmeta to the code
// for targetVersion, preserving every other field. A tree without the
// metadata file is left alone; exclusions and odd packs are handled at
// higher layers.
func RewriteMeta(treeRoot, targetVersion string) error {
	metaPath := filepath.Join(treeRoot, pack.MetaFileName)
	data, err := os.ReadFile(metaPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", pack.MetaFileName, err)
	}

	// Decode into a generic map so unknown fields survive the round trip.
	var doc map[string]any
	if err := json.Unmarshal(pack.StripBOM(data), &doc); err != nil {
		return fmt.Errorf("parse %s: %w", pack.MetaFileName, err)
	}

	section, ok := doc["pack"].(map[string]any)
	if !ok {
		section = make(map[string]any)
		doc["pack"] = section
	}
	section["pack_format"] = FormatCode(targetVersion)

	out, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", pack.MetaFileName, err)
	}
	return os.WriteFile(metaPath, out, 0o644)
}

// Assemble rewrites the tree's metadata for targetVersion and zips the tree
// into outPath. excluded receives each file's tree-relative slash path and
// reports whether to omit it. Returns the archive path.
func Assemble(treeRoot string, excluded func(string) bool, targetVersion, outPath string) (string, error) {
	if err := RewriteMeta(treeRoot, targetVersion); err != nil {
		return "", err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}

	zw := zip.NewWriter(f)
	walkErr := filepath.WalkDir(treeRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(treeRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if excluded != nil && excluded(rel) {
			return nil
		}

		w, err := zw.CreateHeader(&zip.FileHeader{Name: rel, Method: zip.Deflate})
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, src)
		src.Close()
		return err
	})

	if walkErr != nil {
		zw.Close()
		f.Close()
		os.Remove(outPath)
		return "", fmt.Errorf("assemble archive: %w", walkErr)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("finalize archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return outPath, nil
}
