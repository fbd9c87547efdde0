package engine

import (
	"fmt"
	"path/filepath"
)

// Op labels the kind of operation a diagnostic refers to.
type Op string

const (
	OpResolve      Op = "resolve"
	OpSplit        Op = "split"
	OpMerge        Op = "merge"
	OpTransparency Op = "transparency"
	OpSidecar      Op = "sidecar"
)

// Diagnostic records one skipped or failed operation. The pipeline is
// best-effort per asset: a bad image never aborts the run, but neither is
// it silently dropped — every no-op ends up here for the caller to show.
type Diagnostic struct {
	Op      Op
	Version string // plan step the operation belongs to, "" for resolution
	Path    string // pack-relative path of the affected asset
	Reason  string
}

func (d Diagnostic) String() string {
	if d.Version == "" {
		return fmt.Sprintf("%s: %s", d.Op, d.Reason)
	}
	return fmt.Sprintf("%s %s (step %s): %s", d.Op, d.Path, d.Version, d.Reason)
}

// ExclusionSet collects pack-relative paths to omit from the final archive.
// Paths are normalized to forward slashes. The set only ever grows; files
// are never deleted from the working tree mid-pipeline.
type ExclusionSet map[string]struct{}

// Add marks a path for omission.
func (s ExclusionSet) Add(rel string) {
	s[filepath.ToSlash(rel)] = struct{}{}
}

// Contains reports whether the normalized path is excluded.
func (s ExclusionSet) Contains(rel string) bool {
	_, ok := s[filepath.ToSlash(rel)]
	return ok
}
