// Package rules loads the per-version transformation records that drive a
// pack conversion and resolves which of them apply between two versions.
//
// Each record is one JSON file in the rules directory, named
// <version>.json. A record declares structural changes needed when a
// conversion crosses that version boundary: files to drop, images to split
// apart or composite together, regions to mask transparent, and animation
// sidecar files to carry along. Records are immutable once loaded.
package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/packshift/packshift/internal/version"
)

// SidecarDirName is the subdirectory of the rules directory that holds
// per-version .mcmeta sidecar trees.
const SidecarDirName = "mcmeta"

// Rect is a pixel rectangle encoded on disk as [left, top, right, bottom].
type Rect struct {
	Left, Top, Right, Bottom int
}

// UnmarshalJSON decodes the 4-element array form.
func (r *Rect) UnmarshalJSON(data []byte) error {
	var a [4]int
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("rectangle must be [left, top, right, bottom]: %w", err)
	}
	r.Left, r.Top, r.Right, r.Bottom = a[0], a[1], a[2], a[3]
	return nil
}

// MarshalJSON encodes back to the array form.
func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{r.Left, r.Top, r.Right, r.Bottom})
}

// Point is a pixel offset encoded on disk as [x, y].
type Point struct {
	X, Y int
}

// UnmarshalJSON decodes the 2-element array form.
func (p *Point) UnmarshalJSON(data []byte) error {
	var a [2]int
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("position must be [x, y]: %w", err)
	}
	p.X, p.Y = a[0], a[1]
	return nil
}

// MarshalJSON encodes back to the array form.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// SplitOp crops Source out of its subject image and writes it to Target.
type SplitOp struct {
	Source Rect   `json:"source"`
	Target string `json:"target"`
}

// MergeOp composites Source onto its subject image at Position.
type MergeOp struct {
	Source   string `json:"source"`
	Position Point  `json:"position"`
}

// TransparencyOp copies its subject image to Target and zeroes the alpha of
// every pixel outside KeepArea (inclusive bounds).
type TransparencyOp struct {
	Target   string `json:"target"`
	KeepArea Rect   `json:"keep_area"`
}

// Config is one version's declared transformation. All asset paths are
// pack-relative with forward slashes.
type Config struct {
	// Version is the record's own version string (the filename stem) and
	// Key its parsed form; registry keys are unique per version string.
	Version string
	Key     version.Key

	// DeclaredVersions populates the selectable version list only; it does
	// not create graph edges.
	DeclaredVersions []string

	RemovedFiles    []string
	SplitOps        map[string][]SplitOp
	MergeOps        map[string][]MergeOp
	TransparencyOps map[string]TransparencyOp

	// SidecarDir is the absolute path of this version's sidecar tree. It
	// may not exist; that simply means no sidecars to propagate.
	SidecarDir string
}

type configRecord struct {
	Versions               []string                  `json:"versions"`
	RemovedFiles           []string                  `json:"removed_files"`
	SplitOperations        map[string][]SplitOp      `json:"split_operations"`
	MergeOperations        map[string][]MergeOp      `json:"merge_operations"`
	TransparencyOperations map[string]TransparencyOp `json:"transparency_operations"`
}

// Registry indexes every loaded Config by version string.
type Registry struct {
	dir     string
	configs map[string]*Config
	logger  *log.Logger
}

// Load reads every *.json record under dir. A record that cannot be read,
// parsed, or whose filename is not a version string is skipped and counted,
// not fatal; the returned count tells the caller how many were dropped.
func Load(dir string, logger *log.Logger) (*Registry, int, error) {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("component", "rules")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("read rules directory: %w", err)
	}

	reg := &Registry{
		dir:     dir,
		configs: make(map[string]*Config),
		logger:  logger,
	}

	skipped := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		ver := strings.TrimSuffix(name, ".json")
		cfg, err := loadRecord(dir, ver)
		if err != nil {
			logger.Warn("skipping malformed rules record", "file", name, "err", err)
			skipped++
			continue
		}
		reg.configs[ver] = cfg
	}

	logger.Debug("rules loaded", "dir", dir, "records", len(reg.configs), "skipped", skipped)
	return reg, skipped, nil
}

func loadRecord(dir, ver string) (*Config, error) {
	key, err := version.Parse(ver)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, ver+".json"))
	if err != nil {
		return nil, err
	}

	var rec configRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}

	return &Config{
		Version:          ver,
		Key:              key,
		DeclaredVersions: rec.Versions,
		RemovedFiles:     rec.RemovedFiles,
		SplitOps:         rec.SplitOperations,
		MergeOps:         rec.MergeOperations,
		TransparencyOps:  rec.TransparencyOperations,
		SidecarDir:       filepath.Join(dir, SidecarDirName, ver),
	}, nil
}

// Get returns the config registered for the exact version string.
func (r *Registry) Get(ver string) (*Config, bool) {
	cfg, ok := r.configs[ver]
	return cfg, ok
}

// Len returns the number of loaded records.
func (r *Registry) Len() int { return len(r.configs) }

// AvailableVersions returns the deduplicated union of every record's
// declared version list, sorted descending by version key. This is the
// externally exposed list of convertible versions.
func (r *Registry) AvailableVersions() []string {
	seen := make(map[string]version.Key)
	for _, cfg := range r.configs {
		for _, v := range cfg.DeclaredVersions {
			if _, ok := seen[v]; ok {
				continue
			}
			key, err := version.Parse(v)
			if err != nil {
				r.logger.Warn("ignoring undeclared version string", "version", v, "record", cfg.Version)
				continue
			}
			seen[v] = key
		}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return seen[out[j]].Less(seen[out[i]]) })
	return out
}
