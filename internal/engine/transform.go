package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/packshift/packshift/internal/imageops"
	"github.com/packshift/packshift/internal/rules"
)

// sidecarExt is the extension of metadata sidecar files; a sidecar named
// "fire.png.mcmeta" belongs to the image "fire.png" in the same directory.
const sidecarExt = ".mcmeta"

// Transformer applies conversion plans to working trees.
type Transformer struct {
	logger *log.Logger
}

// NewTransformer returns a Transformer logging through logger.
func NewTransformer(logger *log.Logger) *Transformer {
	if logger == nil {
		logger = log.Default()
	}
	return &Transformer{logger: logger.With("component", "transform")}
}

// Apply runs every step of the plan against the tree in order and returns
// the accumulated exclusion set plus the diagnostics for all skipped or
// failed per-asset operations. Within a step the order is: removals,
// splits, merges, transparency masks, sidecar propagation.
//
// The only error Apply returns is context cancellation, checked between
// plan steps; everything per-asset is diagnosed and skipped.
func (t *Transformer) Apply(ctx context.Context, plan rules.Plan, tree *WorkingTree) (ExclusionSet, []Diagnostic, error) {
	excluded := make(ExclusionSet)
	var diags []Diagnostic

	for _, cfg := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return excluded, diags, fmt.Errorf("conversion canceled at step %s: %w", cfg.Version, err)
		}

		step := &stepRun{t: t, cfg: cfg, tree: tree, excluded: excluded}
		step.removals()
		step.splits()
		step.merges()
		step.transparency()
		step.sidecars()
		diags = append(diags, step.diags...)

		t.logger.Debug("plan step applied", "version", cfg.Version, "diagnostics", len(step.diags))
	}
	return excluded, diags, nil
}

// stepRun holds the state of one plan step's application.
type stepRun struct {
	t        *Transformer
	cfg      *rules.Config
	tree     *WorkingTree
	excluded ExclusionSet

	// splitTargets lets sidecar propagation treat files this step created
	// by splitting as present even before checking the tree.
	splitTargets map[string]bool
	diags        []Diagnostic
}

func (s *stepRun) diag(op Op, rel, format string, args ...any) {
	d := Diagnostic{Op: op, Version: s.cfg.Version, Path: rel, Reason: fmt.Sprintf(format, args...)}
	s.t.logger.Warn(d.Reason, "op", op, "path", rel, "step", s.cfg.Version)
	s.diags = append(s.diags, d)
}

func (s *stepRun) removals() {
	for _, rel := range s.cfg.RemovedFiles {
		s.excluded.Add(rel)
	}
}

// sortedKeys keeps map-driven steps deterministic run to run.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *stepRun) splits() {
	s.splitTargets = make(map[string]bool)
	for _, src := range sortedKeys(s.cfg.SplitOps) {
		ops := s.cfg.SplitOps[src]
		for _, op := range ops {
			s.splitTargets[path.Clean(filepath.ToSlash(op.Target))] = true
		}

		if !s.tree.Exists(src) {
			s.diag(OpSplit, src, "split source missing, entry skipped")
			continue
		}
		img, err := imageops.Load(s.tree.Path(src))
		if err != nil {
			s.diag(OpSplit, src, "split source unreadable: %v", err)
			continue
		}

		for _, op := range ops {
			r := op.Source
			cropped, err := imageops.Crop(img, r.Left, r.Top, r.Right, r.Bottom)
			if err != nil {
				s.diag(OpSplit, src, "crop to %s failed: %v", op.Target, err)
				continue
			}
			if err := imageops.SavePNG(s.tree.Path(op.Target), cropped); err != nil {
				s.diag(OpSplit, op.Target, "write split target failed: %v", err)
			}
		}
	}
}

func (s *stepRun) merges() {
	for _, target := range sortedKeys(s.cfg.MergeOps) {
		for _, op := range s.cfg.MergeOps[target] {
			if !s.tree.Exists(op.Source) {
				s.diag(OpMerge, op.Source, "merge source missing, entry skipped")
				continue
			}

			base, err := imageops.Load(s.tree.Path(target))
			if err != nil {
				s.diag(OpMerge, target, "merge target unreadable: %v", err)
				continue
			}
			overlay, err := imageops.Load(s.tree.Path(op.Source))
			if err != nil {
				s.diag(OpMerge, op.Source, "merge source unreadable: %v", err)
				continue
			}

			merged := imageops.Composite(base, overlay, op.Position.X, op.Position.Y)
			if err := imageops.SavePNG(s.tree.Path(target), merged); err != nil {
				s.diag(OpMerge, target, "write merged image failed: %v", err)
			}
		}
	}
}

func (s *stepRun) transparency() {
	for _, src := range sortedKeys(s.cfg.TransparencyOps) {
		op := s.cfg.TransparencyOps[src]
		if !s.tree.Exists(src) {
			s.diag(OpTransparency, src, "transparency source missing, entry skipped")
			continue
		}

		img, err := imageops.Load(s.tree.Path(src))
		if err != nil {
			s.diag(OpTransparency, src, "transparency source unreadable: %v", err)
			continue
		}
		r := op.KeepArea
		masked := imageops.MaskOutside(img, r.Left, r.Top, r.Right, r.Bottom)
		if err := imageops.SavePNG(s.tree.Path(op.Target), masked); err != nil {
			s.diag(OpTransparency, op.Target, "write masked image failed: %v", err)
		}
	}
}

// sidecars copies this version's .mcmeta files next to their images in the
// tree. A sidecar travels if its image exists after the earlier steps, or
// if the image is one of this step's split targets.
func (s *stepRun) sidecars() {
	root := s.cfg.SidecarDir
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), sidecarExt) {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		imgRel := strings.TrimSuffix(rel, sidecarExt)

		if !s.tree.Exists(imgRel) && !s.splitTargets[path.Clean(imgRel)] {
			return nil
		}
		if err := copyFile(p, s.tree.Path(rel)); err != nil {
			s.diag(OpSidecar, rel, "copy sidecar failed: %v", err)
		}
		return nil
	})
	if err != nil {
		s.diag(OpSidecar, "", "sidecar scan failed: %v", err)
	}
}
