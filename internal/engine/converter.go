package engine

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/packshift/packshift/internal/archive"
	"github.com/packshift/packshift/internal/pack"
	"github.com/packshift/packshift/internal/rules"
	"github.com/packshift/packshift/internal/version"
)

// Request describes one conversion. The engine holds no state of its own
// between runs; everything it needs arrives here.
type Request struct {
	// PackDir is the extracted source pack. It is read, never written.
	PackDir string
	// Source and Target are version strings such as "1.19.4".
	Source, Target string
	// OutPath is where the finished archive is written.
	OutPath string
}

// Result is a completed conversion: the archive plus everything that was
// skipped or degraded along the way.
type Result struct {
	ArchivePath string
	Diagnostics []Diagnostic
}

// Converter runs conversions against a loaded rules registry.
type Converter struct {
	registry *rules.Registry
	logger   *log.Logger
}

// NewConverter returns a Converter using the given registry.
func NewConverter(reg *rules.Registry, logger *log.Logger) *Converter {
	if logger == nil {
		logger = log.Default()
	}
	return &Converter{registry: reg, logger: logger.With("component", "convert")}
}

// Convert runs the full pipeline: resolve a plan from source to target,
// apply it to a disposable copy of the pack, and assemble the archive. The
// working tree is removed on every exit path. Concurrent conversions of
// different packs are independent; converting the same pack concurrently
// is the caller's responsibility to serialize.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	src, err := version.Parse(req.Source)
	if err != nil {
		return nil, fmt.Errorf("source version: %w", err)
	}
	tgt, err := version.Parse(req.Target)
	if err != nil {
		return nil, fmt.Errorf("target version: %w", err)
	}

	// The one validation the engine performs on third-party packs.
	if _, err := pack.ReadMeta(req.PackDir); err != nil {
		return nil, err
	}

	tree, err := NewWorkingTree(req.PackDir)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	plan := c.registry.Resolve(src, tgt)
	c.logger.Info("conversion plan resolved",
		"source", req.Source, "target", req.Target, "steps", len(plan.Steps))

	var diags []Diagnostic
	if plan.Truncated {
		diags = append(diags, Diagnostic{
			Op: OpResolve,
			Reason: fmt.Sprintf("no registered path past %s toward %s; applying partial plan (%d steps)",
				plan.Reached, req.Target, len(plan.Steps)),
		})
	}

	excluded, applyDiags, err := NewTransformer(c.logger).Apply(ctx, plan, tree)
	diags = append(diags, applyDiags...)
	if err != nil {
		return nil, err
	}

	out, err := archive.Assemble(tree.Root(), excluded.Contains, req.Target, req.OutPath)
	if err != nil {
		return nil, err
	}

	c.logger.Info("pack converted", "archive", out, "diagnostics", len(diags))
	return &Result{ArchivePath: out, Diagnostics: diags}, nil
}
