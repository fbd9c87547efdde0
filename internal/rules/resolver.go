package rules

import (
	"github.com/packshift/packshift/internal/version"
)

// Plan is the ordered sequence of configs to apply for one conversion.
// Steps are monotonic in version key in the direction source → target.
// A Plan is immutable once built.
type Plan struct {
	Steps []*Config

	// Truncated is set when resolution stopped before reaching the target
	// because no registered version could advance the walk. The partial
	// plan is still applied; callers decide whether to warn or abort.
	Truncated bool

	// Reached is the last version the walk arrived at. Equal to the target
	// unless Truncated.
	Reached version.Key
}

// Resolve computes the plan for converting from source to target. Starting
// at source, it repeatedly moves to the registered version nearest to the
// current one on the target's side (strictly past current, at or before
// target), collecting each visited config, until it reaches the target or
// runs out of candidates. Resolve(v, v) is an empty plan.
func (r *Registry) Resolve(source, target version.Key) Plan {
	plan := Plan{Reached: source}

	current := source
	for !current.Equal(target) {
		var next *Config
		for _, cfg := range r.configs {
			if !cfg.Key.Between(current, target) {
				continue
			}
			if next == nil || nearer(cfg.Key, next.Key, current) {
				next = cfg
			}
		}
		if next == nil {
			plan.Truncated = true
			break
		}
		plan.Steps = append(plan.Steps, next)
		current = next.Key
		plan.Reached = current
	}

	if plan.Truncated {
		r.logger.Warn("no complete conversion path",
			"source", source, "target", target, "reached", plan.Reached,
			"steps", len(plan.Steps))
	}
	return plan
}

// nearer reports whether a is closer to current than b, given that both lie
// on the same side of current.
func nearer(a, b, current version.Key) bool {
	if current.Less(a) {
		return a.Less(b)
	}
	return b.Less(a)
}
