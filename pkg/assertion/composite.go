package assertion

import "fmt"

// AllPass evaluates every definition against the named targets
// and requires all of them to pass. The result message names the
// first failure.
func AllPass(
	engine Engine,
	defs []Definition,
	targets map[string]any,
) Result {
	results := engine.EvaluateAll(defs, targets)

	for _, r := range results {
		if !r.Passed {
			return Result{
				Type:   "allPass",
				Passed: false,
				Message: fmt.Sprintf(
					"assertion '%s' on target '%s' failed: %s",
					r.Type, r.Target, r.Message,
				),
			}
		}
	}

	return Result{
		Type:   "allPass",
		Passed: true,
		Message: fmt.Sprintf(
			"all %d assertions passed", len(results),
		),
	}
}

// AnyPass evaluates the definitions against the named targets
// and requires at least one to pass.
func AnyPass(
	engine Engine,
	defs []Definition,
	targets map[string]any,
) Result {
	results := engine.EvaluateAll(defs, targets)

	for _, r := range results {
		if r.Passed {
			return Result{
				Type:   "anyPass",
				Passed: true,
				Message: fmt.Sprintf(
					"assertion '%s' on target '%s' passed",
					r.Type, r.Target,
				),
			}
		}
	}

	return Result{
		Type:   "anyPass",
		Passed: false,
		Message: fmt.Sprintf(
			"none of %d assertions passed",
			len(results),
		),
	}
}

// CompositeAllPass returns an Evaluator that runs a fixed set
// of sub-assertions on its target and requires all to pass.
// Each sub-definition's Target is ignored.
func CompositeAllPass(engine Engine, subs []Definition) Evaluator {
	return func(target any, _ []any) (bool, string) {
		r := AllPass(engine, bindTarget(subs), map[string]any{"": target})
		if r.Passed {
			return true, ""
		}
		return false, r.Message
	}
}

// CompositeAnyPass returns an Evaluator that runs a fixed set
// of sub-assertions on its target and requires at least one to
// pass.
func CompositeAnyPass(engine Engine, subs []Definition) Evaluator {
	return func(target any, _ []any) (bool, string) {
		r := AnyPass(engine, bindTarget(subs), map[string]any{"": target})
		if r.Passed {
			return true, ""
		}
		return false, r.Message
	}
}

func bindTarget(subs []Definition) []Definition {
	out := make([]Definition, len(subs))
	for i, d := range subs {
		d.Target = ""
		out[i] = d
	}
	return out
}
