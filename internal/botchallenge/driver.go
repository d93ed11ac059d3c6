package botchallenge

import (
	"fmt"
	"math"

	"github.com/famomatic/ytv1/internal/botchallenge/jsast"
	"github.com/famomatic/ytv1/internal/botchallenge/passes"
)

// Diagnostics is the per-generation replacement for the source's
// process-wide parser/simplifier diagnostic sink (spec.md §5, §9 Design
// Notes "Global diagnostic sink"): a fresh instance is constructed for
// every Solve call, threaded explicitly through the pipeline, and never
// shared across goroutines.
type Diagnostics struct {
	errs []error
}

func (d *Diagnostics) record(pass string, err error) {
	if err != nil {
		d.errs = append(d.errs, fmt.Errorf("%s: %w", pass, err))
	}
}

// Err returns nil if no pass recorded a diagnostic, the single recorded
// error if exactly one pass failed (preserving errors.Is against the
// underlying pass sentinel through the %w chain), or a TransformDiagnostic
// aggregate if more than one pass failed.
func (d *Diagnostics) Err() error {
	switch len(d.errs) {
	case 0:
		return nil
	case 1:
		return d.errs[0]
	default:
		return &TransformDiagnostic{Pass: "pipeline", Errs: d.errs}
	}
}

// Solve runs the full D,E,F,D,G pipeline (spec.md §5 ordering) over a
// parsed challenge and returns the folded numeric answer. It never
// executes the script; SolveWithRuntime is the separate,
// goja-backed fallback for inputs the static passes can't crack.
func Solve(c Challenge) (float64, error) {
	prog, err := parseChallenge(c)
	if err != nil {
		return 0, err
	}

	diags := &Diagnostics{}
	runStaticPasses(prog, diags)
	if err := diags.Err(); err != nil {
		return 0, err
	}

	return answerFromProgram(prog, c.Input)
}

// parseChallenge parses `(code)` — wrapped in parentheses so the
// top-level function expression parses as an expression statement,
// matching spec.md §2's data-flow note — and resolves binding identity.
func parseChallenge(c Challenge) (*jsast.Program, error) {
	prog, err := jsast.Parse("(" + c.Code + ")")
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	jsast.SimplifyProgram(prog)
	jsast.Resolve(prog)
	return prog, nil
}

// runStaticPasses applies D, E, F, D in order. F's error, if any, is
// recorded into diags rather than aborting the sequence immediately —
// the second D still runs (it's idempotent and harmless either way) and
// the sink is drained once the whole sequence has completed, matching
// spec.md §5's "construct a fresh diagnostic sink... after all passes,
// drain it" lifecycle. G is deliberately excluded here (callers that only
// want the deobfuscated script, e.g. the CLI's `deobfuscator` subcommand,
// stop right after the second D).
func runStaticPasses(prog *jsast.Program, diags *Diagnostics) {
	passes.ComputedMemberToStatic(prog)
	passes.EliminateProxyVariables(prog)
	diags.record("F", passes.DeobfuscateStrings(prog))
	passes.ComputedMemberToStatic(prog)
}

// answerFromProgram runs G alone and translates ErrAnswerNotComputable
// into JavaScript's own "not a number" outcome (NaN), matching spec.md
// §7's "AnswerNotComputable is not a hard error" policy.
func answerFromProgram(prog *jsast.Program, input float64) (float64, error) {
	answer, err := passes.EvaluateMathExpressions(prog, input)
	if err != nil {
		return math.NaN(), nil
	}
	return answer, nil
}

// Deobfuscate runs D,E,F,D only (no G) and returns the resulting script's
// AST, for tooling that wants to inspect the deobfuscated form before
// symbolic evaluation folds the answer array (cmd/botchallenge's
// `deobfuscator` subcommand).
func Deobfuscate(c Challenge) (*jsast.Program, error) {
	prog, err := parseChallenge(c)
	if err != nil {
		return nil, err
	}
	diags := &Diagnostics{}
	runStaticPasses(prog, diags)
	if err := diags.Err(); err != nil {
		return nil, err
	}
	return prog, nil
}
