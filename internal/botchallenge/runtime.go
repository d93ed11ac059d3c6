package botchallenge

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// SolveWithRuntime is the last-resort fallback solver: it runs the
// challenge script through a goja VM instead of symbolically evaluating
// it, mirroring playerjs.Decipherer's decipherSignatureWithRuntime /
// decipherNWithRuntime fallback shape. Solve (the static pipeline) is
// always tried first; this is engaged only when a static pass fails to
// produce an answer, matching spec.md §1's Non-goal against relying on
// script execution as the primary mechanism.
func SolveWithRuntime(c Challenge) (float64, error) {
	vm := goja.New()
	if _, err := vm.RunString(runtimePreludeJS); err != nil {
		return 0, fmt.Errorf("botchallenge: runtime prelude failed: %w", err)
	}

	fnVal, err := vm.RunString("(" + c.Code + ")")
	if err != nil {
		return 0, fmt.Errorf("botchallenge: runtime compile failed: %w", err)
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return 0, errors.New("botchallenge: runtime challenge code is not callable")
	}

	out, err := fn(goja.Undefined(), vm.ToValue(c.Input))
	if err != nil {
		return 0, fmt.Errorf("botchallenge: runtime evaluation failed: %w", err)
	}

	arr, ok := out.Export().([]any)
	if !ok || len(arr) == 0 {
		return 0, errors.New("botchallenge: runtime answer is not an array")
	}
	// goja exports integral numbers as int64 and the rest as float64.
	switch n := arr[0].(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	}
	return 0, errors.New("botchallenge: runtime answer's first element is not numeric")
}

// runtimePreludeJS stubs the handful of browser globals a bot-challenge
// script probes before computing its answer (globalThis.process,
// globalThis.marker and friends), the same minimal-shim approach
// playerjs.runtimePreludeJS takes for player.js globals.
const runtimePreludeJS = `
var globalThis = this;
if (typeof window === 'undefined') { var window = this; }
if (!globalThis.process) { globalThis.process = undefined; }
if (!globalThis.marker) { globalThis.marker = "mark"; }
`
