// Package botchallenge statically deobfuscates a rotated-string-array bot
// challenge script and symbolically evaluates the one arithmetic
// sub-expression that yields its numeric answer, without running the
// untrusted script through a JS VM on the primary path.
package botchallenge

import (
	"errors"

	"github.com/famomatic/ytv1/internal/botchallenge/passes"
)

// Sentinel errors for the taxonomy this package reports. Pass-level
// sentinels (producer/indexer/checksum/rotation/answer) are defined in
// passes/errors.go and surfaced here unwrapped via errors.Is.
var (
	// ErrDecode indicates the base64 or JSON envelope was malformed.
	ErrDecode = errors.New("botchallenge: malformed envelope")
	// ErrParse indicates the challenge script failed to parse.
	ErrParse = errors.New("botchallenge: script parse failed")
	// ErrTransform indicates the parser/simplifier diagnostic sink
	// recorded at least one error during a pass run.
	ErrTransform = errors.New("botchallenge: transform diagnostic")
)

// Re-exported pass-level sentinels, so callers can errors.Is against this
// package alone without importing internal/botchallenge/passes directly.
var (
	ErrMissingProducer     = passes.ErrMissingProducer
	ErrMissingIndexer      = passes.ErrMissingIndexer
	ErrMissingChecksum     = passes.ErrMissingChecksum
	ErrRotationExhausted   = passes.ErrRotationExhausted
	ErrAnswerNotComputable = passes.ErrAnswerNotComputable
)

// DecodeError preserves ErrDecode while exposing the underlying codec
// failure, matching client.InvalidInputDetailError's shape.
type DecodeError struct {
	Stage string // "base64" or "json"
	Err   error
}

func (e *DecodeError) Error() string {
	return "botchallenge: " + e.Stage + " decode failed: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ParseError preserves ErrParse while exposing the parser's own message.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "botchallenge: parse failed: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// TransformDiagnostic preserves ErrTransform while exposing which pass
// produced which diagnostics, mirroring spec.md §5's "diagnostic sink
// drained after all passes" lifecycle.
type TransformDiagnostic struct {
	Pass string
	Errs []error
}

func (e *TransformDiagnostic) Error() string {
	if len(e.Errs) == 0 {
		return "botchallenge: transform diagnostic in pass " + e.Pass
	}
	return "botchallenge: transform diagnostic in pass " + e.Pass + ": " + e.Errs[0].Error()
}

func (e *TransformDiagnostic) Is(target error) bool { return target == ErrTransform }
