// Package passes implements the four AST-rewriting passes (D, E, F, G) that
// turn a parsed, simplified bot-challenge script into one with a single
// resolved numeric answer. Each file here corresponds 1:1 to one pass in
// the original Rust source (original_source/src/deobfuscate/*.rs), kept in
// the same shape: plain functions over *jsast.Program rather than a
// visitor-inheritance hierarchy, per spec.md's Design Notes.
package passes

import "github.com/famomatic/ytv1/internal/botchallenge/jsast"

// ComputedMemberToStatic is pass D: rewrite obj["name"] to obj.name
// whenever "name" is a string-literal expression whose value is a valid
// JS identifier. It is idempotent and never errors (spec.md §4.D); it runs
// twice in the pipeline (D, E, F, D, G) because phase F5 introduces new
// computed-member accesses by substituting literal strings in for calls to
// the indexer function.
func ComputedMemberToStatic(prog *jsast.Program) {
	jsast.RewriteExprs(prog, func(e jsast.Expr) jsast.Expr {
		m, ok := e.(*jsast.MemberExpr)
		if !ok || !m.Computed {
			return e
		}
		s, ok := m.Property.(*jsast.StringLit)
		if !ok || !isValidIdentifier(s.Value) {
			return e
		}
		return &jsast.MemberExpr{
			Object:   m.Object,
			Property: &jsast.Ident{Name: s.Value},
			Computed: false,
		}
	})
}

func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isLetter := c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if i == 0 {
			if !isLetter {
				return false
			}
		} else if !isLetter && !isDigit {
			return false
		}
	}
	return true
}
