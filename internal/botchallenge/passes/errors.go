package passes

import "errors"

// Sentinel errors raised by pass F (string deobfuscation) and pass G
// (math evaluation). Pass D and pass E never fail (spec.md §4.D, §4.E).
var (
	ErrMissingProducer     = errors.New("botchallenge: obfuscated string producer function not found")
	ErrMissingIndexer      = errors.New("botchallenge: string index function not found")
	ErrMissingChecksum     = errors.New("botchallenge: string table checksum expression not found")
	ErrRotationExhausted   = errors.New("botchallenge: string table rotation exhausted without a checksum match")
	ErrAnswerNotComputable = errors.New("botchallenge: no numeric answer could be folded from the script")
)
