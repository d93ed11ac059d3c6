package botchallenge

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strings"
)

// Challenge is the decoded envelope input: spec.md §3's Data Model,
// immutable after Decode.
type Challenge struct {
	Input float64
	Code  string
	Tag   string
}

type envelopeIn struct {
	Tag   string  `json:"t"`
	Code  string  `json:"c"`
	Input float64 `json:"a"`
}

type envelopeOut struct {
	Answer [3]any `json:"r"`
	Tag    string `json:"t"`
}

// DecodeEnvelope decodes a base64+JSON envelope into a Challenge.
// Base64 is decoded in padding-optional mode (spec.md §6): the browser
// that produces these values may or may not emit trailing `=` padding.
func DecodeEnvelope(data string) (Challenge, error) {
	raw, err := decodeBase64PadOptional(data)
	if err != nil {
		return Challenge{}, &DecodeError{Stage: "base64", Err: err}
	}

	var in envelopeIn
	if err := json.Unmarshal(raw, &in); err != nil {
		return Challenge{}, &DecodeError{Stage: "json", Err: err}
	}

	return Challenge{Input: in.Input, Code: in.Code, Tag: in.Tag}, nil
}

// EncodeAnswer builds the output envelope: base64 of
// `{"r":[answer, [], "mark"], "t": tag}`, where answer is JSON null for a
// non-finite value (matching JavaScript's JSON.stringify of NaN/Infinity).
func EncodeAnswer(tag string, answer float64) (string, error) {
	out := envelopeOut{
		Tag: tag,
		Answer: [3]any{
			jsonNumberOrNull(answer),
			[]any{},
			"mark",
		},
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// GenerateToken decodes the envelope, solves the challenge, and
// re-encodes the answer — the full round trip from
// original_source/src/lib.rs::generate_token.
func GenerateToken(data string) (string, error) {
	challenge, err := DecodeEnvelope(data)
	if err != nil {
		return "", err
	}
	answer, err := Solve(challenge)
	if err != nil {
		return "", err
	}
	return EncodeAnswer(challenge.Tag, answer)
}

func jsonNumberOrNull(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// decodeBase64PadOptional decodes s whether or not it carries `=`
// padding, matching base64's DecodePaddingMode::Indifferent used by the
// original implementation.
func decodeBase64PadOptional(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	return base64.RawStdEncoding.DecodeString(s)
}
