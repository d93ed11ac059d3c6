package passes

import (
	"math"
	"testing"
)

func TestEvaluateMathExpressionsBindsInputAndFoldsMath(t *testing.T) {
	prog := mustParse(t, `(function(a){return [a+Math.PI*2];})`)
	answer, err := EvaluateMathExpressions(prog, 1)
	if err != nil {
		t.Fatalf("EvaluateMathExpressions: %v", err)
	}
	want := 1 + math.Pi*2
	if math.Abs(answer-want) > 1e-12 {
		t.Fatalf("got %v, want %v", answer, want)
	}
}

func TestEvaluateMathExpressionsFoldsMathCalls(t *testing.T) {
	prog := mustParse(t, `(function(a){return [Math.sqrt(a)];})`)
	answer, err := EvaluateMathExpressions(prog, 16)
	if err != nil {
		t.Fatalf("EvaluateMathExpressions: %v", err)
	}
	if answer != 4 {
		t.Fatalf("got %v, want 4", answer)
	}
}

func TestEvaluateMathExpressionsFirstArrayWins(t *testing.T) {
	prog := mustParse(t, `(function(a){return [[1+2],[a]];})`)
	answer, err := EvaluateMathExpressions(prog, 99)
	if err != nil {
		t.Fatalf("EvaluateMathExpressions: %v", err)
	}
	if answer != 3 {
		t.Fatalf("got %v, want 3 (first foldable element, document order)", answer)
	}
}

func TestEvaluateMathExpressionsUnfoldableReturnsError(t *testing.T) {
	prog := mustParse(t, `(function(a){return [unknownGlobal];})`)
	if _, err := EvaluateMathExpressions(prog, 1); err != ErrAnswerNotComputable {
		t.Fatalf("got %v, want ErrAnswerNotComputable", err)
	}
}

func TestMathConstantTable(t *testing.T) {
	cases := map[string]float64{
		"PI": math.Pi, "E": math.E, "SQRT2": math.Sqrt2, "SQRT1_2": 1 / math.Sqrt2,
	}
	for name, want := range cases {
		got, ok := mathConstant(name)
		if !ok || got != want {
			t.Errorf("mathConstant(%q) = (%v,%v), want %v", name, got, ok, want)
		}
	}
	if _, ok := mathConstant("NOT_A_CONST"); ok {
		t.Errorf("mathConstant should reject unknown names")
	}
}

func TestMathCallRoundTiesTowardPositiveInfinity(t *testing.T) {
	got, ok := mathCall("round", []float64{-0.5})
	if !ok || got != 0 {
		t.Fatalf("Math.round(-0.5) = (%v,%v), want 0", got, ok)
	}
	got, ok = mathCall("round", []float64{0.5})
	if !ok || got != 1 {
		t.Fatalf("Math.round(0.5) = (%v,%v), want 1", got, ok)
	}
}

func TestMathCallSignHandlesNaNAndSignedZero(t *testing.T) {
	got, ok := mathCall("sign", []float64{math.NaN()})
	if !ok || !math.IsNaN(got) {
		t.Fatalf("Math.sign(NaN) = (%v,%v), want NaN", got, ok)
	}
	got, ok = mathCall("sign", []float64{5})
	if !ok || got != 1 {
		t.Fatalf("Math.sign(5) = (%v,%v), want 1", got, ok)
	}
	got, ok = mathCall("sign", []float64{-5})
	if !ok || got != -1 {
		t.Fatalf("Math.sign(-5) = (%v,%v), want -1", got, ok)
	}
	got, ok = mathCall("sign", []float64{math.Copysign(0, -1)})
	if !ok || got != 0 || !math.Signbit(got) {
		t.Fatalf("Math.sign(-0) = (%v,%v), want -0", got, ok)
	}
}

func TestMathCallClz32AndImul(t *testing.T) {
	got, ok := mathCall("clz32", []float64{1})
	if !ok || got != 31 {
		t.Fatalf("Math.clz32(1) = (%v,%v), want 31", got, ok)
	}
	got, ok = mathCall("imul", []float64{3, 4})
	if !ok || got != 12 {
		t.Fatalf("Math.imul(3,4) = (%v,%v), want 12", got, ok)
	}
}

func TestMathCallUnknownNameFails(t *testing.T) {
	if _, ok := mathCall("notAMathFunction", nil); ok {
		t.Fatalf("mathCall should reject unknown function names")
	}
}
