package jsast

import "testing"

func TestTokenizeIdentifiersAndKeywords(t *testing.T) {
	toks, err := tokenize("var a = function(b){return b;}")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := []struct {
		kind tokenKind
		lit  string
	}{
		{tokKeyword, "var"}, {tokIdent, "a"}, {tokPunct, "="},
		{tokKeyword, "function"}, {tokPunct, "("}, {tokIdent, "b"}, {tokPunct, ")"},
		{tokPunct, "{"}, {tokKeyword, "return"}, {tokIdent, "b"}, {tokPunct, ";"},
		{tokPunct, "}"}, {tokEOF, ""},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].kind != w.kind || toks[i].lit != w.lit {
			t.Errorf("token %d: got {%v %q}, want {%v %q}", i, toks[i].kind, toks[i].lit, w.kind, w.lit)
		}
	}
}

func TestTokenizeNumbers(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"146", 146},
		{"0.5", 0.5},
		{".5", 0.5},
		{"1e3", 1000},
		{"1.5e-2", 0.015},
		{"0x1F", 31},
	}
	for _, c := range cases {
		toks, err := tokenize(c.src)
		if err != nil {
			t.Fatalf("tokenize(%q): %v", c.src, err)
		}
		if toks[0].kind != tokNumber || toks[0].num != c.want {
			t.Errorf("tokenize(%q) = %+v, want number %v", c.src, toks[0], c.want)
		}
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := tokenize(`"a\tb\nc\"d"`)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if toks[0].kind != tokString || toks[0].lit != "a\tb\nc\"d" {
		t.Errorf("got %+v", toks[0])
	}
}

func TestTokenizeMultiCharPuncts(t *testing.T) {
	toks, err := tokenize("a===b!==c>>>=d")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	var puncts []string
	for _, tok := range toks {
		if tok.kind == tokPunct {
			puncts = append(puncts, tok.lit)
		}
	}
	want := []string{"===", "!==", ">>>="}
	if len(puncts) != len(want) {
		t.Fatalf("got puncts %v, want %v", puncts, want)
	}
	for i, w := range want {
		if puncts[i] != w {
			t.Errorf("punct %d: got %q, want %q", i, puncts[i], w)
		}
	}
}

func TestTokenizeSkipsComments(t *testing.T) {
	toks, err := tokenize("a // line comment\n/* block */ b")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(toks) != 3 || toks[0].lit != "a" || toks[1].lit != "b" {
		t.Fatalf("got %+v", toks)
	}
}

func TestTokenizeUnterminatedStringErrors(t *testing.T) {
	if _, err := tokenize(`"unterminated`); err == nil {
		t.Fatal("expected error for unterminated string literal")
	}
}

func TestTokenizeUnknownCharacterErrors(t *testing.T) {
	if _, err := tokenize("a @ b"); err == nil {
		t.Fatal("expected error for unrecognized character")
	}
}
