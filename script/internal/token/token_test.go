package token

import "testing"

func TestTokenize(t *testing.T) {
	src := `(base 0x4000000)
;; comment line
(region bss (noload) (align-start 32)
  (sections ".bss*"))`

	tokens := Tokenize(src)

	want := []struct {
		value string
		typ   Type
		line  int
	}{
		{"(", LParen, 1},
		{"base", Ident, 1},
		{"0x4000000", Number, 1},
		{")", RParen, 1},
		{"(", LParen, 3},
		{"region", Ident, 3},
		{"bss", Ident, 3},
		{"(", LParen, 3},
		{"noload", Ident, 3},
		{")", RParen, 3},
		{"(", LParen, 3},
		{"align-start", Ident, 3},
		{"32", Number, 3},
		{")", RParen, 3},
		{"(", LParen, 4},
		{"sections", Ident, 4},
		{".bss*", String, 4},
		{")", RParen, 4},
		{")", RParen, 4},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		got := tokens[i]
		if got.Value != w.value || got.Type != w.typ || got.Line != w.line {
			t.Errorf("token %d: got {%q %v line %d}, want {%q %v line %d}",
				i, got.Value, got.Type, got.Line, w.value, w.typ, w.line)
		}
	}
}

func TestTokenizeBlockComment(t *testing.T) {
	src := `(base (; the load
address ;) 4096)`
	tokens := Tokenize(src)
	if len(tokens) != 4 {
		t.Fatalf("got %d tokens, want 4: %+v", len(tokens), tokens)
	}
	if tokens[2].Value != "4096" || tokens[2].Type != Number {
		t.Errorf("token 2: got %+v, want number 4096", tokens[2])
	}
	if tokens[2].Line != 2 {
		t.Errorf("line tracking through block comment: got %d, want 2", tokens[2].Line)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if got := Tokenize("  ;; nothing here\n"); len(got) != 0 {
		t.Errorf("expected no tokens, got %+v", got)
	}
}
