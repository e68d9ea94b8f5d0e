package css

import "testing"

func collectCSSTokens(input string) []Token {
	tok := NewTokenizer(input)
	var out []Token
	for {
		tt := tok.Next()
		if tt.Type == EOFToken {
			break
		}
		out = append(out, tt)
	}
	return out
}

func TestTokenizer_IdentAndDelim(t *testing.T) {
	toks := collectCSSTokens("foo:bar")
	if len(toks) != 3 {
		t.Fatalf("toks = %#v, want 3 tokens", toks)
	}
	if toks[0].Type != IdentToken || toks[0].Value != "foo" {
		t.Fatalf("toks[0] = %#v, want Ident(foo)", toks[0])
	}
	if toks[1].Type != ColonToken {
		t.Fatalf("toks[1] = %#v, want Colon", toks[1])
	}
	if toks[2].Type != IdentToken || toks[2].Value != "bar" {
		t.Fatalf("toks[2] = %#v, want Ident(bar)", toks[2])
	}
}

func TestTokenizer_HashFlag(t *testing.T) {
	toks := collectCSSTokens("#foo #123")
	if toks[0].Type != HashToken || toks[0].Value != "foo" || toks[0].HashFlag != HashID {
		t.Fatalf("toks[0] = %#v, want Hash(foo, id)", toks[0])
	}
	if toks[2].Type != HashToken || toks[2].Value != "123" || toks[2].HashFlag != HashUnrestricted {
		t.Fatalf("toks[2] = %#v, want Hash(123, unrestricted)", toks[2])
	}
}

func TestTokenizer_Dimension(t *testing.T) {
	toks := collectCSSTokens("20px 5vw 50%")
	if toks[0].Type != DimensionToken || toks[0].NumValue != 20 || toks[0].Unit != "px" {
		t.Fatalf("toks[0] = %#v, want Dimension(20, px)", toks[0])
	}
	if toks[2].Type != DimensionToken || toks[2].NumValue != 5 || toks[2].Unit != "vw" {
		t.Fatalf("toks[2] = %#v, want Dimension(5, vw)", toks[2])
	}
	if toks[4].Type != PercentageToken || toks[4].NumValue != 50 {
		t.Fatalf("toks[4] = %#v, want Percentage(50)", toks[4])
	}
}

func TestTokenizer_StringAndBadString(t *testing.T) {
	toks := collectCSSTokens(`"hello \"world\""`)
	if len(toks) != 1 || toks[0].Type != StringToken || toks[0].Value != `hello "world"` {
		t.Fatalf("toks = %#v, want single String(hello \"world\")", toks)
	}

	bad := collectCSSTokens("\"unterminated\n")
	if len(bad) != 2 || bad[0].Type != BadStringToken {
		t.Fatalf("bad = %#v, want BadString then Whitespace", bad)
	}
}

func TestTokenizer_URLUnquoted(t *testing.T) {
	toks := collectCSSTokens("url(foo.png)")
	if len(toks) != 1 || toks[0].Type != URLToken || toks[0].Value != "foo.png" {
		t.Fatalf("toks = %#v, want single URL(foo.png)", toks)
	}
}

func TestTokenizer_URLQuotedIsFunction(t *testing.T) {
	// A url() with a quoted argument is tokenized as a plain function; the
	// grammar driver sees the nested string as its own token.
	toks := collectCSSTokens(`url("foo.png")`)
	if len(toks) != 3 {
		t.Fatalf("toks = %#v, want Function, String, RParen", toks)
	}
	if toks[0].Type != FunctionToken || toks[0].Value != "url" {
		t.Fatalf("toks[0] = %#v, want Function(url)", toks[0])
	}
	if toks[1].Type != StringToken || toks[1].Value != "foo.png" {
		t.Fatalf("toks[1] = %#v, want String(foo.png)", toks[1])
	}
	if toks[2].Type != RParenToken {
		t.Fatalf("toks[2] = %#v, want RParen", toks[2])
	}
}

func TestTokenizer_CDOCDC(t *testing.T) {
	toks := collectCSSTokens("<!-- -->")
	if len(toks) != 3 || toks[0].Type != CDOToken || toks[2].Type != CDCToken {
		t.Fatalf("toks = %#v, want CDO, Whitespace, CDC", toks)
	}
}

func TestTokenizer_Comments(t *testing.T) {
	toks := collectCSSTokens("/* comment */foo")
	if len(toks) != 1 || toks[0].Type != IdentToken || toks[0].Value != "foo" {
		t.Fatalf("toks = %#v, want comment dropped and single Ident(foo)", toks)
	}
}

// TestParseStyleSheet_SimpleRule exercises the rule-block grammar on a
// single ID selector rule, matching the component-value shape the CSS
// Syntax Module Level 3 §5.4 examples describe.
func TestParseStyleSheet_SimpleRule(t *testing.T) {
	sheet := ParseStyleSheet("#foo { color: red; }")
	if len(sheet.Rules) != 1 {
		t.Fatalf("rules = %#v, want 1 rule", sheet.Rules)
	}
	rule, ok := sheet.Rules[0].(*QualifiedRule)
	if !ok {
		t.Fatalf("rule = %#v, want *QualifiedRule", sheet.Rules[0])
	}

	prelude := rule.Prelude.nonWhitespace()
	if len(prelude) != 1 {
		t.Fatalf("prelude = %#v, want single Hash", rule.Prelude)
	}
	hash, ok := asToken(prelude[0])
	if !ok || hash.Type != HashToken || hash.Value != "foo" || hash.HashFlag != HashID {
		t.Fatalf("prelude[0] = %#v, want Hash(foo, id)", prelude[0])
	}

	if rule.Block == nil || rule.Block.Opener != '{' {
		t.Fatalf("block = %#v, want {}-delimited SimpleBlock", rule.Block)
	}
	decl, err := ParseDeclaration("color: red")
	if err != nil {
		t.Fatalf("ParseDeclaration error: %v", err)
	}
	if decl.Name != "color" {
		t.Fatalf("decl.Name = %q, want color", decl.Name)
	}
	values := decl.Values.nonWhitespace()
	if len(values) != 1 {
		t.Fatalf("decl.Values = %#v, want single Ident(red)", decl.Values)
	}
	if v, ok := asToken(values[0]); !ok || v.Type != IdentToken || v.Value != "red" {
		t.Fatalf("values[0] = %#v, want Ident(red)", values[0])
	}
}

// TestParseComponentValue_Function mirrors the same "clamp(...)" parse used
// to sanity-check a nested declaration value: three comma-separated
// dimensions inside a Function component value.
func TestParseComponentValue_Function(t *testing.T) {
	cv, err := ParseComponentValue("clamp(20px, 5vw, 50px)")
	if err != nil {
		t.Fatalf("ParseComponentValue error: %v", err)
	}
	fn, ok := cv.(*Function)
	if !ok || fn.Name != "clamp" {
		t.Fatalf("cv = %#v, want Function(clamp)", cv)
	}

	nw := fn.Values.nonWhitespace()
	if len(nw) != 5 {
		t.Fatalf("fn.Values (non-ws) = %#v, want 5 entries", nw)
	}
	wantDims := []struct {
		val  float64
		unit string
	}{{20, "px"}, {5, "vw"}, {50, "px"}}
	dimIdx := 0
	for _, cv := range nw {
		tok, ok := asToken(cv)
		if !ok {
			t.Fatalf("unexpected nested component value %#v", cv)
		}
		if tok.Type == CommaToken {
			continue
		}
		if tok.Type != DimensionToken {
			t.Fatalf("token = %#v, want Dimension", tok)
		}
		want := wantDims[dimIdx]
		if tok.NumValue != want.val || tok.Unit != want.unit {
			t.Fatalf("dimension[%d] = %#v, want %v%s", dimIdx, tok, want.val, want.unit)
		}
		dimIdx++
	}
	if dimIdx != 3 {
		t.Fatalf("saw %d dimensions, want 3", dimIdx)
	}
}

func TestParseDeclaration_Important(t *testing.T) {
	decl, err := ParseDeclaration("color: red !important")
	if err != nil {
		t.Fatalf("ParseDeclaration error: %v", err)
	}
	if !decl.Important {
		t.Fatalf("decl.Important = false, want true")
	}
	values := decl.Values.nonWhitespace()
	if len(values) != 1 {
		t.Fatalf("decl.Values = %#v, want !important stripped", decl.Values)
	}
}

func TestParseDeclaration_CustomPropertyNestedSemicolon(t *testing.T) {
	// A custom property's value can itself contain a block with
	// semicolons; those must not terminate the declaration early.
	decl, err := ParseDeclaration("--my-var: { a: 1; b: 2; }")
	if err != nil {
		t.Fatalf("ParseDeclaration error: %v", err)
	}
	if decl.Name != "--my-var" {
		t.Fatalf("decl.Name = %q, want --my-var", decl.Name)
	}
	values := decl.Values.nonWhitespace()
	if len(values) != 1 {
		t.Fatalf("decl.Values = %#v, want single nested block", decl.Values)
	}
	if _, ok := values[0].(*SimpleBlock); !ok {
		t.Fatalf("values[0] = %#v, want *SimpleBlock", values[0])
	}
}

func TestParseListOfRules_AtRuleWithoutBlock(t *testing.T) {
	rules := ParseListOfRules(`@import url(foo.css);`)
	if len(rules) != 1 {
		t.Fatalf("rules = %#v, want 1 rule", rules)
	}
	at, ok := rules[0].(*AtRule)
	if !ok || at.Name != "import" {
		t.Fatalf("rules[0] = %#v, want AtRule(import)", rules[0])
	}
	if at.Block != nil {
		t.Fatalf("at.Block = %#v, want nil (statement at-rule)", at.Block)
	}
}

func TestParseStyleSheet_DropsMalformedRule(t *testing.T) {
	// A qualified rule missing its block is a parse error and must be
	// dropped rather than surfaced, per §5.4.3.
	sheet := ParseStyleSheet("#foo")
	if len(sheet.Rules) != 0 {
		t.Fatalf("rules = %#v, want none", sheet.Rules)
	}
}
