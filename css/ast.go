package css

import "fmt"

// ComponentValue is a preserved token, a Function, or a SimpleBlock — the
// three shapes the CSS grammar driver builds while consuming a token
// stream. See §5.4.6 of the CSS Syntax Module Level 3.
type ComponentValue interface {
	componentValue()
}

// TokenValue wraps a single preserved Token as a ComponentValue.
type TokenValue struct {
	Token Token
}

func (*TokenValue) componentValue() {}

// String renders the token for diagnostics; it is not a serializer.
func (t *TokenValue) String() string {
	return fmt.Sprintf("Token(%v %q)", t.Token.Type, t.Token.Value)
}

// ComponentValues is an ordered sequence of component values.
type ComponentValues []ComponentValue

func (v ComponentValues) nonWhitespace() ComponentValues {
	out := make(ComponentValues, 0, len(v))
	for _, cv := range v {
		if tok, ok := cv.(*TokenValue); ok && tok.Token.Type == WhitespaceToken {
			continue
		}
		out = append(out, cv)
	}
	return out
}

// SimpleBlock is a {}/[]/() delimited run of component values. Opener
// holds the opening bracket rune: '{', '[' or '('.
type SimpleBlock struct {
	Opener rune
	Values ComponentValues
}

func (*SimpleBlock) componentValue() {}

// Function is a <function-token> together with the component values up to
// its matching close paren.
type Function struct {
	Name   string
	Values ComponentValues
}

func (*Function) componentValue() {}

// Declaration is a `name: value` (possibly `!important`) pair as produced
// inside a style block or @rule prelude.
type Declaration struct {
	Name      string
	Values    ComponentValues
	Important bool
}

func (*Declaration) componentValue() {}

// QualifiedRule pairs a prelude (e.g. a selector list) with its {} block.
type QualifiedRule struct {
	Prelude ComponentValues
	Block   *SimpleBlock
}

func (*QualifiedRule) componentValue() {}

// AtRule is an @-rule: a name, a prelude, and an optional {} block (absent
// for statement at-rules like `@import url(...);`).
type AtRule struct {
	Name    string
	Prelude ComponentValues
	Block   *SimpleBlock
}

func (*AtRule) componentValue() {}

// Rule is the sum type returned by the top-level rule-list entry points:
// either a QualifiedRule or an AtRule.
type Rule interface {
	ComponentValue
	rule()
}

func (*QualifiedRule) rule() {}
func (*AtRule) rule() {}

// Rules is an ordered sequence of rules.
type Rules []Rule

// Declarations is a mixed sequence of Declaration and AtRule entries, as
// produced by parse_list_of_declarations / parse_style_blocks_contents.
type Declarations []ComponentValue

// StyleSheet is the top-level parse result: an ordered list of rules with
// CDO/CDC tokens discarded per the top-level rule-list grammar.
type StyleSheet struct {
	Rules Rules
}
