package css

import (
	"fmt"
	"strings"

	"github.com/corvidml/corvid/internal/tokenqueue"
)

// SyntaxError is the single error surface returned by the CSS parser
// driver's fallible entry points. ParseStyleSheet never returns one: per
// the CSS Syntax Module Level 3, errored rules at the top level are simply
// dropped rather than surfaced.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("css: %s (line %d, column %d)", e.Message, e.Line, e.Column)
}

// source is satisfied by both a live token stream and a fixed slice of
// already-built component values, letting the consume_* algorithms below
// run over either one. A declaration's value list, for instance, is first
// sliced off the live stream and then re-driven through ConsumeDeclaration
// as its own source.
type source interface {
	scan() ComponentValue
	unscan()
	current() ComponentValue
}

var eofValue = &TokenValue{Token: Token{Type: EOFToken}}

// tokenSource adapts a Tokenizer into a source over the shared tokenqueue
// primitive, which retains every token produced so unscan can step back an
// arbitrary number of times within a single parse (the tree-construction
// analogue of "reconsume"). The CSS tokenizer returns EOFToken forever once
// exhausted, so the queue never needs the FIFO's compaction path: every
// scan, even past the end of input, enqueues a real token.
type tokenSource struct {
	tok *Tokenizer
	q   tokenqueue.Queue[Token]
}

func newTokenSource(input string) *tokenSource {
	return &tokenSource{tok: NewTokenizer(input), q: *tokenqueue.New[Token]()}
}

func (s *tokenSource) scan() ComponentValue {
	if tok, ok := s.q.Dequeue(); ok {
		return &TokenValue{Token: tok}
	}
	s.q.Enqueue(s.tok.Next())
	tok, _ := s.q.Dequeue()
	return &TokenValue{Token: tok}
}

func (s *tokenSource) unscan() {
	s.q.ReconsumeCurrent()
}

func (s *tokenSource) current() ComponentValue {
	if tok, ok := s.q.Current(); ok {
		return &TokenValue{Token: tok}
	}
	return eofValue
}

// listSource re-drives a fixed, already-consumed ComponentValues slice
// through the grammar, used when a declaration's value run is sliced off
// the main stream and parsed independently.
type listSource struct {
	values ComponentValues
	i      int
}

func newListSource(values ComponentValues) *listSource {
	return &listSource{values: values, i: -1}
}

func (s *listSource) scan() ComponentValue {
	if s.i+1 < len(s.values) {
		s.i++
		return s.values[s.i]
	}
	s.i = len(s.values)
	return eofValue
}

func (s *listSource) unscan() {
	if s.i > -1 {
		s.i--
	}
}

func (s *listSource) current() ComponentValue {
	if s.i < 0 || s.i >= len(s.values) {
		return eofValue
	}
	return s.values[s.i]
}

func asToken(cv ComponentValue) (Token, bool) {
	tv, ok := cv.(*TokenValue)
	if !ok {
		return Token{}, false
	}
	return tv.Token, true
}

func isTokenType(cv ComponentValue, tt TokenType) bool {
	tok, ok := asToken(cv)
	return ok && tok.Type == tt
}

func pos(cv ComponentValue) (int, int) {
	if tok, ok := asToken(cv); ok {
		return tok.Line, tok.Column
	}
	return 0, 0
}

// ParseStyleSheet implements §5.3.1: tokenize input and parse a top-level
// list of rules. It never fails; rules that don't parse are dropped.
func ParseStyleSheet(input string) *StyleSheet {
	s := newTokenSource(input)
	return &StyleSheet{Rules: consumeListOfRules(s, true)}
}

// ParseListOfRules implements §5.3.2, consuming a non-top-level list of
// rules (CDO/CDC are not special inside it).
func ParseListOfRules(input string) Rules {
	s := newTokenSource(input)
	return consumeListOfRules(s, false)
}

// ParseRule implements §5.3.3: parse a single qualified rule or at-rule.
func ParseRule(input string) (Rule, error) {
	s := newTokenSource(input)
	skipWhitespace(s)

	first := s.scan()
	if isTokenType(first, EOFToken) {
		l, c := pos(first)
		return nil, &SyntaxError{Message: "unexpected EOF", Line: l, Column: c}
	}

	var r Rule
	if tok, ok := asToken(first); ok && tok.Type == AtKeywordToken {
		r = consumeAtRule(s)
	} else {
		s.unscan()
		qr := consumeQualifiedRule(s)
		if qr == nil {
			return nil, &SyntaxError{Message: "expected qualified rule"}
		}
		r = qr
	}

	skipWhitespace(s)
	if tail := s.scan(); !isTokenType(tail, EOFToken) {
		l, c := pos(tail)
		return nil, &SyntaxError{Message: "expected EOF after rule", Line: l, Column: c}
	}
	return r, nil
}

// ParseDeclaration implements §5.3.4: parse a single name/value
// declaration.
func ParseDeclaration(input string) (*Declaration, error) {
	s := newTokenSource(input)
	skipWhitespace(s)

	first := s.scan()
	if !isTokenType(first, IdentToken) {
		l, c := pos(first)
		return nil, &SyntaxError{Message: "expected ident", Line: l, Column: c}
	}
	s.unscan()

	d := consumeDeclaration(s)
	if d == nil {
		return nil, &SyntaxError{Message: "expected declaration"}
	}
	return d, nil
}

// ParseListOfDeclarations implements §5.3.5, consuming declarations mixed
// with at-rules as found inside a style rule's block or an @rule's block.
func ParseListOfDeclarations(input string) Declarations {
	s := newTokenSource(input)
	return consumeListOfDeclarations(s)
}

// ParseComponentValue implements §5.3.6: parse exactly one component
// value, erroring on an empty or over-long input.
func ParseComponentValue(input string) (ComponentValue, error) {
	s := newTokenSource(input)
	skipWhitespace(s)

	if isTokenType(s.scan(), EOFToken) {
		return nil, &SyntaxError{Message: "unexpected EOF"}
	}
	s.unscan()

	v := consumeComponentValue(s)

	skipWhitespace(s)
	if tail := s.scan(); !isTokenType(tail, EOFToken) {
		s.unscan()
		l, c := pos(tail)
		return nil, &SyntaxError{Message: "expected EOF after component value", Line: l, Column: c}
	}
	return v, nil
}

// ParseListOfComponentValues implements §5.3.7, consuming component
// values until EOF.
func ParseListOfComponentValues(input string) ComponentValues {
	s := newTokenSource(input)
	var out ComponentValues
	for {
		v := consumeComponentValue(s)
		if isTokenType(v, EOFToken) {
			break
		}
		out = append(out, v)
	}
	return out
}

// ParseCommaSeparatedListOfComponentValues implements §5.3.8, splitting
// the input on top-level commas.
func ParseCommaSeparatedListOfComponentValues(input string) []ComponentValues {
	s := newTokenSource(input)
	var groups []ComponentValues
	var cur ComponentValues
	for {
		v := consumeComponentValue(s)
		if isTokenType(v, EOFToken) {
			groups = append(groups, cur)
			return groups
		}
		if isTokenType(v, CommaToken) {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, v)
	}
}

// consumeListOfRules implements §5.4.1.
func consumeListOfRules(s source, topLevel bool) Rules {
	var rules Rules
	for {
		cv := s.scan()
		tok, isTok := asToken(cv)
		if isTok {
			switch tok.Type {
			case WhitespaceToken:
				continue
			case EOFToken:
				return rules
			case CDOToken, CDCToken:
				if topLevel {
					continue
				}
				s.unscan()
				if r := consumeQualifiedRule(s); r != nil {
					rules = append(rules, r)
				}
				continue
			case AtKeywordToken:
				rules = append(rules, consumeAtRule(s))
				continue
			}
		}
		s.unscan()
		if r := consumeQualifiedRule(s); r != nil {
			rules = append(rules, r)
		}
	}
}

// consumeAtRule implements §5.4.2. The at-keyword token is s.current().
func consumeAtRule(s source) *AtRule {
	tok, _ := asToken(s.current())
	r := &AtRule{Name: tok.Value}

	for {
		cv := s.scan()
		if t, ok := asToken(cv); ok {
			switch t.Type {
			case SemicolonToken, EOFToken:
				return r
			case LBraceToken:
				r.Block = consumeSimpleBlock(s)
				return r
			}
		}
		s.unscan()
		r.Prelude = append(r.Prelude, consumeComponentValue(s))
	}
}

// consumeQualifiedRule implements §5.4.3. Returns nil on a parse error
// (an EOF before the rule's block), which the caller drops.
func consumeQualifiedRule(s source) *QualifiedRule {
	var r QualifiedRule
	for {
		cv := s.scan()
		if t, ok := asToken(cv); ok {
			switch t.Type {
			case EOFToken:
				return nil
			case LBraceToken:
				r.Block = consumeSimpleBlock(s)
				return &r
			}
		}
		s.unscan()
		r.Prelude = append(r.Prelude, consumeComponentValue(s))
	}
}

// consumeListOfDeclarations implements §5.4.4, mixing Declaration and
// AtRule entries and discarding malformed declarations.
func consumeListOfDeclarations(s source) Declarations {
	var out Declarations
	for {
		cv := s.scan()
		if t, ok := asToken(cv); ok {
			switch t.Type {
			case WhitespaceToken, SemicolonToken:
				continue
			case EOFToken:
				return out
			case AtKeywordToken:
				out = append(out, consumeAtRule(s))
				continue
			case IdentToken:
				s.unscan()
				values := consumeDeclarationValueRun(s)
				if d := consumeDeclaration(newListSource(values)); d != nil {
					out = append(out, d)
				}
				continue
			}
		}
		s.unscan()
		skipComponentValuesUntilSemicolon(s)
	}
}

// consumeDeclaration implements §5.4.5. The current token must be the
// declaration's leading ident (already scanned by the caller in the
// single-declaration entry point, or about to be scanned here).
func consumeDeclaration(s source) *Declaration {
	first := s.scan()
	tok, ok := asToken(first)
	if !ok || tok.Type != IdentToken {
		return nil
	}
	d := &Declaration{Name: tok.Value}

	skipWhitespace(s)

	colon := s.scan()
	if !isTokenType(colon, ColonToken) {
		return nil
	}

	skipWhitespace(s)

	for {
		cv := consumeComponentValue(s)
		if isTokenType(cv, EOFToken) {
			break
		}
		d.Values = append(d.Values, cv)
	}

	d.Values, d.Important = stripImportant(d.Values)
	return d
}

// stripImportant implements the "!important" check in §5.4.5: the last
// two non-whitespace component values, if they spell "!important"
// case-insensitively, are removed and the flag is set.
func stripImportant(values ComponentValues) (ComponentValues, bool) {
	nw := values.nonWhitespace()
	if len(nw) < 2 {
		return values, false
	}
	bang, ok1 := asToken(nw[len(nw)-2])
	important, ok2 := asToken(nw[len(nw)-1])
	if !ok1 || !ok2 {
		return values, false
	}
	if bang.Type != DelimToken || bang.Value != "!" {
		return values, false
	}
	if important.Type != IdentToken || !strings.EqualFold(important.Value, "important") {
		return values, false
	}

	bangMarker := nw[len(nw)-2]
	for i, v := range values {
		if v == bangMarker {
			return values[:i], true
		}
	}
	return values, true
}

// consumeComponentValue implements §5.4.6.
func consumeComponentValue(s source) ComponentValue {
	cv := s.scan()
	if tok, ok := asToken(cv); ok {
		switch tok.Type {
		case LBraceToken, LBracketToken, LParenToken:
			return consumeSimpleBlock(s)
		case FunctionToken:
			return consumeFunction(s)
		}
	}
	return cv
}

var closerFor = map[TokenType]TokenType{
	LBraceToken:   RBraceToken,
	LBracketToken: RBracketToken,
	LParenToken:   RParenToken,
}

var openerRune = map[TokenType]rune{
	LBraceToken:   '{',
	LBracketToken: '[',
	LParenToken:   '(',
}

// consumeSimpleBlock implements §5.4.7. s.current() holds the opening
// bracket token.
func consumeSimpleBlock(s source) *SimpleBlock {
	open, _ := asToken(s.current())
	b := &SimpleBlock{Opener: openerRune[open.Type]}
	closer := closerFor[open.Type]

	for {
		cv := s.scan()
		if tok, ok := asToken(cv); ok {
			if tok.Type == EOFToken || tok.Type == closer {
				return b
			}
		}
		s.unscan()
		b.Values = append(b.Values, consumeComponentValue(s))
	}
}

// consumeFunction implements §5.4.8. s.current() holds the
// <function-token>.
func consumeFunction(s source) *Function {
	name, _ := asToken(s.current())
	f := &Function{Name: name.Value}

	for {
		cv := s.scan()
		if tok, ok := asToken(cv); ok && (tok.Type == EOFToken || tok.Type == RParenToken) {
			return f
		}
		s.unscan()
		f.Values = append(f.Values, consumeComponentValue(s))
	}
}

// consumeDeclarationValueRun collects the component values of one
// declaration up to (not including) the next top-level semicolon or EOF,
// for re-parsing via a listSource. Component values nest matched brackets
// atomically, so a semicolon inside a block or function value does not
// terminate the run early.
func consumeDeclarationValueRun(s source) ComponentValues {
	var out ComponentValues
	for {
		cv := consumeComponentValue(s)
		if t, ok := asToken(cv); ok && (t.Type == SemicolonToken || t.Type == EOFToken) {
			return out
		}
		out = append(out, cv)
	}
}

// skipComponentValuesUntilSemicolon discards an invalid declaration's
// remaining tokens, used by consumeListOfDeclarations on a parse error.
func skipComponentValuesUntilSemicolon(s source) {
	for {
		v := consumeComponentValue(s)
		if t, ok := asToken(v); ok && (t.Type == SemicolonToken || t.Type == EOFToken) {
			return
		}
	}
}

func skipWhitespace(s source) {
	for {
		cv := s.scan()
		if !isTokenType(cv, WhitespaceToken) {
			s.unscan()
			return
		}
	}
}
