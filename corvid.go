// Package corvid parses HTML and CSS the way browsers do, not the way a
// document format usually gets parsed.
//
// Two independent pipelines live here. The HTML side runs the WHATWG
// tokenizer and tree-construction state machines end to end: malformed
// markup goes through the same insertion-mode dispatch, implied end tags,
// and Adoption Agency recovery a browser's parser runs, so the resulting
// Document matches what a browser's DOM would look like for the same bytes.
// The CSS side is unrelated to the HTML grammar: ParseStylesheet runs the
// CSS Syntax Module Level 3 tokenizer and the component-value/rule grammar
// driver over stylesheet text, independent of any HTML document.
//
// # Basic usage
//
//	doc, err := corvid.Parse("<html><body><p>Hello!</p></body></html>")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	paragraphs, err := doc.Query("p")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, p := range paragraphs {
//		fmt.Println(p.Text())
//	}
//
// # What's in this package
//
//   - A from-scratch WHATWG HTML5 tokenizer and tree constructor — no DOM
//     IDL, just the tree topology and attributes tree construction needs.
//   - A CSS Syntax Module Level 3 tokenizer and grammar driver, reachable
//     through ParseStylesheet and the css package, independent of the HTML
//     parser.
//   - A CSS-selector query layer (Element.Query/QueryFirst) for walking the
//     resulting tree.
//   - Streaming and innerHTML-style fragment entry points alongside the
//     whole-document Parse, and a UTF-8 decode path for callers handing in
//     raw bytes (ParseBytes).
package corvid

import (
	"github.com/corvidml/corvid/css"
	"github.com/corvidml/corvid/dom"
	"github.com/corvidml/corvid/encoding"
	htmlerrors "github.com/corvidml/corvid/errors"
	"github.com/corvidml/corvid/tokenizer"
	"github.com/corvidml/corvid/treebuilder"
)

// Version is the current version of corvid.
const Version = "0.1.0-dev"

// Parse runs the tokenizer and tree constructor over an HTML document string
// and returns the resulting Document.
//
// Recoverable markup errors (an unexpected end tag, a duplicate attribute, a
// misnested formatting element) are corrected the way the tree-construction
// algorithm corrects them rather than rejected; Parse only returns a non-nil
// error when a parse error occurred and either WithStrictMode is set (the
// first error, with a nil Document) or WithCollectErrors is set (all errors
// as a ParseErrors, alongside a best-effort Document).
//
// Example:
//
//	doc, err := corvid.Parse("<html><body><p>Hello!</p></body></html>")
//	if err != nil {
//		// err is non-nil only under WithStrictMode/WithCollectErrors
//	}
func Parse(html string, opts ...Option) (*dom.Document, error) {
	cfg := newConfig(opts...)
	return parse(html, cfg)
}

// ParseBytes decodes a byte slice to text before handing it to the same
// tokenizer/tree-constructor pipeline Parse uses.
//
// Decoding strips a leading UTF-8 byte-order mark and otherwise treats the
// input as UTF-8; corvid does not sniff a <meta charset> or fall back
// through a chain of legacy encodings (see the encoding package) — invalid
// byte sequences become U+FFFD once the tokenizer's code-point stream scans
// them, rather than being rejected up front. WithEncoding records a
// transport-supplied charset label without changing this behavior.
//
// Example:
//
//	data, _ := os.ReadFile("page.html")
//	doc, err := corvid.ParseBytes(data)
func ParseBytes(html []byte, opts ...Option) (*dom.Document, error) {
	cfg := newConfig(opts...)

	// Detect and decode encoding
	decoded, enc, err := encoding.Decode(html, cfg.encoding)
	if err != nil {
		return nil, err
	}
	_ = enc // TODO: store detected encoding in document

	return parse(decoded, cfg)
}

// ParseFragment parses an HTML fragment in a specific context element.
//
// This is equivalent to setting element.innerHTML in browsers. The context
// determines how the fragment is parsed (e.g., parsing "<td>" in a "tr" context
// vs. in a "div" context produces different results).
//
// Example:
//
//	nodes, err := corvid.ParseFragment("<td>Cell</td>", "tr")
func ParseFragment(html string, context string, opts ...Option) ([]*dom.Element, error) {
	cfg := newConfig(opts...)
	cfg.fragmentContext = &treebuilder.FragmentContext{
		TagName:   context,
		Namespace: "html",
	}
	return parseFragment(html, cfg)
}

// ParseStylesheet parses a CSS stylesheet and returns its rule list.
//
// This runs the CSS Syntax Module Level 3 tokenizer and grammar driver
// independently of the HTML parser above; it never fails, since a malformed
// rule at the top level is dropped rather than surfaced as an error.
//
// Example:
//
//	sheet := corvid.ParseStylesheet("#foo { color: red; }")
func ParseStylesheet(cssText string) *css.StyleSheet {
	return css.ParseStyleSheet(cssText)
}

// parse is the internal parsing implementation.
func parse(html string, cfg *config) (*dom.Document, error) {
	tok := tokenizer.New(html)
	if cfg.xmlCoercion {
		tok.SetXMLCoercion(true)
	}
	tb := treebuilder.New(tok)
	if cfg.iframeSrcdoc {
		tb.SetIframeSrcdoc(true)
	}

	for {
		tok.SetAllowCDATA(tb.AllowCDATA())
		tt := tok.Next()
		tb.ProcessToken(tt)
		if tt.Type == tokenizer.EOF {
			break
		}
	}

	if cfg.strict || cfg.collectErrors {
		parseErrs := convertTokenizerErrors(tok.Errors())
		if len(parseErrs) > 0 && cfg.strict {
			return nil, parseErrs[0]
		}
		if len(parseErrs) > 0 && cfg.collectErrors {
			return tb.Document(), htmlerrors.ParseErrors(parseErrs)
		}
	}

	return tb.Document(), nil
}

// parseFragment is the internal fragment parsing implementation.
func parseFragment(html string, cfg *config) ([]*dom.Element, error) {
	tok := tokenizer.New(html)
	if cfg.xmlCoercion {
		tok.SetXMLCoercion(true)
	}
	tb := treebuilder.NewFragment(tok, cfg.fragmentContext)
	if cfg.iframeSrcdoc {
		tb.SetIframeSrcdoc(true)
	}

	for {
		tok.SetAllowCDATA(tb.AllowCDATA())
		tt := tok.Next()
		tb.ProcessToken(tt)
		if tt.Type == tokenizer.EOF {
			break
		}
	}

	if cfg.strict || cfg.collectErrors {
		parseErrs := convertTokenizerErrors(tok.Errors())
		if len(parseErrs) > 0 && cfg.strict {
			return nil, parseErrs[0]
		}
		if len(parseErrs) > 0 && cfg.collectErrors {
			return tb.FragmentNodes(), htmlerrors.ParseErrors(parseErrs)
		}
	}

	return tb.FragmentNodes(), nil
}

func convertTokenizerErrors(errs []tokenizer.ParseError) []*htmlerrors.ParseError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]*htmlerrors.ParseError, 0, len(errs))
	for _, e := range errs {
		out = append(out, htmlerrors.NewParseError(e.Code, e.Line, e.Column))
	}
	return out
}
