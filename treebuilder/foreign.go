package treebuilder

import (
	"strings"

	"github.com/corvidml/corvid/dom"
	"github.com/corvidml/corvid/internal/constants"
	"github.com/corvidml/corvid/tokenizer"
)

// shouldUseForeignContent reports whether the "any other start/end tag" branch of
// tree construction should dispatch to foreign-content handling instead of
// the current insertion mode, per WHATWG HTML §13.2.6 "tree construction
// dispatcher".
func (tb *TreeBuilder) shouldUseForeignContent(tok tokenizer.Token) bool {
	current := tb.currentElement()
	if current == nil || current.Namespace == dom.NamespaceHTML || tok.Type == tokenizer.EOF {
		return false
	}

	if tb.isMathMLTextIntegrationPoint(current) {
		switch {
		case tok.Type == tokenizer.Character:
			return false
		case tok.Type == tokenizer.StartTag && tok.Name != "mglyph" && tok.Name != "malignmark":
			return false
		}
	}

	if current.Namespace == dom.NamespaceMathML && strings.EqualFold(current.TagName, "annotation-xml") &&
		tok.Type == tokenizer.StartTag && tok.Name == "svg" {
		return false
	}

	if tb.isHTMLIntegrationPoint(current) && (tok.Type == tokenizer.Character || tok.Type == tokenizer.StartTag) {
		return false
	}

	return true
}

// processForeignContent dispatches a single token through the foreign
// content insertion rules. The bool result tells the caller to reprocess
// the token through the current (HTML) insertion mode instead.
func (tb *TreeBuilder) processForeignContent(tok tokenizer.Token) bool {
	if tb.currentElement() == nil {
		return false
	}

	switch tok.Type {
	case tokenizer.Character:
		return tb.foreignCharacter(tok)
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.StartTag:
		return tb.foreignStartTag(tok)
	case tokenizer.EndTag:
		return tb.foreignEndTag(tok)
	default:
		return false
	}
}

func (tb *TreeBuilder) foreignCharacter(tok tokenizer.Token) bool {
	if tok.Data == "" {
		return false
	}
	data := strings.ReplaceAll(tok.Data, "\x00", string('�'))
	if !isAllWhitespace(data) {
		tb.framesetOK = false
	}
	tb.insertText(data)
	return false
}

func (tb *TreeBuilder) foreignStartTag(tok tokenizer.Token) bool {
	if constants.ForeignBreakoutElements[tok.Name] || (tok.Name == "font" && hasFontBreakoutAttr(tok.Attrs)) {
		return tb.breakOutOfForeignContent()
	}

	namespace := tb.currentElement().Namespace
	name := tok.Name
	if namespace == dom.NamespaceSVG {
		name = adjustSVGTagName(tok.Name)
	}
	tb.insertForeignElement(name, namespace, adjustForeignAttributes(namespace, tok.Attrs), tok.SelfClosing)
	return false
}

func (tb *TreeBuilder) foreignEndTag(tok tokenizer.Token) bool {
	if tok.Name == "br" || tok.Name == "p" {
		return tb.breakOutOfForeignContent()
	}

	// Walk the stack of open elements from the top looking for a case-
	// insensitive match, per WHATWG HTML §13.2.6.5 "any other end tag".
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		node := tb.openElements[i]
		isHTML := node.Namespace == dom.NamespaceHTML

		if strings.EqualFold(node.TagName, tok.Name) {
			if tb.fragmentElement != nil && node == tb.fragmentElement {
				return false
			}
			if isHTML {
				// HTML-namespace match: let the current insertion mode
				// process the end tag instead.
				tb.forceHTMLMode = true
				return true
			}
			tb.openElements = tb.openElements[:i]
			return false
		}

		if isHTML {
			tb.forceHTMLMode = true
			return true
		}
	}
	return false
}

func (tb *TreeBuilder) breakOutOfForeignContent() bool {
	tb.popUntilHTMLOrIntegrationPoint()
	tb.resetInsertionModeAppropriately()
	tb.forceHTMLMode = true
	return true
}

func (tb *TreeBuilder) popUntilHTMLOrIntegrationPoint() {
	for len(tb.openElements) > 0 {
		node := tb.currentElement()
		if node == nil || node.Namespace == dom.NamespaceHTML || tb.isHTMLIntegrationPoint(node) {
			return
		}
		tb.popCurrent()
	}
}

func (tb *TreeBuilder) isHTMLIntegrationPoint(node *dom.Element) bool {
	if node == nil {
		return false
	}
	if node.Namespace == dom.NamespaceMathML && node.TagName == "annotation-xml" {
		enc, ok := node.Attributes.Get("encoding")
		if !ok {
			return false
		}
		switch strings.ToLower(enc) {
		case "text/html", "application/xhtml+xml":
			return true
		default:
			return false
		}
	}
	ip := constants.IntegrationPoint{Namespace: node.Namespace, LocalName: node.TagName}
	return constants.HTMLIntegrationPoints[ip]
}

func (tb *TreeBuilder) isMathMLTextIntegrationPoint(node *dom.Element) bool {
	if node == nil {
		return false
	}
	ip := constants.IntegrationPoint{Namespace: node.Namespace, LocalName: node.TagName}
	return constants.MathMLTextIntegrationPoints[ip]
}

// hasFontBreakoutAttr reports whether attrs carries one of the <font>
// attributes that forces a breakout of foreign content even though <font>
// isn't itself in ForeignBreakoutElements.
func hasFontBreakoutAttr(attrs []tokenizer.Attr) bool {
	for _, a := range attrs {
		switch strings.ToLower(a.Name) {
		case "color", "face", "size":
			return true
		}
	}
	return false
}

func adjustSVGTagName(name string) string {
	if adjusted, ok := constants.SVGTagNameAdjustments[strings.ToLower(name)]; ok {
		return adjusted
	}
	return name
}

// namespaceAttrAdjustments picks the per-namespace camelCase adjustment
// table (§13.2.6.5) for MathML and SVG, or nil for any other namespace.
func namespaceAttrAdjustments(namespace string) map[string]string {
	switch namespace {
	case dom.NamespaceMathML:
		return constants.MathMLAttributeAdjustments
	case dom.NamespaceSVG:
		return constants.SVGAttributeAdjustments
	default:
		return nil
	}
}

// adjustForeignAttributes applies, in order, the namespace-specific
// camelCase fixups and then the xlink/xml/xmlns namespace adjustments,
// producing the attribute list a foreign element is actually inserted with.
func adjustForeignAttributes(namespace string, attrs []tokenizer.Attr) []dom.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	nsAdjust := namespaceAttrAdjustments(namespace)

	out := make([]dom.Attribute, 0, len(attrs))
	for _, a := range attrs {
		name, value := a.Name, a.Value
		lower := strings.ToLower(name)
		adjustedName := name
		if adj, ok := nsAdjust[lower]; ok {
			adjustedName = adj
			lower = strings.ToLower(adjustedName)
		}

		if foreignAdj, ok := constants.ForeignAttributeAdjustments[lower]; ok {
			adjustedName = foreignAdj.LocalName
			if foreignAdj.Prefix != "" {
				adjustedName = foreignAdj.Prefix + ":" + foreignAdj.LocalName
			}
			out = append(out, dom.Attribute{Namespace: foreignAdj.NamespaceURL, Name: adjustedName, Value: value})
			continue
		}

		out = append(out, dom.Attribute{Name: adjustedName, Value: value})
	}
	return out
}

func (tb *TreeBuilder) insertForeignElement(name, namespace string, attrs []dom.Attribute, selfClosing bool) *dom.Element {
	el := dom.NewElementNS(name, namespace)
	for _, a := range attrs {
		el.Attributes.SetNS(a.Namespace, a.Name, a.Value)
	}
	tb.currentNode().AppendChild(el)
	if !selfClosing {
		tb.openElements = append(tb.openElements, el)
	}
	return el
}
