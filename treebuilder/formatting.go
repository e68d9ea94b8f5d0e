package treebuilder

import (
	"sort"
	"strings"

	"github.com/corvidml/corvid/dom"
	"github.com/corvidml/corvid/tokenizer"
)

// formattingEntry is one slot in the list of active formatting elements
// (§13.2.5.2): either a marker (inserted at the boundary of a <button>,
// table cell, etc.) or a real formatting element alongside the attributes
// it was opened with, so duplicates can be detected by signature (§13.2.5.2
// "Noah's Ark clause") and reconstructed element-for-element later.
type formattingEntry struct {
	marker    bool
	name      string
	attrs     []tokenizer.Attr
	node      *dom.Element
	signature string
}

func (tb *TreeBuilder) pushFormattingMarker() {
	tb.activeFormatting = append(tb.activeFormatting, formattingEntry{marker: true})
}

func (tb *TreeBuilder) clearActiveFormattingUpToMarker() {
	for len(tb.activeFormatting) > 0 {
		last := tb.activeFormatting[len(tb.activeFormatting)-1]
		tb.activeFormatting = tb.activeFormatting[:len(tb.activeFormatting)-1]
		if last.marker {
			return
		}
	}
}

func (tb *TreeBuilder) appendActiveFormattingEntry(name string, attrs []tokenizer.Attr, node *dom.Element) {
	entryAttrs := cloneTokenAttrs(attrs)
	tb.activeFormatting = append(tb.activeFormatting, formattingEntry{
		name:      name,
		attrs:     entryAttrs,
		node:      node,
		signature: attrsSignature(entryAttrs),
	})
}

// lastFormattingEntryBefore scans the active formatting list from the tail,
// stopping at the nearest marker, and returns the index of the first entry
// satisfying match. It underlies every "last matching formatting element
// since the last marker" lookup the adoption agency algorithm needs.
func (tb *TreeBuilder) lastFormattingEntryBefore(match func(formattingEntry) bool) (int, bool) {
	for i := len(tb.activeFormatting) - 1; i >= 0; i-- {
		entry := tb.activeFormatting[i]
		if entry.marker {
			return -1, false
		}
		if match(entry) {
			return i, true
		}
	}
	return -1, false
}

func (tb *TreeBuilder) findActiveFormattingIndex(name string) (int, bool) {
	return tb.lastFormattingEntryBefore(func(e formattingEntry) bool { return e.name == name })
}

func (tb *TreeBuilder) findActiveFormattingIndexByNode(node *dom.Element) (int, bool) {
	for i := len(tb.activeFormatting) - 1; i >= 0; i-- {
		entry := tb.activeFormatting[i]
		if !entry.marker && entry.node == node {
			return i, true
		}
	}
	return -1, false
}

// findActiveFormattingDuplicate implements the Noah's Ark clause: if three
// formatting elements with the same name and attribute signature already
// sit between the insertion point and the last marker, the earliest of them
// is reported so the caller can remove it before inserting a fourth.
func (tb *TreeBuilder) findActiveFormattingDuplicate(name string, attrs []tokenizer.Attr) (int, bool) {
	sig := attrsSignature(attrs)
	var matches []int
	for i, entry := range tb.activeFormatting {
		if entry.marker {
			matches = matches[:0]
			continue
		}
		if entry.name == name && entry.signature == sig {
			matches = append(matches, i)
		}
	}
	if len(matches) >= 3 {
		return matches[0], true
	}
	return -1, false
}

func (tb *TreeBuilder) hasActiveFormattingEntry(name string) bool {
	_, ok := tb.findActiveFormattingIndex(name)
	return ok
}

// removeAt deletes the element at index from s, preserving order.
func removeAt[T any](s []T, index int) []T {
	if index < 0 || index >= len(s) {
		return s
	}
	copy(s[index:], s[index+1:])
	return s[:len(s)-1]
}

func (tb *TreeBuilder) removeFormattingEntry(index int) {
	tb.activeFormatting = removeAt(tb.activeFormatting, index)
}

func (tb *TreeBuilder) removeLastActiveFormattingByName(name string) {
	if i, ok := tb.findActiveFormattingIndex(name); ok {
		tb.removeFormattingEntry(i)
	}
}

func (tb *TreeBuilder) removeLastOpenElementByName(name string) {
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		if tb.openElements[i].TagName == name {
			tb.openElements = removeAt(tb.openElements, i)
			return
		}
	}
}

// reconstructActiveFormattingElements implements §13.2.5.2.1: walk back
// through the active formatting list to the first entry already present on
// the stack of open elements (or the last marker), then re-insert every
// entry after that point as a fresh clone, in order.
func (tb *TreeBuilder) reconstructActiveFormattingElements() {
	if len(tb.activeFormatting) == 0 {
		return
	}
	last := tb.activeFormatting[len(tb.activeFormatting)-1]
	if last.marker || tb.elementInOpenElements(last.node) {
		return
	}

	index := len(tb.activeFormatting) - 1
	for {
		index--
		if index < 0 {
			index = 0
			break
		}
		entry := tb.activeFormatting[index]
		if entry.marker || tb.elementInOpenElements(entry.node) {
			index++
			break
		}
	}

	for index < len(tb.activeFormatting) {
		entry := tb.activeFormatting[index]
		el := tb.insertElement(entry.name, cloneTokenAttrs(entry.attrs))
		tb.activeFormatting[index].node = el
		index++
	}
}

func (tb *TreeBuilder) elementInOpenElements(node *dom.Element) bool {
	for _, el := range tb.openElements {
		if el == node {
			return true
		}
	}
	return false
}

func cloneTokenAttrs(attrs []tokenizer.Attr) []tokenizer.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]tokenizer.Attr, len(attrs))
	copy(out, attrs)
	return out
}

// attrsSignature builds a stable, order-independent key for an attribute
// set (HTML-namespace attributes only) so two formatting elements opened
// with the same tag and attributes compare equal for the Noah's Ark clause.
func attrsSignature(attrs []tokenizer.Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	values := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Namespace != "" {
			continue
		}
		keys = append(keys, a.Name)
		values[a.Name] = a.Value
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(values[k])
		sb.WriteByte(0)
	}
	return sb.String()
}
