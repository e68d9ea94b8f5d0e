package treebuilder

import (
	"github.com/corvidml/corvid/dom"
	"github.com/corvidml/corvid/internal/constants"
)

// runAdoptionAgency relocates a misnested formatting element underneath the
// "furthest block" that closed over it, per the adoption agency algorithm
// (WHATWG HTML §13.2.5.2.5): up to 8 outer passes, each with an inner walk
// up the stack of open elements that drops formatting entries met after its
// third step.
func (tb *TreeBuilder) runAdoptionAgency(subject string) {
	if cur := tb.currentElement(); cur != nil && cur.TagName == subject && !tb.hasActiveFormattingEntry(subject) {
		tb.popUntil(subject)
		return
	}

	for outer := 0; outer < 8; outer++ {
		afIdx, ok := tb.findActiveFormattingIndex(subject)
		if !ok {
			return
		}
		subjectEl := tb.activeFormatting[afIdx].node
		if subjectEl == nil {
			tb.removeFormattingEntry(afIdx)
			return
		}

		openIdx, ok := tb.indexOfOpenElement(subjectEl)
		if !ok {
			tb.removeFormattingEntry(afIdx)
			return
		}
		if !tb.hasElementInScope(subjectEl.TagName, constants.DefaultScope) {
			return
		}

		farBlock := firstSpecialElementAfter(tb.openElements, openIdx)
		if farBlock == nil {
			tb.popThrough(subjectEl)
			tb.removeFormattingEntry(afIdx)
			return
		}

		bookmark := afIdx + 1
		cur := farBlock
		lastInserted := farBlock

		for loopCount := 0; ; {
			loopCount++

			curIdx, ok := tb.indexOfOpenElement(cur)
			if !ok || curIdx == 0 {
				return
			}
			cur = tb.openElements[curIdx-1]
			if cur == subjectEl {
				break
			}

			curAFIdx, curHasEntry := tb.findActiveFormattingIndexByNode(cur)
			if loopCount > 3 && curHasEntry {
				tb.removeFormattingEntry(curAFIdx)
				if curAFIdx < bookmark {
					bookmark--
				}
				curHasEntry = false
			}

			if !curHasEntry {
				idx, ok := tb.indexOfOpenElement(cur)
				if !ok {
					return
				}
				tb.removeOpenElementAt(idx)
				if idx < len(tb.openElements) {
					cur = tb.openElements[idx]
				}
				continue
			}

			clone := tb.cloneFormattingEntry(curAFIdx)
			tb.openElements[tb.mustIndexOfOpenElement(cur)] = clone
			cur = clone

			if lastInserted == farBlock {
				bookmark = curAFIdx + 1
			}
			detachAndAppend(cur, lastInserted)
			lastInserted = cur
		}

		ancestorEl := tb.openElements[openIdx-1]
		if p := lastInserted.Parent(); p != nil {
			p.RemoveChild(lastInserted)
		}
		if tableContextNeedsFosterParent(ancestorEl) {
			tb.insertFosterNode(lastInserted)
		} else {
			ancestorEl.AppendChild(lastInserted)
		}

		newSubjectEl := tb.cloneFormattingEntry(afIdx)
		moveAllChildren(farBlock, newSubjectEl)
		farBlock.AppendChild(newSubjectEl)

		tb.relocateFormattingEntry(afIdx, bookmark)

		if idx, ok := tb.indexOfOpenElement(subjectEl); ok {
			tb.removeOpenElementAt(idx)
		}
		farIdx := tb.mustIndexOfOpenElement(farBlock)
		tb.insertOpenElementAt(farIdx+1, newSubjectEl)
	}
}

// cloneFormattingEntry creates a fresh element carrying the name and
// attributes recorded at activeFormatting[idx] and installs it as that
// entry's node, matching the "create an element for the token... and
// replace the entry" step used twice by the adoption agency algorithm.
func (tb *TreeBuilder) cloneFormattingEntry(idx int) *dom.Element {
	entry := tb.activeFormatting[idx]
	clone := dom.NewElement(entry.name)
	for _, attr := range entry.attrs {
		clone.SetAttr(attr.Name, attr.Value)
	}
	tb.activeFormatting[idx].node = clone
	return clone
}

// relocateFormattingEntry removes the entry at idx and reinserts it at
// bookmark, accounting for the index shift the removal causes.
func (tb *TreeBuilder) relocateFormattingEntry(idx, bookmark int) {
	moved := tb.activeFormatting[idx]
	tb.removeFormattingEntry(idx)
	bookmark--
	if bookmark < 0 {
		bookmark = 0
	}
	if bookmark > len(tb.activeFormatting) {
		bookmark = len(tb.activeFormatting)
	}
	tb.activeFormatting = append(tb.activeFormatting, formattingEntry{})
	copy(tb.activeFormatting[bookmark+1:], tb.activeFormatting[bookmark:])
	tb.activeFormatting[bookmark] = moved
}

// popThrough pops the stack of open elements until target itself has been
// popped.
func (tb *TreeBuilder) popThrough(target *dom.Element) {
	for len(tb.openElements) > 0 {
		if tb.popCurrent() == target {
			return
		}
	}
}

func firstSpecialElementAfter(stack []*dom.Element, idx int) *dom.Element {
	for i := idx + 1; i < len(stack); i++ {
		if elementIsSpecial(stack[i]) {
			return stack[i]
		}
	}
	return nil
}

func moveAllChildren(src, dst *dom.Element) {
	for {
		children := src.Children()
		if len(children) == 0 {
			return
		}
		child := children[0]
		src.RemoveChild(child)
		dst.AppendChild(child)
	}
}

func detachAndAppend(dst *dom.Element, child dom.Node) {
	if p := child.Parent(); p != nil {
		p.RemoveChild(child)
	}
	dst.AppendChild(child)
}

func elementIsSpecial(el *dom.Element) bool {
	if el == nil || el.Namespace != dom.NamespaceHTML {
		return false
	}
	return constants.SpecialElements[el.TagName]
}

func tableContextNeedsFosterParent(ancestor *dom.Element) bool {
	if ancestor == nil {
		return false
	}
	switch ancestor.TagName {
	case "table", "tbody", "tfoot", "thead", "tr":
		return true
	default:
		return false
	}
}

// insertFosterNode places node at the appropriate foster-parenting location
// (§4.3.1), reusing the same table/template-aware search the rest of the
// tree constructor uses for foster-parented character data.
func (tb *TreeBuilder) insertFosterNode(node dom.Node) {
	parent, before := tb.fosterInsertionLocation()
	if before != nil {
		parent.InsertBefore(node, before)
		return
	}
	parent.AppendChild(node)
}

func (tb *TreeBuilder) indexOfOpenElement(target *dom.Element) (int, bool) {
	for i, el := range tb.openElements {
		if el == target {
			return i, true
		}
	}
	return -1, false
}

func (tb *TreeBuilder) mustIndexOfOpenElement(target *dom.Element) int {
	idx, ok := tb.indexOfOpenElement(target)
	if !ok {
		panic("treebuilder: expected element on open element stack")
	}
	return idx
}

func (tb *TreeBuilder) removeOpenElementAt(index int) {
	if index < 0 || index >= len(tb.openElements) {
		return
	}
	copy(tb.openElements[index:], tb.openElements[index+1:])
	tb.openElements = tb.openElements[:len(tb.openElements)-1]
}

func (tb *TreeBuilder) insertOpenElementAt(index int, el *dom.Element) {
	if index < 0 {
		index = 0
	}
	if index > len(tb.openElements) {
		index = len(tb.openElements)
	}
	tb.openElements = append(tb.openElements, nil)
	copy(tb.openElements[index+1:], tb.openElements[index:])
	tb.openElements[index] = el
}
