package dom

// leafNode holds the Parent/SetParent bookkeeping and no-op child-mutation
// methods shared by every childless node kind (Text, Comment): the tree
// constructor never inserts into either, so AppendChild/InsertBefore/
// RemoveChild are satisfied but inert.
type leafNode struct {
	parent Node
}

func (l *leafNode) Parent() Node           { return l.parent }
func (l *leafNode) SetParent(parent Node)  { l.parent = parent }
func (l *leafNode) Children() []Node       { return nil }
func (l *leafNode) AppendChild(_ Node)     {}
func (l *leafNode) InsertBefore(_, _ Node) {}
func (l *leafNode) RemoveChild(_ Node)     {}
func (l *leafNode) ReplaceChild(_, _ Node) Node { return nil }
func (l *leafNode) HasChildNodes() bool    { return false }

// Text represents a text node.
type Text struct {
	leafNode

	// Data is the text content.
	Data string
}

// NewText creates a new text node.
func NewText(data string) *Text {
	return &Text{Data: data}
}

// Type implements Node.
func (t *Text) Type() NodeType {
	return TextNodeType
}

// Clone implements Node.
func (t *Text) Clone(_ bool) Node {
	return &Text{Data: t.Data}
}

// Comment represents a comment node.
type Comment struct {
	leafNode

	// Data is the comment content (without <!-- and -->).
	Data string
}

// NewComment creates a new comment node.
func NewComment(data string) *Comment {
	return &Comment{Data: data}
}

// Type implements Node.
func (c *Comment) Type() NodeType {
	return CommentNodeType
}

// Clone implements Node.
func (c *Comment) Clone(_ bool) Node {
	return &Comment{Data: c.Data}
}
