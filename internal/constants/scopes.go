package constants

// Scope terminators for the tree builder.
// These define which elements terminate various scopes during parsing, per
// WHATWG HTML5 §13.2.4.2 "the stack of open elements". Several scopes share
// the same foreign-content terminator set (MathML text-integration points
// and SVG's foreignObject/desc/title), so that set is factored out and
// merged into each HTML-side terminator list by newScope.

var foreignScopeBoundary = []string{
	"mi", "mo", "mn", "ms", "mtext", "annotation-xml",
	"foreignObject", "desc", "title",
}

func newScope(htmlTags ...string) map[string]bool {
	s := make(map[string]bool, len(htmlTags)+len(foreignScopeBoundary))
	for _, tag := range htmlTags {
		s[tag] = true
	}
	for _, tag := range foreignScopeBoundary {
		s[tag] = true
	}
	return s
}

// DefaultScope elements terminate the default scope.
var DefaultScope = newScope("applet", "caption", "html", "table", "td", "th", "marquee", "object", "template")

// ListItemScope elements terminate list item scope.
var ListItemScope = newScope("applet", "caption", "html", "table", "td", "th", "marquee", "object", "template", "ol", "ul")

// ButtonScope elements terminate button scope.
var ButtonScope = newScope("applet", "caption", "html", "table", "td", "th", "marquee", "object", "template", "button")

// TableScope elements terminate table scope.
var TableScope = map[string]bool{
	"html":     true,
	"table":    true,
	"template": true,
}

// TableBodyScope elements terminate table body scope.
var TableBodyScope = map[string]bool{
	"html":     true,
	"table":    true,
	"template": true,
	"tbody":    true,
	"tfoot":    true,
	"thead":    true,
}

// TableRowScope elements terminate table row scope.
var TableRowScope = map[string]bool{
	"html":     true,
	"table":    true,
	"template": true,
	"tbody":    true,
	"tfoot":    true,
	"thead":    true,
	"tr":       true,
}

// SelectScope elements are NOT scope terminators for select (everything except these).
var SelectScope = map[string]bool{
	"optgroup": true,
	"option":   true,
}
