package constants

// Package-level string interning for common HTML tag and attribute names.
// This reduces memory allocations during parsing by reusing pre-allocated
// strings: each entry in the name lists below becomes a map key and value
// that return the exact same backing array, so InternTagName/
// InternAttributeName let a hot parse loop skip allocating a fresh string
// for names it's already seen many times.

// commonTagNameList enumerates the HTML tag names CommonTagNames interns.
var commonTagNameList = []string{
	// Document structure
	"html", "head", "body", "title", "meta", "link", "style",
	// Sectioning
	"header", "footer", "nav", "section", "article", "aside", "main",
	// Text content
	"div", "p", "span", "h1", "h2", "h3", "h4", "h5", "h6",
	"blockquote", "pre", "code",
	// Lists
	"ul", "ol", "li", "dl", "dt", "dd",
	// Tables
	"table", "thead", "tbody", "tfoot", "tr", "th", "td",
	"caption", "colgroup", "col",
	// Forms
	"form", "input", "button", "select", "option", "textarea",
	"label", "fieldset", "legend",
	// Media
	"img", "video", "audio", "source", "track", "canvas", "svg",
	// Interactive
	"a", "script", "noscript", "iframe",
	// Text formatting
	"b", "i", "u", "s", "em", "strong", "small", "mark", "del", "ins", "sub", "sup",
	// Other common elements
	"br", "hr", "template", "slot", "base",
}

// commonAttributeNameList enumerates the attribute names CommonAttributeNames interns.
var commonAttributeNameList = []string{
	// Global attributes
	"id", "class", "style", "title", "lang", "dir",
	// Data attributes (common patterns)
	"data-id", "data-name", "data-value",
	// Link attributes
	"href", "rel", "target", "type",
	// Media attributes
	"src", "alt", "width", "height",
	// Form attributes
	"name", "value", "placeholder", "disabled", "readonly", "required",
	"checked", "selected", "action", "method", "for",
	// Interactive attributes
	"onclick", "onchange", "onsubmit", "onload", "tabindex", "aria-label", "role",
	// Meta attributes
	"content", "charset", "property",
	// Other common attributes
	"hidden", "data", "download", "enctype", "accept", "autocomplete",
	"autofocus", "maxlength", "minlength", "pattern", "multiple", "size",
	"min", "max", "step", "colspan", "rowspan", "scope", "headers",
}

func internTable(names []string) map[string]string {
	m := make(map[string]string, len(names))
	for _, name := range names {
		m[name] = name
	}
	return m
}

// CommonTagNames contains the most frequently used HTML tag names.
// These are pre-allocated to avoid repeated string allocations during tokenization.
var CommonTagNames = internTable(commonTagNameList)

// CommonAttributeNames contains the most frequently used HTML attribute names.
// These are pre-allocated to avoid repeated string allocations during tokenization.
var CommonAttributeNames = internTable(commonAttributeNameList)

// InternTagName returns an interned version of the tag name if it's a common tag,
// otherwise returns the original string.
func InternTagName(name string) string {
	if interned, ok := CommonTagNames[name]; ok {
		return interned
	}
	return name
}

// InternAttributeName returns an interned version of the attribute name if it's a common attribute,
// otherwise returns the original string.
func InternAttributeName(name string) string {
	if interned, ok := CommonAttributeNames[name]; ok {
		return interned
	}
	return name
}
