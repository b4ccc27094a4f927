package extract

import "strings"

// Template renders the replacement call for an already quoted key literal.
type Template func(quotedKey string) string

// Dialect identifies an extraction strategy.
type Dialect int

const (
	DialectNone Dialect = iota
	DialectScript
	DialectJSX
	DialectPHP
	DialectVue
)

func (d Dialect) String() string {
	switch d {
	case DialectScript:
		return "script"
	case DialectJSX:
		return "jsx"
	case DialectPHP:
		return "php"
	case DialectVue:
		return "vue"
	default:
		return "none"
	}
}

// Strategy decides whether a node can be extracted and how to rewrite it.
type Strategy interface {
	Dialect() Dialect
	// CanExtract must be false for literals that are already wrapped in a lookup call.
	CanExtract(n Node) bool
	// Text is the string to translate.
	Text(n Node) string
	// TextRange is the span of source replaced by the template output.
	TextRange(n Node) Range
	// Template builds the replacement call.
	Template(n Node) Template
}

// base holds the behavior shared by every dialect unless overridden.
type base struct{}

func (base) Text(n Node) string { return Unquote(n.Text()) }

func (base) TextRange(n Node) Range { return parentRange(n) }

func (base) Template(Node) Template { return wrap("i18n.t(", ")") }

func parentRange(n Node) Range {
	if p := n.Parent(); p != nil {
		return p.Range()
	}
	return n.Range()
}

func wrap(prefix, suffix string) Template {
	return func(key string) string { return prefix + key + suffix }
}

// Unquote strips one matching pair of ', " or ` from s. Anything else is returned unchanged.
func Unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first != last {
		return s
	}
	if strings.IndexByte("'\"`", first) < 0 {
		return s
	}
	return s[1 : len(s)-1]
}

// scriptStrategy handles string literals in plain JavaScript and TypeScript.
type scriptStrategy struct{ base }

func (scriptStrategy) Dialect() Dialect { return DialectScript }

func (scriptStrategy) CanExtract(n Node) bool {
	return n.Kind() == KindJSStringLiteral && !IsCallArgument(n.Parent(), "t", 0)
}

// jsxStrategy handles bare text inside JSX/TSX markup.
type jsxStrategy struct{ base }

func (jsxStrategy) Dialect() Dialect { return DialectJSX }

// CanExtract only accepts nodes whose enclosing tag has no nested tag. This is
// a heuristic: a tag wrapping other markup is rejected even when the node is
// plain text next to it.
func (jsxStrategy) CanExtract(n Node) bool {
	if ft := n.FileType(); ft != FileJSX && ft != FileTSX {
		return false
	}
	if tag := NearestAncestor(n, KindTag); tag != nil && FirstDescendant(tag, KindTag) != nil {
		return false
	}
	return !strings.HasPrefix(n.Text(), "i18n.t")
}

func (jsxStrategy) Text(n Node) string {
	texts := tagTexts(n)
	if len(texts) == 0 {
		return fallbackText(n)
	}
	parts := make([]string, len(texts))
	for i, t := range texts {
		parts[i] = t.Text()
	}
	return strings.Join(parts, " ")
}

func (jsxStrategy) TextRange(n Node) Range {
	texts := tagTexts(n)
	if len(texts) == 0 {
		return parentRange(n)
	}
	return Range{Start: texts[0].Range().Start, End: texts[len(texts)-1].Range().End}
}

// tagTexts returns the text-bearing children of the tag enclosing n.
func tagTexts(n Node) []Node {
	tag := NearestAncestor(n, KindTag)
	if tag == nil {
		return nil
	}
	return ChildrenOfKind(tag, KindText)
}

func fallbackText(n Node) string {
	if p := n.Parent(); p != nil {
		return p.Text()
	}
	return n.Text()
}

// phpStrategy handles quoted PHP strings.
type phpStrategy struct{ base }

func (phpStrategy) Dialect() Dialect { return DialectPHP }

func (phpStrategy) CanExtract(n Node) bool {
	k := n.Kind()
	return (k == KindPHPDoubleQuoted || k == KindPHPSingleQuoted) && !IsCallArgument(n.Parent(), "t", 0)
}

func (phpStrategy) Template(Node) Template { return wrap("t(", ")") }

// vueStrategy handles Vue single-file components and plain scripts in Vue projects.
type vueStrategy struct{ base }

func (vueStrategy) Dialect() Dialect { return DialectVue }

func (vueStrategy) CanExtract(n Node) bool {
	if l := n.Language(); l == LanguageVueJS || l == LanguageJavaScript {
		return !IsCallArgument(n.Parent(), "$t", 0)
	}
	return n.FileType() == FileVue && !strings.HasPrefix(n.Text(), "$t")
}

func (vueStrategy) Text(n Node) string {
	return Unquote(vueTarget(n).Text())
}

func (vueStrategy) TextRange(n Node) Range {
	if isVueText(n) && n.Parent() != nil {
		return n.Parent().Range()
	}
	return parentRange(n)
}

func (vueStrategy) Template(n Node) Template {
	switch {
	case isVueScript(n):
		return wrap("this.$t(", ")")
	case n.FileType() == FileVue:
		return wrap("{{ $t(", ") }}")
	default:
		return wrap("$t(", ")")
	}
}

// vueTarget resolves whitespace and markup tokens to the node that owns the text.
func vueTarget(n Node) Node {
	if isVueText(n) && n.Parent() != nil {
		return n.Parent()
	}
	return n
}

func isVueText(n Node) bool {
	return n.Kind() == KindWhitespace || n.Kind() == KindXMLToken
}

func isVueScript(n Node) bool {
	if n.FileType() != FileVue {
		return false
	}
	return FindAncestor(n, func(p Node) bool {
		return p.Kind() == KindTag && p.Name() == "script"
	}) != nil
}

// noopStrategy is selected when no dialect applies.
type noopStrategy struct{ base }

func (noopStrategy) Dialect() Dialect { return DialectNone }

func (noopStrategy) CanExtract(Node) bool { return false }
