package extract

// Kind is the type tag of a syntax node, as classified by the host parser.
type Kind string

const (
	KindFile            Kind = "FILE"
	KindJSStringLiteral Kind = "JS:STRING_LITERAL"
	KindPHPDoubleQuoted Kind = "double quoted string"
	KindPHPSingleQuoted Kind = "single quoted string"
	KindExpression      Kind = "EXPRESSION"
	KindCall            Kind = "CALL"
	KindArguments       Kind = "ARGUMENTS"
	KindTag             Kind = "XML_TAG"
	KindText            Kind = "XML_TEXT"
	KindXMLToken        Kind = "XML_TOKEN"
	KindWhitespace      Kind = "WHITE_SPACE"
	KindPunctuation     Kind = "PUNCTUATION"
	KindIdentifier      Kind = "IDENTIFIER"
)

// FileType is the dialect of the file containing a node.
type FileType string

const (
	FileOther FileType = ""
	FileJS    FileType = "js"
	FileTS    FileType = "ts"
	FileJSX   FileType = "jsx"
	FileTSX   FileType = "tsx"
	FilePHP   FileType = "php"
	FileVue   FileType = "vue"
)

// Language is the language a node itself belongs to. Inside a Vue file, script
// blocks and template expressions carry their own language.
type Language string

const (
	LanguageOther      Language = ""
	LanguageJavaScript Language = "javascript"
	LanguageVueJS      Language = "vuejs"
	LanguageHTML       Language = "html"
	LanguagePHP        Language = "php"
)

// Range is a half-open span of byte offsets into the source text.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether offset falls inside the range.
func (r Range) Contains(offset int) bool { return offset >= r.Start && offset < r.End }

// Node is the view of a parsed syntax tree the extraction core needs.
// The host supplies the implementation.
type Node interface {
	Kind() Kind
	// Name is the tag name for markup tags and the callee name for calls.
	Name() string
	Text() string
	Range() Range
	// Parent returns nil for the root node.
	Parent() Node
	Children() []Node
	Language() Language
	FileType() FileType
}

// NearestAncestor returns the closest strict ancestor of n with the given kind.
func NearestAncestor(n Node, kind Kind) Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == kind {
			return p
		}
	}
	return nil
}

// FindAncestor returns the closest strict ancestor of n accepted by match.
func FindAncestor(n Node, match func(Node) bool) Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if match(p) {
			return p
		}
	}
	return nil
}

// FirstDescendant returns the first strict descendant of n with the given kind,
// in depth-first pre-order.
func FirstDescendant(n Node, kind Kind) Node {
	for _, c := range n.Children() {
		if c.Kind() == kind {
			return c
		}
		if d := FirstDescendant(c, kind); d != nil {
			return d
		}
	}
	return nil
}

// ChildrenOfKind returns the direct children of n with the given kind.
func ChildrenOfKind(n Node, kind Kind) []Node {
	var out []Node
	for _, c := range n.Children() {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// IsCallArgument reports whether expr is the argument at index of a call to callee.
// The expected shape is call -> arguments -> expr; whitespace and punctuation
// children of the argument list are not counted.
func IsCallArgument(expr Node, callee string, index int) bool {
	if expr == nil {
		return false
	}
	args := expr.Parent()
	if args == nil || args.Kind() != KindArguments {
		return false
	}
	call := args.Parent()
	if call == nil || call.Kind() != KindCall || call.Name() != callee {
		return false
	}
	i := 0
	for _, c := range args.Children() {
		if c.Kind() == KindWhitespace || c.Kind() == KindPunctuation {
			continue
		}
		if i == index {
			return c == expr
		}
		i++
	}
	return false
}
