package css

import (
	"strings"
)

// Node is a node of a stylesheet tree. The set of implementations is closed: only types in this package are nodes.
type Node interface {
	// String returns the minimal exact serialization.
	String() string

	// Pretty returns a human readable serialization. Block nodes are indented by depth levels and end with a newline, inline nodes ignore depth.
	Pretty(depth int) string

	// Optimize returns the optimized node, which may be of a different type. It returns false when the node must be removed from its parent. Callers must use the returned node and discard the receiver.
	Optimize(ctx Context) (Node, bool)

	node()
}

// Decl is a member of a declaration block.
type Decl interface {
	Node
	Ident() string
}

func (*Stylesheet) node()             {}
func (*Charset) node()                {}
func (*Import) node()                 {}
func (*Namespace) node()              {}
func (*Media) node()                  {}
func (*MediaQuery) node()             {}
func (*MediaExpression) node()        {}
func (*Supports) node()               {}
func (*SupportsConditionList) node()  {}
func (*SupportsCondition) node()      {}
func (*Page) node()                   {}
func (*PageMargin) node()             {}
func (*FontFace) node()               {}
func (*FontFeatureValues) node()      {}
func (*FontFeatureValuesBlock) node() {}
func (*Keyframes) node()              {}
func (*Keyframe) node()               {}
func (*KeyframeSelector) node()       {}
func (*Viewport) node()               {}
func (*CounterStyle) node()           {}
func (*Ruleset) node()                {}
func (*SelectorList) node()           {}
func (*SimpleSelector) node()         {}
func (*Combinator) node()             {}
func (*IDSelector) node()             {}
func (*ClassSelector) node()          {}
func (*ElementSelector) node()        {}
func (*AttributeSelector) node()      {}
func (*PseudoElementSelector) node()  {}
func (*PseudoClassSelector) node()    {}
func (*PseudoSelectorFunction) node() {}
func (*NotSelector) node()            {}
func (*SelectorFunction) node()       {}
func (*NthSelector) node()            {}
func (*LinearFunction) node()         {}
func (*NValue) node()                 {}
func (*Declaration) node()            {}
func (*IEFilter) node()               {}
func (*Expression) node()             {}
func (*Dimension) node()              {}
func (*Func) node()                   {}
func (*MathSum) node()                {}
func (*MathProduct) node()            {}
func (*HexColor) node()               {}
func (*Number) node()                 {}
func (*String) node()                 {}
func (*URI) node()                    {}
func (*Ident) node()                  {}

////////////////////////////////////////////////////////////////

// defaultIndent is the number of spaces per nesting level written by Pretty.
const defaultIndent = 2

func indent(depth int) string {
	return strings.Repeat(" ", defaultIndent*depth)
}

// reindent rewrites the leading indentation of pretty printed text to width spaces per nesting level.
func reindent(s string, width int) string {
	if width == defaultIndent {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		n := len(line) - len(strings.TrimLeft(line, " "))
		lines[i] = strings.Repeat(" ", n/defaultIndent*width) + line[n:]
	}
	return strings.Join(lines, "\n")
}

func writeDecls(sb *strings.Builder, decls []Decl) {
	for i, decl := range decls {
		if i != 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(decl.String())
	}
}

func writeNodes(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		sb.WriteString(n.String())
	}
}

// block writes header{decls;rules}.
func block(header string, decls []Decl, rules []Node) string {
	sb := strings.Builder{}
	sb.WriteString(header)
	sb.WriteByte('{')
	writeDecls(&sb, decls)
	if 0 < len(decls) && 0 < len(rules) {
		sb.WriteByte(';')
	}
	writeNodes(&sb, rules)
	sb.WriteByte('}')
	return sb.String()
}

func prettyBlock(header string, depth int, decls []Decl, rules []Node) string {
	sb := strings.Builder{}
	sb.WriteString(indent(depth))
	sb.WriteString(header)
	sb.WriteString(" {\n")
	for _, decl := range decls {
		sb.WriteString(indent(depth + 1))
		sb.WriteString(decl.Pretty(depth + 1))
		sb.WriteString(";\n")
	}
	for _, rule := range rules {
		sb.WriteString(rule.Pretty(depth + 1))
	}
	sb.WriteString(indent(depth))
	sb.WriteString("}\n")
	return sb.String()
}

func joinNodes(nodes []Node, sep string) string {
	sb := strings.Builder{}
	for i, n := range nodes {
		if i != 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(n.String())
	}
	return sb.String()
}

func joinPretty(nodes []Node, sep string) string {
	sb := strings.Builder{}
	for i, n := range nodes {
		if i != 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(n.Pretty(0))
	}
	return sb.String()
}

////////////////////////////////////////////////////////////////

// Stylesheet is the root of a tree.
type Stylesheet struct {
	Charset    *Charset
	Imports    []*Import
	Namespaces []*Namespace
	Content    []Node
}

func (s *Stylesheet) String() string {
	sb := strings.Builder{}
	if s.Charset != nil {
		sb.WriteString(s.Charset.String())
	}
	for _, imp := range s.Imports {
		sb.WriteString(imp.String())
	}
	for _, ns := range s.Namespaces {
		sb.WriteString(ns.String())
	}
	writeNodes(&sb, s.Content)
	return sb.String()
}

func (s *Stylesheet) Pretty(depth int) string {
	sb := strings.Builder{}
	if s.Charset != nil {
		sb.WriteString(s.Charset.Pretty(depth))
	}
	for _, imp := range s.Imports {
		sb.WriteString(imp.Pretty(depth))
	}
	for _, ns := range s.Namespaces {
		sb.WriteString(ns.Pretty(depth))
	}
	for _, n := range s.Content {
		sb.WriteString(n.Pretty(depth))
	}
	return sb.String()
}

// Optimize optimizes the stylesheet in place. A stylesheet is never removed.
func (s *Stylesheet) Optimize(ctx Context) (Node, bool) {
	if s.Charset != nil {
		s.Charset.Optimize(ctx)
	}
	imports := s.Imports[:0]
	seen := map[string]bool{}
	for _, imp := range s.Imports {
		if n, ok := imp.Optimize(ctx); ok {
			imp = n.(*Import)
			if key := imp.String(); !seen[key] {
				seen[key] = true
				imports = append(imports, imp)
			}
		}
	}
	s.Imports = imports
	for _, ns := range s.Namespaces {
		ns.Optimize(ctx)
	}
	s.Content = optimizeBlocks(s.Content, ctx)
	return s, true
}

////////////////////////////////////////////////////////////////

type Charset struct {
	Charset *String
}

func (c *Charset) String() string {
	// only double quotes are valid
	return `@charset "` + c.Charset.Value + `";`
}

func (c *Charset) Pretty(depth int) string {
	return indent(depth) + c.String() + "\n"
}

func (c *Charset) Optimize(ctx Context) (Node, bool) {
	return c, true
}

////////////////////////////////////////////////////////////////

// Import is an @import rule, URI is either a *String or a *URI.
type Import struct {
	URI   Node
	Media []*MediaQuery
}

func (imp *Import) String() string {
	sb := strings.Builder{}
	sb.WriteString("@import ")
	sb.WriteString(imp.URI.String())
	for i, q := range imp.Media {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteByte(',')
		}
		sb.WriteString(q.String())
	}
	sb.WriteByte(';')
	return sb.String()
}

func (imp *Import) Pretty(depth int) string {
	sb := strings.Builder{}
	sb.WriteString(indent(depth))
	sb.WriteString("@import ")
	sb.WriteString(imp.URI.Pretty(depth))
	for i, q := range imp.Media {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(q.Pretty(depth))
	}
	sb.WriteString(";\n")
	return sb.String()
}

func (imp *Import) Optimize(ctx Context) (Node, bool) {
	// @import accepts a bare string, which never needs url()
	if uri, ok := imp.URI.(*URI); ok {
		imp.URI = &String{uri.URI}
	}
	imp.Media = optimizeMediaQueries(imp.Media, ctx)
	return imp, true
}

////////////////////////////////////////////////////////////////

// Namespace is an @namespace rule, Name is empty for the default namespace.
type Namespace struct {
	URI  Node
	Name string
}

func (ns *Namespace) String() string {
	if ns.Name == "" {
		return "@namespace " + ns.URI.String() + ";"
	}
	return "@namespace " + ns.Name + " " + ns.URI.String() + ";"
}

func (ns *Namespace) Pretty(depth int) string {
	return indent(depth) + ns.String() + "\n"
}

func (ns *Namespace) Optimize(ctx Context) (Node, bool) {
	if n, ok := ns.URI.Optimize(ctx); ok {
		ns.URI = n
	}
	return ns, true
}
