package css

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"github.com/tdewolff/cssopt"
)

var starHTMLRegexp = regexp.MustCompile(`\* html($| .+)`)

// Ruleset is a style rule, Selector is a *SelectorList or a single selector.
type Ruleset struct {
	Selector Node
	Content  []Decl
}

func (r *Ruleset) String() string {
	return block(r.Selector.String(), r.Content, nil)
}

func (r *Ruleset) Pretty(depth int) string {
	return prettyBlock(prettySelector(r.Selector, depth), depth, r.Content, nil)
}

// body returns the serialized declarations.
func (r *Ruleset) body() string {
	sb := strings.Builder{}
	writeDecls(&sb, r.Content)
	return sb.String()
}

func (r *Ruleset) Optimize(ctx Context) (Node, bool) {
	if _, ok := r.Selector.(*SelectorList); !ok && !ctx.SaveIE && starHTMLRegexp.MatchString(r.Selector.String()) {
		ctx.log().Debug("remove IE hack", zap.String("selector", r.Selector.String()))
		return nil, false
	}
	sel, ok := r.Selector.Optimize(ctx)
	if !ok {
		return nil, false
	}
	r.Selector = sel
	r.Content = optimizeDeclarations(r.Content, ctx)
	if len(r.Content) == 0 {
		return nil, false
	}
	return r, true
}

// selectors returns the selectors of the ruleset as a list.
func (r *Ruleset) selectors() []Node {
	if list, ok := r.Selector.(*SelectorList); ok {
		return list.Selectors
	}
	return []Node{r.Selector}
}

func prettySelector(sel Node, depth int) string {
	if list, ok := sel.(*SelectorList); ok {
		return list.prettyList(depth)
	}
	return sel.Pretty(depth)
}

////////////////////////////////////////////////////////////////

// SelectorList is a comma separated list of at least two selectors.
type SelectorList struct {
	Selectors []Node
}

// NewSelectorList returns a selector list, or the selector itself when there is only one.
func NewSelectorList(selectors []Node) Node {
	if len(selectors) == 1 {
		return selectors[0]
	}
	return &SelectorList{selectors}
}

func (l *SelectorList) String() string {
	return joinNodes(l.Selectors, ",")
}

func (l *SelectorList) Pretty(depth int) string {
	return l.prettyList(depth)
}

func (l *SelectorList) prettyList(depth int) string {
	if len(l.String()) < 80 {
		return joinPretty(l.Selectors, ", ")
	}
	return joinPretty(l.Selectors, ",\n"+indent(depth))
}

func (l *SelectorList) Optimize(ctx Context) (Node, bool) {
	selectors := optimizeNodes(l.Selectors, ctx)
	if !ctx.SaveIE {
		kept := selectors[:0]
		for _, sel := range selectors {
			if starHTMLRegexp.MatchString(sel.String()) {
				ctx.log().Debug("remove IE hack", zap.String("selector", sel.String()))
				continue
			}
			kept = append(kept, sel)
		}
		selectors = kept
	}
	sort.SliceStable(selectors, func(i, j int) bool {
		return selectors[i].String() < selectors[j].String()
	})
	selectors = uniq(selectors)
	if ctx.O1 && 1 < len(selectors) {
		for _, sel := range selectors {
			if sel.String() == "*" {
				selectors = []Node{sel}
				break
			}
		}
	}

	if len(selectors) == 0 {
		return nil, false
	} else if len(selectors) == 1 {
		return selectors[0], true
	}
	l.Selectors = selectors
	return l, true
}

////////////////////////////////////////////////////////////////

// SimpleSelector is a compound selector, a sequence of conditions without combinators such as a.b#c:hover.
type SimpleSelector struct {
	Conditions []Node
}

func (s *SimpleSelector) String() string {
	return joinNodes(s.Conditions, "")
}

func (s *SimpleSelector) Pretty(depth int) string {
	return joinPretty(s.Conditions, "")
}

func (s *SimpleSelector) Optimize(ctx Context) (Node, bool) {
	s.Conditions = uniq(optimizeNodes(s.Conditions, ctx))
	if ctx.O1 && 1 < len(s.Conditions) {
		conditions := s.Conditions[:0]
		for _, cond := range s.Conditions {
			if cond.String() != "*" {
				conditions = append(conditions, cond)
			}
		}
		s.Conditions = conditions
	}
	if len(s.Conditions) == 0 {
		return nil, false
	}
	return s, true
}

////////////////////////////////////////////////////////////////

type CombinatorKind byte

const (
	Descendant       CombinatorKind = ' '
	DirectDescendant CombinatorKind = '>'
	Adjacent         CombinatorKind = '+'
	Sibling          CombinatorKind = '~'
)

// Combinator joins an ancestor (Left) and a descendant (Right) selector.
type Combinator struct {
	Kind  CombinatorKind
	Left  Node
	Right Node
}

func (c *Combinator) String() string {
	return c.Left.String() + string(c.Kind) + c.Right.String()
}

func (c *Combinator) Pretty(depth int) string {
	if c.Kind == Descendant {
		return c.Left.Pretty(depth) + " " + c.Right.Pretty(depth)
	}
	return c.Left.Pretty(depth) + " " + string(c.Kind) + " " + c.Right.Pretty(depth)
}

func (c *Combinator) Optimize(ctx Context) (Node, bool) {
	left, ok := c.Left.Optimize(ctx)
	if !ok {
		return nil, false
	}
	right, ok := c.Right.Optimize(ctx)
	if !ok {
		return nil, false
	}
	c.Left, c.Right = left, right
	return c, true
}

// subject returns the compound selector that matches the element itself.
func subject(sel Node) Node {
	for {
		c, ok := sel.(*Combinator)
		if !ok {
			return sel
		}
		sel = c.Right
	}
}

////////////////////////////////////////////////////////////////

type IDSelector struct {
	Ident string
}

func (s *IDSelector) String() string {
	return "#" + s.Ident
}

func (s *IDSelector) Pretty(depth int) string {
	return s.String()
}

func (s *IDSelector) Optimize(ctx Context) (Node, bool) {
	return s, true
}

type ClassSelector struct {
	Ident string
}

func (s *ClassSelector) String() string {
	return "." + s.Ident
}

func (s *ClassSelector) Pretty(depth int) string {
	return s.String()
}

func (s *ClassSelector) Optimize(ctx Context) (Node, bool) {
	return s, true
}

// ElementSelector is a type or universal selector with an optional namespace prefix, such as svg|a or *.
type ElementSelector struct {
	Ident string
	NS    string
	HasNS bool // |a has an empty namespace
}

func (s *ElementSelector) String() string {
	if s.HasNS {
		return s.NS + "|" + s.Ident
	}
	return s.Ident
}

func (s *ElementSelector) Pretty(depth int) string {
	return s.String()
}

func (s *ElementSelector) Optimize(ctx Context) (Node, bool) {
	s.Ident = strings.ToLower(s.Ident)
	s.NS = strings.ToLower(s.NS)
	return s, true
}

////////////////////////////////////////////////////////////////

// AttributeSelector is an attribute condition such as [href] or [lang|="en" i]. Value is a *String or an *Ident, and nil for presence tests.
type AttributeSelector struct {
	Ident      string
	Comparison string
	Value      Node
	Flag       string
}

func (s *AttributeSelector) String() string {
	sb := strings.Builder{}
	sb.WriteByte('[')
	sb.WriteString(s.Ident)
	if s.Value != nil {
		sb.WriteString(s.Comparison)
		sb.WriteString(s.Value.String())
		if s.Flag != "" {
			if _, ok := s.Value.(*String); !ok {
				sb.WriteByte(' ')
			}
			sb.WriteString(s.Flag)
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func (s *AttributeSelector) Pretty(depth int) string {
	return s.String()
}

func (s *AttributeSelector) Optimize(ctx Context) (Node, bool) {
	s.Ident = strings.ToLower(s.Ident)
	s.Flag = strings.ToLower(s.Flag)
	if str, ok := s.Value.(*String); ok && css.IsIdent([]byte(str.Value)) {
		s.Value = &Ident{str.Value}
	}
	return s, true
}

////////////////////////////////////////////////////////////////

type PseudoElementSelector struct {
	Ident string
}

func (s *PseudoElementSelector) String() string {
	return "::" + s.Ident
}

func (s *PseudoElementSelector) Pretty(depth int) string {
	return s.String()
}

func (s *PseudoElementSelector) Optimize(ctx Context) (Node, bool) {
	s.Ident = strings.ToLower(s.Ident)
	return s, true
}

type PseudoClassSelector struct {
	Ident string
}

func (s *PseudoClassSelector) String() string {
	return ":" + s.Ident
}

func (s *PseudoClassSelector) Pretty(depth int) string {
	return s.String()
}

func (s *PseudoClassSelector) Optimize(ctx Context) (Node, bool) {
	s.Ident = strings.ToLower(s.Ident)
	return s, true
}

// PseudoSelectorFunction is a functional pseudo class such as :lang(en).
type PseudoSelectorFunction struct {
	Func string
	Expr *Expression
}

func (s *PseudoSelectorFunction) String() string {
	return ":" + s.Func + "(" + s.Expr.String() + ")"
}

func (s *PseudoSelectorFunction) Pretty(depth int) string {
	return ":" + s.Func + "(" + s.Expr.Pretty(depth) + ")"
}

func (s *PseudoSelectorFunction) Optimize(ctx Context) (Node, bool) {
	s.Func = strings.ToLower(s.Func)
	s.Expr.optimize(ctx.WithFunction(s.Func), false)
	return s, true
}

// NotSelector is the negation pseudo class :not(...).
type NotSelector struct {
	Selector Node
}

func (s *NotSelector) String() string {
	return ":not(" + s.Selector.String() + ")"
}

func (s *NotSelector) Pretty(depth int) string {
	return ":not(" + s.Selector.Pretty(depth) + ")"
}

func (s *NotSelector) Optimize(ctx Context) (Node, bool) {
	sel, ok := s.Selector.Optimize(ctx)
	if !ok {
		return nil, false
	}
	s.Selector = sel
	return s, true
}

// SelectorFunction is a pseudo class taking a selector list, such as :is(), :where() or :has().
type SelectorFunction struct {
	Func     string
	Selector Node
}

func (s *SelectorFunction) String() string {
	return ":" + s.Func + "(" + s.Selector.String() + ")"
}

func (s *SelectorFunction) Pretty(depth int) string {
	return ":" + s.Func + "(" + s.Selector.Pretty(depth) + ")"
}

func (s *SelectorFunction) Optimize(ctx Context) (Node, bool) {
	s.Func = strings.ToLower(s.Func)
	sel, ok := s.Selector.Optimize(ctx)
	if !ok {
		return nil, false
	}
	s.Selector = sel
	return s, true
}

////////////////////////////////////////////////////////////////

// NthSelector is one of the :nth-child family. Expr is a *LinearFunction, an *NValue, a *Number or an *Ident such as odd.
type NthSelector struct {
	Func string
	Expr Node
}

func (s *NthSelector) String() string {
	return ":" + s.Func + "(" + s.Expr.String() + ")"
}

func (s *NthSelector) Pretty(depth int) string {
	return ":" + s.Func + "(" + s.Expr.Pretty(depth) + ")"
}

func (s *NthSelector) Optimize(ctx Context) (Node, bool) {
	s.Func = strings.ToLower(s.Func)
	s.Expr = optimizeOperand(s.Expr, ctx)
	switch expr := s.Expr.(type) {
	case *LinearFunction:
		if expr.String() == "2n+1" {
			s.Expr = &Ident{"odd"}
		}
	case *Ident:
		expr.Name = strings.ToLower(expr.Name)
	}
	return s, true
}

// LinearFunction is An+B in an nth selector.
type LinearFunction struct {
	N      *NValue
	Offset *Number
}

func (f *LinearFunction) write(pad bool) string {
	op := "+"
	if f.Offset.Value < 0 {
		op = "-"
	}
	if pad {
		op = " " + op + " "
	}
	return f.N.String() + op + string(cssopt.Number(math.Abs(f.Offset.Value)))
}

func (f *LinearFunction) String() string {
	return f.write(false)
}

func (f *LinearFunction) Pretty(depth int) string {
	return f.write(true)
}

func (f *LinearFunction) Optimize(ctx Context) (Node, bool) {
	if f.Offset.Value == 0 {
		return f.N, true
	}
	return f, true
}

// NValue is the An part of an nth selector.
type NValue struct {
	Coef float64
}

func (v *NValue) String() string {
	switch v.Coef {
	case 0:
		return "0"
	case 1:
		return "n"
	case -1:
		return "-n"
	}
	return (&Number{v.Coef}).String() + "n"
}

func (v *NValue) Pretty(depth int) string {
	return v.String()
}

func (v *NValue) Optimize(ctx Context) (Node, bool) {
	return v, true
}
