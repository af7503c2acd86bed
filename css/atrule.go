package css

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Media is an @media block.
type Media struct {
	Queries []*MediaQuery
	Content []Node
}

func (m *Media) header(sep string, pretty bool) string {
	sb := strings.Builder{}
	sb.WriteString("@media")
	for i, q := range m.Queries {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(sep)
		}
		if pretty {
			sb.WriteString(q.Pretty(0))
		} else {
			sb.WriteString(q.String())
		}
	}
	return sb.String()
}

func (m *Media) String() string {
	return block(m.header(",", false), nil, m.Content)
}

func (m *Media) Pretty(depth int) string {
	return prettyBlock(m.header(", ", true), depth, nil, m.Content)
}

func (m *Media) Optimize(ctx Context) (Node, bool) {
	m.Queries = optimizeMediaQueries(m.Queries, ctx)
	m.Content = optimizeBlocks(m.Content, ctx)
	if len(m.Content) == 0 {
		return nil, false
	}
	return m, true
}

func optimizeMediaQueries(queries []*MediaQuery, ctx Context) []*MediaQuery {
	seen := map[string]bool{}
	kept := queries[:0]
	for _, q := range queries {
		q.Optimize(ctx)
		if key := q.String(); !seen[key] {
			seen[key] = true
			kept = append(kept, q)
		}
	}
	return kept
}

// MediaQuery is a query such as only screen and (min-width:100px). Prefix is only or not.
type MediaQuery struct {
	Prefix      string
	Type        string
	Expressions []*MediaExpression
}

func (q *MediaQuery) write(pretty bool) string {
	parts := []string{}
	if q.Type != "" {
		if q.Prefix != "" {
			parts = append(parts, q.Prefix)
		}
		parts = append(parts, q.Type)
		if 0 < len(q.Expressions) {
			parts = append(parts, "and")
		}
	}
	exprs := make([]string, len(q.Expressions))
	for i, expr := range q.Expressions {
		if pretty {
			exprs[i] = expr.Pretty(0)
		} else {
			exprs[i] = expr.String()
		}
	}
	if 0 < len(exprs) {
		parts = append(parts, strings.Join(exprs, " and "))
	}
	return strings.Join(parts, " ")
}

func (q *MediaQuery) String() string {
	return q.write(false)
}

func (q *MediaQuery) Pretty(depth int) string {
	return q.write(true)
}

func (q *MediaQuery) Optimize(ctx Context) (Node, bool) {
	q.Prefix = strings.ToLower(q.Prefix)
	q.Type = strings.ToLower(q.Type)
	seen := map[string]bool{}
	exprs := q.Expressions[:0]
	for _, expr := range q.Expressions {
		expr.Optimize(ctx)
		if key := expr.String(); !seen[key] {
			seen[key] = true
			exprs = append(exprs, expr)
		}
	}
	q.Expressions = exprs
	return q, true
}

// MediaExpression is a media feature test such as (min-width:100px), Value is nil for (color).
type MediaExpression struct {
	Descriptor string
	Value      *Expression
}

func (e *MediaExpression) String() string {
	if e.Value == nil {
		return "(" + e.Descriptor + ")"
	}
	return "(" + e.Descriptor + ":" + e.Value.String() + ")"
}

func (e *MediaExpression) Pretty(depth int) string {
	if e.Value == nil {
		return "(" + e.Descriptor + ")"
	}
	return "(" + e.Descriptor + ": " + e.Value.Pretty(depth) + ")"
}

func (e *MediaExpression) Optimize(ctx Context) (Node, bool) {
	e.Descriptor = strings.ToLower(e.Descriptor)
	if e.Value != nil {
		e.Value.optimize(ctx, false)
	}
	return e, true
}

////////////////////////////////////////////////////////////////

// Supports is an @supports block, Condition is a *SupportsCondition or a *SupportsConditionList.
type Supports struct {
	Condition Node
	Content   []Node
}

func (s *Supports) String() string {
	return block("@supports "+s.Condition.String(), nil, s.Content)
}

func (s *Supports) Pretty(depth int) string {
	return prettyBlock("@supports "+s.Condition.Pretty(depth), depth, nil, s.Content)
}

func (s *Supports) Optimize(ctx Context) (Node, bool) {
	s.Condition = optimizeCondition(s.Condition, ctx)
	s.Content = optimizeBlocks(s.Content, ctx)
	if len(s.Content) == 0 {
		return nil, false
	}
	return s, true
}

// optimizeCondition optimizes a supports condition. Declarations are tested by the browser and are never removed.
func optimizeCondition(n Node, ctx Context) Node {
	if decl, ok := n.(*Declaration); ok {
		if !decl.Custom() {
			decl.Property = strings.ToLower(decl.Property)
		}
		decl.optimizeValue(ctx)
		return decl
	}
	return optimizeOperand(n, ctx)
}

// SupportsConditionList joins conditions with and or or.
type SupportsConditionList struct {
	Combinator string
	Conditions []Node
}

func (l *SupportsConditionList) write(pretty bool) string {
	sb := strings.Builder{}
	for i, cond := range l.Conditions {
		if i != 0 {
			sb.WriteString(" " + l.Combinator + " ")
		}
		s := cond.String()
		if pretty {
			s = cond.Pretty(0)
		}
		switch v := cond.(type) {
		case *Declaration:
			s = "(" + s + ")"
		case *SupportsConditionList:
			if v.Combinator != l.Combinator {
				s = "(" + s + ")"
			}
		case *SupportsCondition:
			if v.Negated {
				s = "(" + s + ")"
			}
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func (l *SupportsConditionList) String() string {
	return l.write(false)
}

func (l *SupportsConditionList) Pretty(depth int) string {
	return l.write(true)
}

func (l *SupportsConditionList) Optimize(ctx Context) (Node, bool) {
	for i, cond := range l.Conditions {
		l.Conditions[i] = optimizeCondition(cond, ctx)
	}
	l.Conditions = uniq(l.Conditions)

	negated := true
	for _, cond := range l.Conditions {
		if c, ok := cond.(*SupportsCondition); !ok || !c.Negated {
			negated = false
			break
		}
	}
	if negated && 1 < len(l.Conditions) {
		// not (a) and not (b) is not (a or b)
		combinator := "and"
		if l.Combinator == "and" {
			combinator = "or"
		}
		inner := make([]Node, len(l.Conditions))
		for i, cond := range l.Conditions {
			inner[i] = cond.(*SupportsCondition).Condition
		}
		return &SupportsCondition{&SupportsConditionList{combinator, inner}, true}, true
	}
	return l, true
}

// SupportsCondition is a parenthesized condition, optionally negated.
type SupportsCondition struct {
	Condition Node
	Negated   bool
}

func (c *SupportsCondition) String() string {
	if c.Negated {
		return "not (" + c.Condition.String() + ")"
	}
	return "(" + c.Condition.String() + ")"
}

func (c *SupportsCondition) Pretty(depth int) string {
	if c.Negated {
		return "not (" + c.Condition.Pretty(depth) + ")"
	}
	return "(" + c.Condition.Pretty(depth) + ")"
}

func (c *SupportsCondition) Optimize(ctx Context) (Node, bool) {
	c.Condition = optimizeCondition(c.Condition, ctx)
	if inner, ok := c.Condition.(*SupportsCondition); ok && c.Negated && inner.Negated {
		inner.Negated = false
		return inner, true
	}
	return c, true
}

////////////////////////////////////////////////////////////////

// Page is an @page rule, Name is a page selector such as :first.
type Page struct {
	Name    string
	Content []Decl
	Margins []*PageMargin
}

func (p *Page) header() string {
	if p.Name == "" {
		return "@page"
	}
	return "@page " + p.Name
}

func (p *Page) margins() []Node {
	nodes := make([]Node, len(p.Margins))
	for i, margin := range p.Margins {
		nodes[i] = margin
	}
	return nodes
}

func (p *Page) String() string {
	return block(p.header(), p.Content, p.margins())
}

func (p *Page) Pretty(depth int) string {
	return prettyBlock(p.header(), depth, p.Content, p.margins())
}

func (p *Page) Optimize(ctx Context) (Node, bool) {
	p.Content = optimizeDeclarations(p.Content, ctx)
	margins := p.Margins[:0]
	for _, margin := range p.Margins {
		if _, ok := margin.Optimize(ctx); ok {
			margins = append(margins, margin)
		}
	}
	p.Margins = margins
	if len(p.Content) == 0 && len(p.Margins) == 0 {
		return nil, false
	}
	return p, true
}

// PageMargin is a margin box inside @page, such as @top-left.
type PageMargin struct {
	Margin  string
	Content []Decl
}

func (m *PageMargin) String() string {
	return block("@"+m.Margin, m.Content, nil)
}

func (m *PageMargin) Pretty(depth int) string {
	return prettyBlock("@"+m.Margin, depth, m.Content, nil)
}

func (m *PageMargin) Optimize(ctx Context) (Node, bool) {
	m.Content = optimizeDeclarations(m.Content, ctx)
	return m, 0 < len(m.Content)
}

////////////////////////////////////////////////////////////////

type FontFace struct {
	Content []Decl
}

func (f *FontFace) String() string {
	return block("@font-face", f.Content, nil)
}

func (f *FontFace) Pretty(depth int) string {
	return prettyBlock("@font-face", depth, f.Content, nil)
}

func (f *FontFace) Optimize(ctx Context) (Node, bool) {
	f.Content = optimizeDeclarations(f.Content, ctx)
	return f, 0 < len(f.Content)
}

type FontFeatureValues struct {
	FontName string
	Content  []*FontFeatureValuesBlock
}

func (f *FontFeatureValues) blocks() []Node {
	nodes := make([]Node, len(f.Content))
	for i, b := range f.Content {
		nodes[i] = b
	}
	return nodes
}

func (f *FontFeatureValues) String() string {
	return block("@font-feature-values "+f.FontName, nil, f.blocks())
}

func (f *FontFeatureValues) Pretty(depth int) string {
	return prettyBlock("@font-feature-values "+f.FontName, depth, nil, f.blocks())
}

func (f *FontFeatureValues) Optimize(ctx Context) (Node, bool) {
	content := f.Content[:0]
	for _, b := range f.Content {
		if _, ok := b.Optimize(ctx); ok {
			content = append(content, b)
		}
	}
	f.Content = content
	return f, 0 < len(f.Content)
}

// FontFeatureValuesBlock is a feature block such as @swash inside @font-feature-values, Name excludes the @.
type FontFeatureValuesBlock struct {
	Name    string
	Content []Decl
}

func (b *FontFeatureValuesBlock) String() string {
	return block("@"+b.Name, b.Content, nil)
}

func (b *FontFeatureValuesBlock) Pretty(depth int) string {
	return prettyBlock("@"+b.Name, depth, b.Content, nil)
}

func (b *FontFeatureValuesBlock) Optimize(ctx Context) (Node, bool) {
	b.Name = strings.ToLower(b.Name)
	b.Content = optimizeDeclarations(b.Content, ctx)
	return b, 0 < len(b.Content)
}

////////////////////////////////////////////////////////////////

// Keyframes is an @keyframes block, Prefix is a vendor prefix such as -webkit- or empty.
type Keyframes struct {
	Name    string
	Prefix  string
	Content []*Keyframe
}

func (k *Keyframes) header() string {
	return "@" + k.Prefix + "keyframes " + k.Name
}

func (k *Keyframes) keyframes() []Node {
	nodes := make([]Node, len(k.Content))
	for i, kf := range k.Content {
		nodes[i] = kf
	}
	return nodes
}

func (k *Keyframes) String() string {
	return block(k.header(), nil, k.keyframes())
}

func (k *Keyframes) Pretty(depth int) string {
	return prettyBlock(k.header(), depth, nil, k.keyframes())
}

func (k *Keyframes) Optimize(ctx Context) (Node, bool) {
	k.Prefix = strings.ToLower(k.Prefix)
	if !ctx.Browsers.SupportsKeyframePrefix(k.Prefix) {
		ctx.log().Debug("remove unsupported keyframes", zap.String("prefix", k.Prefix), zap.String("name", k.Name))
		return nil, false
	}
	ctx = ctx.WithVendorPrefix(k.Prefix)

	// entries with the same stops are combined, later declarations come last
	index := map[string]*Keyframe{}
	content := []*Keyframe{}
	for _, kf := range k.Content {
		kf.optimizeStops(ctx)
		key := kf.stops()
		if prev, ok := index[key]; ok {
			prev.Content = append(prev.Content, kf.Content...)
			continue
		}
		index[key] = kf
		content = append(content, kf)
	}
	sort.SliceStable(content, func(i, j int) bool {
		return content[i].stops() < content[j].stops()
	})

	optimized := content[:0]
	for _, kf := range content {
		if _, ok := kf.Optimize(ctx); ok {
			optimized = append(optimized, kf)
		}
	}
	content = optimized

	// entries with the same declarations are combined by their stops
	bodies := map[string]*Keyframe{}
	merged := content[:0]
	for _, kf := range content {
		body := kf.body()
		if prev, ok := bodies[body]; ok {
			prev.Stops = append(prev.Stops, kf.Stops...)
			prev.optimizeStops(ctx)
			continue
		}
		bodies[body] = kf
		merged = append(merged, kf)
	}
	k.Content = merged
	return k, true
}

// Keyframe is a stop list and its declarations inside @keyframes.
type Keyframe struct {
	Stops   []*KeyframeSelector
	Content []Decl
}

func (k *Keyframe) stops() string {
	stops := make([]string, len(k.Stops))
	for i, stop := range k.Stops {
		stops[i] = stop.String()
	}
	return strings.Join(stops, ",")
}

func (k *Keyframe) body() string {
	sb := strings.Builder{}
	writeDecls(&sb, k.Content)
	return sb.String()
}

func (k *Keyframe) String() string {
	return block(k.stops(), k.Content, nil)
}

func (k *Keyframe) Pretty(depth int) string {
	return prettyBlock(strings.ReplaceAll(k.stops(), ",", ", "), depth, k.Content, nil)
}

func (k *Keyframe) optimizeStops(ctx Context) {
	seen := map[string]bool{}
	stops := k.Stops[:0]
	for _, stop := range k.Stops {
		stop.Optimize(ctx)
		if !seen[stop.Stop] {
			seen[stop.Stop] = true
			stops = append(stops, stop)
		}
	}
	k.Stops = stops
}

func (k *Keyframe) Optimize(ctx Context) (Node, bool) {
	k.optimizeStops(ctx)
	k.Content = optimizeDeclarations(k.Content, ctx)
	return k, 0 < len(k.Content)
}

// KeyframeSelector is a keyframe stop such as from, to or 50%.
type KeyframeSelector struct {
	Stop string
}

func (s *KeyframeSelector) String() string {
	return s.Stop
}

func (s *KeyframeSelector) Pretty(depth int) string {
	return s.Stop
}

func (s *KeyframeSelector) Optimize(ctx Context) (Node, bool) {
	switch strings.ToLower(s.Stop) {
	case "0%", "from":
		s.Stop = "0"
	case "100%", "to":
		s.Stop = "to"
	}
	return s, true
}

////////////////////////////////////////////////////////////////

// Viewport is an @viewport block, Prefix is a vendor prefix such as -ms- or empty.
type Viewport struct {
	Prefix  string
	Content []Decl
}

func (v *Viewport) header() string {
	return "@" + v.Prefix + "viewport"
}

func (v *Viewport) String() string {
	return block(v.header(), v.Content, nil)
}

func (v *Viewport) Pretty(depth int) string {
	return prettyBlock(v.header(), depth, v.Content, nil)
}

func (v *Viewport) Optimize(ctx Context) (Node, bool) {
	v.Prefix = strings.ToLower(v.Prefix)
	v.Content = optimizeDeclarations(v.Content, ctx.WithVendorPrefix(v.Prefix))
	return v, 0 < len(v.Content)
}

type CounterStyle struct {
	Name    string
	Content []Decl
}

func (c *CounterStyle) String() string {
	return block("@counter-style "+c.Name, c.Content, nil)
}

func (c *CounterStyle) Pretty(depth int) string {
	return prettyBlock("@counter-style "+c.Name, depth, c.Content, nil)
}

func (c *CounterStyle) Optimize(ctx Context) (Node, bool) {
	c.Content = optimizeDeclarations(c.Content, ctx)
	return c, 0 < len(c.Content)
}
