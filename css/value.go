package css

import (
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"github.com/tdewolff/cssopt"
)

var vendorPrefixRegexp = regexp.MustCompile(`^-[a-z]+-.`)

// Declaration is a property and its value, such as color:red!important.
type Declaration struct {
	Property  string
	Value     *Expression
	Important bool
	SlashNine bool // the IE hack color:red\9
}

func (d *Declaration) Ident() string {
	return d.Property
}

// Custom reports whether the declaration is a custom property, whose value is kept verbatim.
func (d *Declaration) Custom() bool {
	return strings.HasPrefix(d.Property, "--")
}

func (d *Declaration) String() string {
	sb := strings.Builder{}
	sb.WriteString(d.Property)
	sb.WriteByte(':')
	sb.WriteString(d.Value.String())
	if d.Important {
		sb.WriteString("!important")
	}
	if d.SlashNine {
		sb.WriteString(`\9`)
	}
	return sb.String()
}

func (d *Declaration) Pretty(depth int) string {
	sb := strings.Builder{}
	sb.WriteString(d.Property)
	sb.WriteString(": ")
	sb.WriteString(d.Value.Pretty(depth))
	if d.Important {
		sb.WriteString(" !important")
	}
	if d.SlashNine {
		sb.WriteString(` \9`)
	}
	return sb.String()
}

func (d *Declaration) Optimize(ctx Context) (Node, bool) {
	if !d.Custom() {
		d.Property = strings.ToLower(d.Property)
	}
	if !ctx.SaveIE && (strings.HasPrefix(d.Property, "*") || d.SlashNine) {
		ctx.log().Debug("remove IE hack", zap.String("declaration", d.String()))
		return nil, false
	}
	if !ctx.Browsers.SupportsDeclaration(d.Property) {
		ctx.log().Debug("remove unsupported declaration", zap.String("declaration", d.Property), zap.Stringer("browsers", ctx.Browsers))
		return nil, false
	}
	d.optimizeValue(ctx)
	if len(d.Value.Terms) == 0 {
		return nil, false
	}
	if ctx.vendorPrefix != "" && vendorPrefixRegexp.MatchString(d.Property) && !strings.HasPrefix(d.Property, ctx.vendorPrefix) {
		ctx.log().Debug("remove mismatched vendor prefix", zap.String("declaration", d.Property), zap.String("prefix", ctx.vendorPrefix))
		return nil, false
	}
	return d, true
}

// optimizeValue optimizes the value only, the declaration itself is never removed.
func (d *Declaration) optimizeValue(ctx Context) {
	if d.Custom() {
		return
	}
	d.Value.optimize(ctx.WithDeclaration(strings.ToLower(d.Property)), true)
}

////////////////////////////////////////////////////////////////

// IEFilter is a legacy Internet Explorer filter declaration such as filter:progid:DXImageTransform.Microsoft.Alpha(Opacity=80). The value is kept verbatim.
type IEFilter struct {
	Property string
	Value    string
}

func (f *IEFilter) Ident() string {
	return strings.ToLower(f.Property)
}

func (f *IEFilter) String() string {
	return f.Property + ":" + f.Value
}

func (f *IEFilter) Pretty(depth int) string {
	return f.Property + ": " + f.Value
}

func (f *IEFilter) Optimize(ctx Context) (Node, bool) {
	if !ctx.Browsers.SupportsIEFilter() {
		ctx.log().Debug("remove IE filter", zap.String("filter", f.Value))
		return nil, false
	}
	return f, true
}

////////////////////////////////////////////////////////////////

// Term is an operand of an expression with the operator that precedes it. The operator of the first term is ignored.
type Term struct {
	Op    byte // 0 for whitespace, or one of ',' '/' '='
	Value Node
}

// Expression is a sequence of values separated by whitespace or operators, such as 1px solid red or a,b.
type Expression struct {
	Terms []Term
}

func (e *Expression) String() string {
	sb := strings.Builder{}
	for i, term := range e.Terms {
		if i != 0 {
			if term.Op == 0 {
				sb.WriteByte(' ')
			} else {
				sb.WriteByte(term.Op)
			}
		}
		sb.WriteString(term.Value.String())
	}
	return sb.String()
}

func (e *Expression) Pretty(depth int) string {
	sb := strings.Builder{}
	for i, term := range e.Terms {
		if i != 0 {
			switch term.Op {
			case 0:
				sb.WriteByte(' ')
			case ',':
				sb.WriteString(", ")
			default:
				sb.WriteByte(term.Op)
			}
		}
		sb.WriteString(term.Value.Pretty(depth))
	}
	return sb.String()
}

func (e *Expression) Optimize(ctx Context) (Node, bool) {
	e.optimize(ctx, true)
	return e, 0 < len(e.Terms)
}

func (e *Expression) keys() []string {
	keys := make([]string, len(e.Terms))
	for i, term := range e.Terms {
		keys[i] = term.Value.String()
	}
	return keys
}

func (e *Expression) spaceSeparated() bool {
	for _, term := range e.Terms[1:] {
		if term.Op != 0 {
			return false
		}
	}
	return true
}

// optimize optimizes the terms. Property specific rewrites only apply to the top level expression of a declaration.
func (e *Expression) optimize(ctx Context, top bool) {
	terms := e.Terms[:0]
	for _, term := range e.Terms {
		if n, ok := term.Value.Optimize(ctx); ok {
			term.Value = n
			terms = append(terms, term)
		}
	}
	e.Terms = terms
	if !top || ctx.declaration == "" || len(e.Terms) == 0 {
		return
	}

	prop := ctx.declaration
	if quadLists[prop] && 1 < len(e.Terms) && len(e.Terms) <= 4 && e.spaceSeparated() {
		e.collapseQuad()
	} else if prop == "font-weight" || prop == "font" {
		e.optimizeFontWeight(prop == "font")
	}

	if noneables[prop] && len(e.Terms) == 1 {
		if ident, ok := e.Terms[0].Value.(*Ident); ok && strings.EqualFold(ident.Name, "none") {
			e.Terms[0].Value = &Number{0}
		}
	}

	if !colorlessProperties[prop] {
		for i, term := range e.Terms {
			if ident, ok := term.Value.(*Ident); ok {
				if hex, ok := shortenColorName[strings.ToLower(ident.Name)]; ok {
					e.Terms[i].Value = &HexColor{hex}
				}
			}
		}
	}
}

// collapseQuad shortens the top right bottom left values of box properties such as margin.
func (e *Expression) collapseQuad() {
	keys := e.keys()
	equal := true
	for _, key := range keys[1:] {
		if key != keys[0] {
			equal = false
			break
		}
	}
	if equal {
		e.Terms = e.Terms[:1]
		return
	}
	if len(keys) == 4 && keys[0] == keys[2] && keys[1] == keys[3] {
		e.Terms = e.Terms[:2]
		return
	} else if len(keys) == 4 && keys[1] == keys[3] {
		e.Terms = e.Terms[:3]
		keys = keys[:3]
	}
	if len(keys) == 3 && keys[0] == keys[2] {
		e.Terms = e.Terms[:2]
	}
}

func (e *Expression) optimizeFontWeight(shorthand bool) {
	if !shorthand {
		if len(e.Terms) != 1 {
			return
		}
		if ident, ok := e.Terms[0].Value.(*Ident); ok {
			if weight, ok := fontWeights[strings.ToLower(ident.Name)]; ok {
				e.Terms[0].Value = &Number{weight}
			}
		}
		return
	}

	// in the font shorthand normal may also stand for the style or variant, so only a lone normal without another weight is a weight
	normal := -1
	for i, term := range e.Terms {
		if term.Op == '/' {
			continue
		} else if term.Op == ',' {
			break
		}
		switch v := term.Value.(type) {
		case *Number:
			return
		case *Ident:
			switch strings.ToLower(v.Name) {
			case "bold":
				e.Terms[i].Value = &Number{700}
				return
			case "bolder", "lighter":
				return
			case "normal":
				if normal != -1 {
					return
				}
				normal = i
			}
		}
	}
	if normal != -1 {
		e.Terms[normal].Value = &Number{400}
	}
}

////////////////////////////////////////////////////////////////

// Dimension is a number with a unit, such as 10px or 50%.
type Dimension struct {
	Value float64
	Unit  string
}

func (d *Dimension) String() string {
	return string(cssopt.Number(d.Value)) + d.Unit
}

func (d *Dimension) Pretty(depth int) string {
	return string(cssopt.Raw(d.Value)) + d.Unit
}

func (d *Dimension) Optimize(ctx Context) (Node, bool) {
	if d.Unit == "" {
		return &Number{d.Value}, true
	}
	d.Unit = canonicalUnit(d.Unit)
	if string(cssopt.Number(d.Value)) == "0" && d.Unit != "%" && !timeUnits[d.Unit] && !keepsZeroUnit(ctx.function) {
		return &Number{0}, true
	}
	return minimizeUnit(d, ctx.O1), true
}

// keepsZeroUnit reports whether zero dimensions must keep their unit inside the function.
func keepsZeroUnit(function string) bool {
	switch function {
	case "hsl", "hsla", "calc", "min", "max", "clamp":
		return true
	}
	return false
}

////////////////////////////////////////////////////////////////

// Func is a function call in a value, such as rgb(0,0,0) or calc(1px + 2em). Args is nil for an empty argument list.
type Func struct {
	Name string
	Args *Expression
}

func (f *Func) String() string {
	if f.Args == nil {
		return f.Name + "()"
	}
	return f.Name + "(" + f.Args.String() + ")"
}

func (f *Func) Pretty(depth int) string {
	if f.Args == nil {
		return f.Name + "()"
	}
	return f.Name + "(" + f.Args.Pretty(depth) + ")"
}

func (f *Func) Optimize(ctx Context) (Node, bool) {
	f.Name = strings.ToLower(f.Name)
	if f.Args == nil {
		return f, true
	}
	f.Args.optimize(ctx.WithFunction(f.Name), false)
	if color, ok := optimizeColorFunc(f); ok {
		return color, true
	}
	return f, true
}

////////////////////////////////////////////////////////////////

// MathSum is an addition or subtraction inside calc().
type MathSum struct {
	Left  Node
	Op    byte // '+' or '-'
	Right Node
}

func (m *MathSum) String() string {
	// whitespace around + and - is mandatory
	right := m.Right.String()
	if _, ok := m.Right.(*MathSum); ok {
		right = "(" + right + ")"
	}
	return m.Left.String() + " " + string(m.Op) + " " + right
}

func (m *MathSum) Pretty(depth int) string {
	return m.String()
}

func (m *MathSum) Optimize(ctx Context) (Node, bool) {
	m.Left = optimizeOperand(m.Left, ctx)
	m.Right = optimizeOperand(m.Right, ctx)
	return m, true
}

// MathProduct is a multiplication or division inside calc().
type MathProduct struct {
	Left  Node
	Op    byte // '*' or '/'
	Right Node
}

func (m *MathProduct) write(sep string) string {
	left, right := m.Left.String(), m.Right.String()
	if _, ok := m.Left.(*MathSum); ok {
		left = "(" + left + ")"
	}
	switch m.Right.(type) {
	case *MathSum, *MathProduct:
		right = "(" + right + ")"
	}
	return left + sep + string(m.Op) + sep + right
}

func (m *MathProduct) String() string {
	return m.write("")
}

func (m *MathProduct) Pretty(depth int) string {
	return m.write(" ")
}

func (m *MathProduct) Optimize(ctx Context) (Node, bool) {
	m.Left = optimizeOperand(m.Left, ctx)
	m.Right = optimizeOperand(m.Right, ctx)
	return m, true
}

func optimizeOperand(n Node, ctx Context) Node {
	if opt, ok := n.Optimize(ctx); ok {
		return opt
	}
	return n
}

////////////////////////////////////////////////////////////////

// HexColor is a color such as #FFAA00, including the hash.
type HexColor struct {
	Color string
}

func (c *HexColor) String() string {
	return c.Color
}

func (c *HexColor) Pretty(depth int) string {
	return c.Color
}

func (c *HexColor) Optimize(ctx Context) (Node, bool) {
	c.Color = shortenHexColor(strings.ToLower(c.Color))
	if name, ok := shortenColorHex[c.Color]; ok {
		return &Ident{name}, true
	}
	return c, true
}

////////////////////////////////////////////////////////////////

type Number struct {
	Value float64
}

func (n *Number) String() string {
	return string(cssopt.Number(n.Value))
}

func (n *Number) Pretty(depth int) string {
	return string(cssopt.Raw(n.Value))
}

func (n *Number) Optimize(ctx Context) (Node, bool) {
	return n, true
}

////////////////////////////////////////////////////////////////

// String is a quoted string, Value holds the contents without quotes and with quotes unescaped.
type String struct {
	Value string
}

// String returns the value quoted with the quote character that needs the fewest escapes, preferring double quotes.
func (s *String) String() string {
	single, double := strings.Count(s.Value, "'"), strings.Count(s.Value, `"`)
	if single < double {
		return "'" + strings.ReplaceAll(s.Value, "'", `\'`) + "'"
	}
	return `"` + strings.ReplaceAll(s.Value, `"`, `\"`) + `"`
}

func (s *String) Pretty(depth int) string {
	return s.String()
}

func (s *String) Optimize(ctx Context) (Node, bool) {
	return s, true
}

// unquote removes the quotes of a string token and unescapes quotes and line continuations.
func unquote(b []byte) string {
	if 2 <= len(b) && (b[0] == '"' || b[0] == '\'') {
		b = b[1 : len(b)-1]
	}
	sb := strings.Builder{}
	for i := 0; i < len(b); i++ {
		if b[i] == '\\' && i+1 < len(b) {
			switch b[i+1] {
			case '"', '\'':
				sb.WriteByte(b[i+1])
				i++
				continue
			case '\n':
				i++
				continue
			case '\\':
				sb.WriteString(`\\`)
				i++
				continue
			}
		}
		sb.WriteByte(b[i])
	}
	return sb.String()
}

////////////////////////////////////////////////////////////////

// URI is a url() value, URI holds the unquoted location.
type URI struct {
	URI string
}

func (u *URI) String() string {
	if u.URI != "" && css.IsURLUnquoted([]byte(u.URI)) {
		return "url(" + u.URI + ")"
	}
	return "url(" + (&String{u.URI}).String() + ")"
}

func (u *URI) Pretty(depth int) string {
	return u.String()
}

func (u *URI) Optimize(ctx Context) (Node, bool) {
	return u, true
}

////////////////////////////////////////////////////////////////

// Ident is a keyword in a value, such as none, bold or a color name.
type Ident struct {
	Name string
}

func (i *Ident) String() string {
	return i.Name
}

func (i *Ident) Pretty(depth int) string {
	return i.Name
}

func (i *Ident) Optimize(ctx Context) (Node, bool) {
	return i, true
}
