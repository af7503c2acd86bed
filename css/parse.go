package css

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	strconvParse "github.com/tdewolff/parse/v2/strconv"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Parser builds a stylesheet tree from CSS text.
type Parser struct {
	log *zap.Logger
}

// NewParser returns a parser that logs recoverable syntax errors as warnings.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses a stylesheet using a parser without logging.
func Parse(r io.Reader) (*Stylesheet, error) {
	return NewParser(nil).Parse(r)
}

// Parse parses a stylesheet from r. A byte order mark selects UTF-16 decoding, otherwise the input is UTF-8. Syntax errors are recovered from, only read errors are returned.
func (p *Parser) Parse(r io.Reader) (*Stylesheet, error) {
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}

	b := &builder{log: p.log, p: css.NewParser(parse.NewInput(bytes.NewReader(data)), false)}
	rules, decls, err := b.parseBlock(false)
	if err != nil {
		return nil, fmt.Errorf("parse stylesheet: %w", err)
	}
	if 0 < len(decls) {
		p.log.Warn("declarations outside of a rule", zap.Int("count", len(decls)))
	}

	s := &Stylesheet{}
	for _, rule := range rules {
		switch v := rule.(type) {
		case *Charset:
			if s.Charset == nil && len(s.Imports) == 0 && len(s.Namespaces) == 0 && len(s.Content) == 0 {
				s.Charset = v
			}
		case *Import:
			s.Imports = append(s.Imports, v)
		case *Namespace:
			s.Namespaces = append(s.Namespaces, v)
		default:
			s.Content = append(s.Content, rule)
		}
	}
	p.log.Debug("parsed stylesheet", zap.Int("bytes", len(data)), zap.Int("rules", len(s.Content)))
	return s, nil
}

////////////////////////////////////////////////////////////////

type builder struct {
	log *zap.Logger
	p   *css.Parser
}

// parseBlock consumes grammar until the end of the current block and returns its rules and declarations. In keyframes mode rulesets become keyframes.
func (b *builder) parseBlock(keyframes bool) ([]Node, []Decl, error) {
	var rules []Node
	var decls []Decl
	var selectors []Node
	var stops []*KeyframeSelector
	var pending []css.Token
	raw := strings.Builder{}

	flush := func() {
		if raw.Len() == 0 {
			return
		}
		rs, ds := b.reparse(raw.String())
		rules = append(rules, rs...)
		decls = append(decls, ds...)
		raw.Reset()
	}

	for {
		gt, _, data := b.p.Next()
		switch gt {
		case css.ErrorGrammar:
			err := b.p.Err()
			if err == io.EOF {
				flush()
				return rules, decls, nil
			} else if perr, ok := err.(*parse.Error); ok {
				b.log.Warn("syntax error", zap.Error(perr), zap.String("text", strings.TrimSpace(tokensText(b.p.Values()))))
				continue
			}
			return rules, decls, err
		case css.CommentGrammar:
		case css.EndRulesetGrammar, css.EndAtRuleGrammar:
			flush()
			return rules, decls, nil
		case css.TokenGrammar:
			raw.Write(data)
		case css.AtRuleGrammar:
			if rule := b.parseAtRule(string(data), b.p.Values()); rule != nil {
				rules = append(rules, rule)
			}
		case css.BeginAtRuleGrammar:
			rule, err := b.parseBlockAtRule(string(data), b.p.Values())
			if err != nil {
				return rules, decls, err
			} else if rule != nil {
				rules = append(rules, rule)
			}
		case css.QualifiedRuleGrammar, css.BeginRulesetGrammar:
			for _, t := range b.p.Values() {
				pending = append(pending, css.Token{TokenType: t.TokenType, Data: parse.Copy(t.Data)})
			}
			if gt == css.QualifiedRuleGrammar && unclosed(pending) {
				// the grammar also splits at commas inside functions such as :is(a,b)
				pending = append(pending, css.Token{TokenType: css.CommaToken, Data: []byte(",")})
				continue
			}
			if keyframes {
				stops = append(stops, &KeyframeSelector{strings.TrimSpace(tokensText(pending))})
			} else if sel, ok := b.parseSelector(trimWhitespace(pending)); ok {
				selectors = append(selectors, sel)
			}
			pending = nil
			if gt == css.QualifiedRuleGrammar {
				continue
			}

			_, body, err := b.parseBlock(false)
			if err != nil {
				return rules, decls, err
			}
			if keyframes {
				rules = append(rules, &Keyframe{stops, body})
			} else if 0 < len(selectors) {
				rules = append(rules, &Ruleset{NewSelectorList(selectors), body})
			}
			selectors, stops = nil, nil
		case css.DeclarationGrammar:
			decls = append(decls, b.parseDeclaration(string(data), b.p.Values()))
		case css.CustomPropertyGrammar:
			value := ""
			if values := b.p.Values(); 0 < len(values) {
				value = strings.TrimSpace(string(values[0].Data))
			}
			decls = append(decls, &Declaration{Property: string(data), Value: &Expression{[]Term{{0, &Ident{value}}}}})
		}
	}
}

// reparse parses the raw contents of a block that the grammar did not recognize as a declaration list.
func (b *builder) reparse(text string) ([]Node, []Decl) {
	inner := &builder{log: b.log, p: css.NewParser(parse.NewInputString(text), true)}
	rules, decls, err := inner.parseBlock(false)
	if err != nil {
		b.log.Warn("unparsable block", zap.Error(err))
	}
	return rules, decls
}

////////////////////////////////////////////////////////////////

var atRuleRegexp = regexp.MustCompile(`^@(-[a-z]+-)?(.*)$`)

func splitAtRule(name string) (string, string) {
	m := atRuleRegexp.FindStringSubmatch(strings.ToLower(name))
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

var pageMargins = map[string]bool{
	"top-left-corner":     true,
	"top-left":            true,
	"top-center":          true,
	"top-right":           true,
	"top-right-corner":    true,
	"bottom-left-corner":  true,
	"bottom-left":         true,
	"bottom-center":       true,
	"bottom-right":        true,
	"bottom-right-corner": true,
	"left-top":            true,
	"left-middle":         true,
	"left-bottom":         true,
	"right-top":           true,
	"right-middle":        true,
	"right-bottom":        true,
}

var fontFeatureBlocks = map[string]bool{
	"swash":             true,
	"annotation":        true,
	"ornaments":         true,
	"stylistic":         true,
	"styleset":          true,
	"character-variant": true,
	"historical-forms":  true,
}

// parseAtRule parses an at-rule without a block such as @import.
func (b *builder) parseAtRule(name string, values []css.Token) Node {
	_, base := splitAtRule(name)
	values = trimWhitespace(values)
	switch base {
	case "charset":
		if len(values) == 1 && values[0].TokenType == css.StringToken {
			return &Charset{&String{unquote(values[0].Data)}}
		}
	case "import":
		if uri, rest := b.parseLocation(values); uri != nil {
			return &Import{uri, b.parseMediaQueries(rest)}
		}
	case "namespace":
		ns := &Namespace{}
		if 0 < len(values) && values[0].TokenType == css.IdentToken {
			ns.Name = string(values[0].Data)
			values = trimWhitespace(values[1:])
		}
		if uri, rest := b.parseLocation(values); uri != nil && len(trimWhitespace(rest)) == 0 {
			ns.URI = uri
			return ns
		}
	}
	b.log.Warn("skip at-rule", zap.String("name", name))
	return nil
}

// parseLocation parses the string or url() at the start of values and returns the remaining tokens.
func (b *builder) parseLocation(values []css.Token) (Node, []css.Token) {
	if len(values) == 0 {
		return nil, nil
	}
	switch t := values[0]; t.TokenType {
	case css.StringToken:
		return &String{unquote(t.Data)}, values[1:]
	case css.URLToken:
		return parseURL(t.Data), values[1:]
	case css.FunctionToken:
		end := matchingParen(values, 0)
		if uri, ok := b.parseFunc(string(t.Data[:len(t.Data)-1]), values[1:end]).(*URI); ok {
			return uri, values[blockEnd(values, end):]
		}
	}
	return nil, nil
}

// parseBlockAtRule parses an at-rule with a block and consumes the block.
func (b *builder) parseBlockAtRule(name string, values []css.Token) (Node, error) {
	prefix, base := splitAtRule(name)
	values = trimWhitespace(values)
	prelude := strings.TrimSpace(tokensText(values))

	var cond Node
	var queries []*MediaQuery
	switch base {
	case "media":
		queries = b.parseMediaQueries(values)
	case "supports":
		var ok bool
		if cond, ok = b.parseSupportsCondition(values); !ok {
			b.log.Warn("invalid @supports condition", zap.String("condition", prelude))
		}
	}

	rules, decls, err := b.parseBlock(base == "keyframes")
	if err != nil {
		return nil, err
	}

	switch {
	case base == "media" && prefix == "":
		return &Media{queries, rules}, nil
	case base == "supports" && prefix == "" && cond != nil:
		return &Supports{cond, rules}, nil
	case base == "page" && prefix == "":
		page := &Page{Name: prelude, Content: decls}
		for _, rule := range rules {
			if margin, ok := rule.(*PageMargin); ok {
				page.Margins = append(page.Margins, margin)
			}
		}
		return page, nil
	case pageMargins[base] && prefix == "":
		return &PageMargin{base, decls}, nil
	case base == "font-face" && prefix == "":
		return &FontFace{decls}, nil
	case base == "font-feature-values" && prefix == "":
		ffv := &FontFeatureValues{FontName: prelude}
		for _, rule := range rules {
			if block, ok := rule.(*FontFeatureValuesBlock); ok {
				ffv.Content = append(ffv.Content, block)
			}
		}
		return ffv, nil
	case fontFeatureBlocks[base] && prefix == "":
		return &FontFeatureValuesBlock{base, decls}, nil
	case base == "keyframes":
		k := &Keyframes{Name: prelude, Prefix: prefix}
		for _, rule := range rules {
			if kf, ok := rule.(*Keyframe); ok {
				k.Content = append(k.Content, kf)
			}
		}
		return k, nil
	case base == "viewport":
		return &Viewport{prefix, decls}, nil
	case base == "counter-style" && prefix == "":
		return &CounterStyle{prelude, decls}, nil
	}
	b.log.Warn("skip at-rule", zap.String("name", name))
	return nil, nil
}

////////////////////////////////////////////////////////////////

func (b *builder) parseMediaQueries(values []css.Token) []*MediaQuery {
	var queries []*MediaQuery
	for _, tokens := range splitTokens(values, css.CommaToken) {
		if q := b.parseMediaQuery(tokens); q != nil && (q.Type != "" || len(q.Expressions) != 0) {
			queries = append(queries, q)
		}
	}
	return queries
}

func (b *builder) parseMediaQuery(values []css.Token) *MediaQuery {
	q := &MediaQuery{}
	for i := 0; i < len(values); i++ {
		t := values[i]
		switch t.TokenType {
		case css.WhitespaceToken, css.CommentToken:
		case css.IdentToken:
			ident := string(t.Data)
			lower := strings.ToLower(ident)
			if lower == "and" {
				continue
			} else if q.Type == "" && q.Prefix == "" && (lower == "only" || lower == "not") {
				q.Prefix = ident
			} else {
				q.Type = ident
			}
		case css.LeftParenthesisToken:
			end := matchingParen(values, i)
			q.Expressions = append(q.Expressions, b.parseMediaExpression(values[i+1:end]))
			i = end
		default:
			b.log.Warn("invalid media query", zap.String("query", tokensText(values)))
			return nil
		}
	}
	return q
}

func (b *builder) parseMediaExpression(values []css.Token) *MediaExpression {
	values = trimWhitespace(values)
	colon := -1
	for i, t := range values {
		if t.TokenType == css.ColonToken {
			colon = i
			break
		}
	}
	if colon == -1 {
		return &MediaExpression{Descriptor: strings.TrimSpace(tokensText(values))}
	}
	return &MediaExpression{
		Descriptor: strings.TrimSpace(tokensText(values[:colon])),
		Value:      b.parseExpression(values[colon+1:]),
	}
}

////////////////////////////////////////////////////////////////

// parseSupportsCondition parses conditions joined by and or or, or a negated condition.
func (b *builder) parseSupportsCondition(values []css.Token) (Node, bool) {
	var conditions []Node
	combinator := ""
	negate := false
	for i := 0; i < len(values); i++ {
		t := values[i]
		switch t.TokenType {
		case css.WhitespaceToken, css.CommentToken:
		case css.IdentToken:
			switch lower := strings.ToLower(string(t.Data)); lower {
			case "not":
				negate = true
			case "and", "or":
				if combinator != "" && combinator != lower {
					return nil, false
				}
				combinator = lower
			default:
				return nil, false
			}
		case css.LeftParenthesisToken:
			end := matchingParen(values, i)
			inner, ok := b.parseSupportsInParens(values[i+1 : end])
			if !ok {
				return nil, false
			}
			if negate {
				inner = &SupportsCondition{inner, true}
			}
			conditions = append(conditions, inner)
			negate = false
			i = end
		case css.FunctionToken:
			end := matchingParen(values, i)
			conditions = append(conditions, &Ident{blockText(values, i, end)})
			i = end
		default:
			return nil, false
		}
	}
	if len(conditions) == 0 {
		return nil, false
	} else if len(conditions) == 1 {
		if decl, ok := conditions[0].(*Declaration); ok {
			return &SupportsCondition{decl, false}, true
		}
		return conditions[0], true
	}
	return &SupportsConditionList{combinator, conditions}, true
}

func (b *builder) parseSupportsInParens(values []css.Token) (Node, bool) {
	values = trimWhitespace(values)
	if len(values) == 0 {
		return nil, false
	}
	if values[0].TokenType == css.LeftParenthesisToken || values[0].TokenType == css.IdentToken && strings.EqualFold(string(values[0].Data), "not") {
		return b.parseSupportsCondition(values)
	}
	if values[0].TokenType != css.IdentToken {
		return nil, false
	}
	rest := trimWhitespace(values[1:])
	if len(rest) == 0 || rest[0].TokenType != css.ColonToken {
		return nil, false
	}
	return b.parseDeclaration(string(values[0].Data), rest[1:]), true
}

////////////////////////////////////////////////////////////////

// parseDeclaration builds a declaration from its property and value tokens.
func (b *builder) parseDeclaration(property string, values []css.Token) Decl {
	values = trimWhitespace(values)

	important := false
	if n := len(values); 2 <= n && values[n-1].TokenType == css.IdentToken && strings.EqualFold(string(values[n-1].Data), "important") {
		if rest := trimWhitespace(values[:n-1]); 0 < len(rest) && rest[len(rest)-1].TokenType == css.DelimToken && rest[len(rest)-1].Data[0] == '!' {
			values = trimWhitespace(rest[:len(rest)-1])
			important = true
		}
	}

	slashNine := false
	if n := len(values); 0 < n && bytes.HasSuffix(values[n-1].Data, []byte(`\9`)) {
		last := values[n-1]
		last.Data = last.Data[:len(last.Data)-2]
		values = append(values[:n-1:n-1], last)
		if len(last.Data) == 0 {
			values = trimWhitespace(values[:n-1])
		}
		slashNine = true
	}

	lower := strings.ToLower(property)
	if lower == "filter" || lower == "-ms-filter" {
		text := strings.TrimSpace(tokensText(values))
		if lowerText := strings.ToLower(text); strings.Contains(lowerText, "progid:") || strings.HasPrefix(lowerText, "alpha(") {
			return &IEFilter{property, text}
		}
	}
	return &Declaration{
		Property:  property,
		Value:     b.parseExpression(values),
		Important: important,
		SlashNine: slashNine,
	}
}

// parseExpression builds an expression from value tokens.
func (b *builder) parseExpression(values []css.Token) *Expression {
	e := &Expression{}
	op := byte(0)
	for i := 0; i < len(values); i++ {
		t := values[i]
		var n Node
		switch t.TokenType {
		case css.WhitespaceToken, css.CommentToken:
			continue
		case css.CommaToken:
			op = ','
			continue
		case css.DelimToken:
			if c := t.Data[0]; c == '/' || c == '=' {
				op = c
				continue
			}
			n = &Ident{string(t.Data)}
		case css.FunctionToken:
			end := matchingParen(values, i)
			n = b.parseFunc(string(t.Data[:len(t.Data)-1]), values[i+1:end])
			i = end
		case css.LeftParenthesisToken, css.LeftBracketToken:
			end := matchingParen(values, i)
			n = &Ident{blockText(values, i, end)}
			i = end
		default:
			n = parseValueToken(t)
		}
		e.Terms = append(e.Terms, Term{op, n})
		op = 0
	}
	return e
}

var mathFuncs = map[string]bool{
	"calc":         true,
	"-webkit-calc": true,
	"-moz-calc":    true,
	"min":          true,
	"max":          true,
	"clamp":        true,
}

func (b *builder) parseFunc(name string, args []css.Token) Node {
	lower := strings.ToLower(name)
	if lower == "url" {
		if args = trimWhitespace(args); len(args) == 1 && args[0].TokenType == css.StringToken {
			return &URI{unquote(args[0].Data)}
		}
	}
	if len(trimWhitespace(args)) == 0 {
		return &Func{name, nil}
	}
	if mathFuncs[lower] {
		e := &Expression{}
		for i, arg := range splitTokens(args, css.CommaToken) {
			m := &mathParser{b: b, values: trimWhitespace(arg)}
			n, ok := m.parseSum()
			if !ok || m.pos != len(m.values) {
				return &Func{name, b.parseExpression(args)}
			}
			op := byte(0)
			if i != 0 {
				op = ','
			}
			e.Terms = append(e.Terms, Term{op, n})
		}
		return &Func{name, e}
	}
	return &Func{name, b.parseExpression(args)}
}

// parseValueToken converts a single value token.
func parseValueToken(t css.Token) Node {
	switch t.TokenType {
	case css.NumberToken:
		return &Number{parseNumber(t.Data)}
	case css.PercentageToken:
		return &Dimension{parseNumber(t.Data[:len(t.Data)-1]), "%"}
	case css.DimensionToken:
		n := numberLength(t.Data)
		return &Dimension{parseNumber(t.Data[:n]), string(t.Data[n:])}
	case css.HashToken:
		if isHexColor(t.Data) {
			return &HexColor{string(t.Data)}
		}
	case css.StringToken:
		return &String{unquote(t.Data)}
	case css.URLToken:
		return parseURL(t.Data)
	}
	return &Ident{string(t.Data)}
}

func isHexColor(b []byte) bool {
	if n := len(b) - 1; n != 3 && n != 4 && n != 6 && n != 8 {
		return false
	}
	for _, c := range b[1:] {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// parseURL parses a url() token, the location may be quoted.
func parseURL(b []byte) *URI {
	if i := bytes.IndexByte(b, '('); i != -1 && b[len(b)-1] == ')' {
		b = b[i+1 : len(b)-1]
	}
	b = bytes.TrimSpace(b)
	if 0 < len(b) && (b[0] == '"' || b[0] == '\'') {
		return &URI{unquote(b)}
	}
	return &URI{string(b)}
}

// numberLength returns the length of the number at the start of b.
func numberLength(b []byte) int {
	isDigit := func(i int) bool {
		return i < len(b) && '0' <= b[i] && b[i] <= '9'
	}
	i := 0
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		i++
	}
	for isDigit(i) {
		i++
	}
	if i < len(b) && b[i] == '.' && isDigit(i+1) {
		i++
		for isDigit(i) {
			i++
		}
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		j := i + 1
		if j < len(b) && (b[j] == '+' || b[j] == '-') {
			j++
		}
		if isDigit(j) {
			for i = j; isDigit(i); i++ {
			}
		}
	}
	return i
}

// parseNumber parses a number, malformed numbers are zero.
func parseNumber(b []byte) float64 {
	f, n := strconvParse.ParseFloat(b)
	if n != len(b) {
		return 0.0
	}
	return f
}

////////////////////////////////////////////////////////////////

type mathParser struct {
	b      *builder
	values []css.Token
	pos    int
}

func (m *mathParser) skipWhitespace() {
	for m.pos < len(m.values) && m.values[m.pos].TokenType == css.WhitespaceToken {
		m.pos++
	}
}

func (m *mathParser) delim(ops string) (byte, bool) {
	m.skipWhitespace()
	if m.pos < len(m.values) && m.values[m.pos].TokenType == css.DelimToken && strings.IndexByte(ops, m.values[m.pos].Data[0]) != -1 {
		m.pos++
		return m.values[m.pos-1].Data[0], true
	}
	return 0, false
}

func (m *mathParser) parseSum() (Node, bool) {
	left, ok := m.parseProduct()
	if !ok {
		return nil, false
	}
	for {
		op, ok := m.delim("+-")
		if !ok {
			return left, true
		}
		right, ok := m.parseProduct()
		if !ok {
			return nil, false
		}
		left = &MathSum{left, op, right}
	}
}

func (m *mathParser) parseProduct() (Node, bool) {
	left, ok := m.parseOperand()
	if !ok {
		return nil, false
	}
	for {
		op, ok := m.delim("*/")
		if !ok {
			return left, true
		}
		right, ok := m.parseOperand()
		if !ok {
			return nil, false
		}
		left = &MathProduct{left, op, right}
	}
}

func (m *mathParser) parseOperand() (Node, bool) {
	m.skipWhitespace()
	if len(m.values) <= m.pos {
		return nil, false
	}
	t := m.values[m.pos]
	switch t.TokenType {
	case css.LeftParenthesisToken:
		end := matchingParen(m.values, m.pos)
		inner := &mathParser{b: m.b, values: m.values[m.pos+1 : end]}
		n, ok := inner.parseSum()
		inner.skipWhitespace()
		if !ok || inner.pos != len(inner.values) {
			return nil, false
		}
		m.pos = blockEnd(m.values, end)
		return n, true
	case css.FunctionToken:
		end := matchingParen(m.values, m.pos)
		n := m.b.parseFunc(string(t.Data[:len(t.Data)-1]), m.values[m.pos+1:end])
		m.pos = blockEnd(m.values, end)
		return n, true
	case css.NumberToken, css.PercentageToken, css.DimensionToken, css.IdentToken:
		m.pos++
		return parseValueToken(t), true
	}
	return nil, false
}

////////////////////////////////////////////////////////////////

var nthFuncs = map[string]bool{
	"nth-child":        true,
	"nth-last-child":   true,
	"nth-of-type":      true,
	"nth-last-of-type": true,
}

// parseSelector parses a complex selector: compound selectors joined by combinators.
func (b *builder) parseSelector(values []css.Token) (Node, bool) {
	var sel Node
	var conditions []Node
	var kind CombinatorKind
	finish := func() bool {
		if len(conditions) == 0 {
			return false
		}
		compound := &SimpleSelector{conditions}
		if sel == nil {
			sel = compound
		} else {
			sel = &Combinator{kind, sel, compound}
		}
		conditions, kind = nil, 0
		return true
	}

	for i := 0; i < len(values); i++ {
		t := values[i]
		switch t.TokenType {
		case css.WhitespaceToken, css.CommentToken:
			if 0 < len(conditions) {
				finish()
				kind = Descendant
			}
			continue
		case css.DelimToken:
			switch c := t.Data[0]; c {
			case '>', '+', '~':
				if 0 < len(conditions) {
					finish()
				} else if sel == nil {
					return b.invalidSelector(values)
				}
				kind = CombinatorKind(c)
				continue
			case '.':
				if i+1 < len(values) && values[i+1].TokenType == css.IdentToken {
					conditions = append(conditions, &ClassSelector{string(values[i+1].Data)})
					i++
					continue
				}
			case '*', '|':
				var el *ElementSelector
				el, i = parseElement(values, i)
				conditions = append(conditions, el)
				continue
			}
			return b.invalidSelector(values)
		case css.IdentToken:
			var el *ElementSelector
			el, i = parseElement(values, i)
			conditions = append(conditions, el)
			continue
		case css.HashToken:
			conditions = append(conditions, &IDSelector{string(t.Data[1:])})
			continue
		case css.LeftBracketToken:
			end := matchingParen(values, i)
			attr, ok := parseAttribute(values[i+1 : end])
			if !ok {
				return b.invalidSelector(values)
			}
			conditions = append(conditions, attr)
			i = end
			continue
		case css.ColonToken:
			cond, next, ok := b.parsePseudo(values, i)
			if !ok {
				return b.invalidSelector(values)
			}
			conditions = append(conditions, cond)
			i = next
			continue
		}
		return b.invalidSelector(values)
	}
	if !finish() {
		return b.invalidSelector(values)
	}
	return sel, true
}

func (b *builder) invalidSelector(values []css.Token) (Node, bool) {
	b.log.Warn("skip invalid selector", zap.String("selector", tokensText(values)))
	return nil, false
}

// parseElement parses a type or universal selector with an optional namespace at position i and returns the position of its last token.
func parseElement(values []css.Token, i int) (*ElementSelector, int) {
	isDelim := func(i int, c byte) bool {
		return i < len(values) && values[i].TokenType == css.DelimToken && values[i].Data[0] == c
	}
	isName := func(i int) bool {
		return i < len(values) && (values[i].TokenType == css.IdentToken || isDelim(i, '*'))
	}

	if isDelim(i, '|') && isName(i+1) {
		return &ElementSelector{Ident: string(values[i+1].Data), HasNS: true}, i + 1
	} else if isDelim(i+1, '|') && isName(i+2) {
		return &ElementSelector{Ident: string(values[i+2].Data), NS: string(values[i].Data), HasNS: true}, i + 2
	}
	return &ElementSelector{Ident: string(values[i].Data)}, i
}

func parseAttribute(values []css.Token) (*AttributeSelector, bool) {
	values = trimWhitespace(values)
	if len(values) == 0 || values[0].TokenType != css.IdentToken {
		return nil, false
	}
	attr := &AttributeSelector{Ident: string(values[0].Data)}
	rest := trimWhitespace(values[1:])
	if len(rest) == 0 {
		return attr, true
	}

	switch rest[0].TokenType {
	case css.IdentToken, css.StringToken:
		return nil, false
	}
	attr.Comparison = string(rest[0].Data)
	rest = trimWhitespace(rest[1:])
	if len(rest) == 0 {
		return nil, false
	}
	switch rest[0].TokenType {
	case css.IdentToken:
		attr.Value = &Ident{string(rest[0].Data)}
	case css.StringToken:
		attr.Value = &String{unquote(rest[0].Data)}
	case css.NumberToken:
		attr.Value = &String{string(rest[0].Data)}
	default:
		return nil, false
	}
	if rest = trimWhitespace(rest[1:]); len(rest) == 1 && rest[0].TokenType == css.IdentToken {
		attr.Flag = string(rest[0].Data)
	} else if len(rest) != 0 {
		return nil, false
	}
	return attr, true
}

// parsePseudo parses a pseudo class, pseudo element or pseudo function at the colon at position i.
func (b *builder) parsePseudo(values []css.Token, i int) (Node, int, bool) {
	element := false
	if i+1 < len(values) && values[i+1].TokenType == css.ColonToken {
		element = true
		i++
	}
	if len(values) <= i+1 {
		return nil, i, false
	}

	i++
	t := values[i]
	switch t.TokenType {
	case css.IdentToken:
		if element {
			return &PseudoElementSelector{string(t.Data)}, i, true
		}
		return &PseudoClassSelector{string(t.Data)}, i, true
	case css.FunctionToken:
		end := matchingParen(values, i)
		name := string(t.Data[:len(t.Data)-1])
		args := trimWhitespace(values[i+1 : end])
		lower := strings.ToLower(name)
		if element {
			return &PseudoElementSelector{name + "(" + tokensText(args) + ")"}, end, true
		} else if lower == "not" || selectorFuncs[lower] {
			if !relativeSelectors(args) {
				var selectors []Node
				for _, arg := range splitTokens(args, css.CommaToken) {
					sel, ok := b.parseSelector(trimWhitespace(arg))
					if !ok {
						return nil, end, false
					}
					selectors = append(selectors, sel)
				}
				if len(selectors) == 0 {
					return nil, end, false
				} else if lower == "not" {
					return &NotSelector{NewSelectorList(selectors)}, end, true
				}
				return &SelectorFunction{name, NewSelectorList(selectors)}, end, true
			} else if lower == "not" {
				return nil, end, false
			}
		} else if nthFuncs[lower] {
			if expr, ok := parseNth(args); ok {
				return &NthSelector{name, expr}, end, true
			}
		}
		// arguments are kept as written, such as :lang(en) or :nth-child(2n of .a)
		return &PseudoSelectorFunction{name, &Expression{[]Term{{0, &Ident{tokensText(args)}}}}}, end, true
	}
	return nil, i, false
}

// selectorFuncs are the pseudo classes other than :not that take a selector list.
var selectorFuncs = map[string]bool{
	"is":           true,
	"where":        true,
	"has":          true,
	"matches":      true,
	"-webkit-any":  true,
	"-moz-any":     true,
	"host":         true,
	"host-context": true,
}

// relativeSelectors reports whether one of the comma separated selectors starts with a combinator, as in :has(> img).
func relativeSelectors(values []css.Token) bool {
	for _, arg := range splitTokens(values, css.CommaToken) {
		if arg = trimWhitespace(arg); 0 < len(arg) && arg[0].TokenType == css.DelimToken {
			if c := arg[0].Data[0]; c == '>' || c == '+' || c == '~' {
				return true
			}
		}
	}
	return false
}

// parseNth parses the An+B argument of an nth selector.
func parseNth(values []css.Token) (Node, bool) {
	sb := strings.Builder{}
	for _, t := range values {
		if t.TokenType != css.WhitespaceToken && t.TokenType != css.CommentToken {
			sb.Write(t.Data)
		}
	}
	s := strings.ToLower(sb.String())
	if s == "odd" || s == "even" {
		return &Ident{s}, true
	}

	i := strings.IndexByte(s, 'n')
	if i == -1 {
		if s == "" || numberLength([]byte(s)) != len(s) {
			return nil, false
		}
		return &Number{parseNumber([]byte(s))}, true
	}

	coef := 0.0
	switch a := s[:i]; a {
	case "", "+":
		coef = 1.0
	case "-":
		coef = -1.0
	default:
		if numberLength([]byte(a)) != len(a) {
			return nil, false
		}
		coef = parseNumber([]byte(a))
	}
	nv := &NValue{coef}
	if rest := s[i+1:]; rest != "" {
		if (rest[0] != '+' && rest[0] != '-') || numberLength([]byte(rest)) != len(rest) {
			return nil, false
		}
		return &LinearFunction{nv, &Number{parseNumber([]byte(rest))}}, true
	}
	return nv, true
}

////////////////////////////////////////////////////////////////

func trimWhitespace(values []css.Token) []css.Token {
	for 0 < len(values) && (values[0].TokenType == css.WhitespaceToken || values[0].TokenType == css.CommentToken) {
		values = values[1:]
	}
	for 0 < len(values) && (values[len(values)-1].TokenType == css.WhitespaceToken || values[len(values)-1].TokenType == css.CommentToken) {
		values = values[:len(values)-1]
	}
	return values
}

// tokensText concatenates tokens, collapsing whitespace and dropping comments.
func tokensText(values []css.Token) string {
	sb := strings.Builder{}
	for _, t := range values {
		switch t.TokenType {
		case css.WhitespaceToken:
			sb.WriteByte(' ')
		case css.CommentToken:
		default:
			sb.Write(t.Data)
		}
	}
	return sb.String()
}

// matchingParen returns the position of the token closing the block opened at position i, or len(values) if it is unclosed.
func matchingParen(values []css.Token, i int) int {
	level := 0
	for j := i; j < len(values); j++ {
		switch values[j].TokenType {
		case css.LeftParenthesisToken, css.LeftBracketToken, css.LeftBraceToken, css.FunctionToken:
			level++
		case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
			level--
			if level == 0 {
				return j
			}
		}
	}
	return len(values)
}

// unclosed reports whether values leave a block open.
func unclosed(values []css.Token) bool {
	level := 0
	for _, t := range values {
		switch t.TokenType {
		case css.LeftParenthesisToken, css.LeftBracketToken, css.LeftBraceToken, css.FunctionToken:
			level++
		case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
			level--
		}
	}
	return 0 < level
}

// blockEnd returns the position following a block closed at end.
func blockEnd(values []css.Token, end int) int {
	if end < len(values) {
		return end + 1
	}
	return end
}

// blockText returns the text of the block from i to end, blocks left open at the end of input are closed.
func blockText(values []css.Token, i, end int) string {
	s := tokensText(values[i:blockEnd(values, end)])
	if end == len(values) {
		switch values[i].TokenType {
		case css.LeftBracketToken:
			s += "]"
		case css.LeftBraceToken:
			s += "}"
		default:
			s += ")"
		}
	}
	return s
}

// splitTokens splits at separators outside of blocks.
func splitTokens(values []css.Token, sep css.TokenType) [][]css.Token {
	var parts [][]css.Token
	level, start := 0, 0
	for i, t := range values {
		switch t.TokenType {
		case css.LeftParenthesisToken, css.LeftBracketToken, css.LeftBraceToken, css.FunctionToken:
			level++
		case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
			level--
		case sep:
			if level == 0 {
				parts = append(parts, values[start:i])
				start = i + 1
			}
		}
	}
	if start < len(values) {
		parts = append(parts, values[start:])
	}
	return parts
}
