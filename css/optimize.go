package css

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// quadLists are properties that take one to four values for the top, right, bottom and left sides.
var quadLists = map[string]bool{
	"border-color":          true,
	"-webkit-border-radius": true,
	"-moz-border-radius":    true,
	"border-radius":         true,
	"border-style":          true,
	"border-width":          true,
	"margin":                true,
	"padding":               true,
}

// noneables are properties where none is equivalent to 0.
var noneables = map[string]bool{
	"border":        true,
	"border-top":    true,
	"border-right":  true,
	"border-bottom": true,
	"border-left":   true,
	"outline":       true,
	"background":    true,
}

// colorlessProperties take identifiers that may collide with color names.
var colorlessProperties = map[string]bool{
	"font":                   true,
	"font-family":            true,
	"animation":              true,
	"animation-name":         true,
	"transition":             true,
	"transition-property":    true,
	"will-change":            true,
	"counter-reset":          true,
	"counter-increment":      true,
	"grid-area":              true,
	"grid-template-areas":    true,
	"list-style-type":        true,
	"-webkit-animation":      true,
	"-moz-animation":         true,
	"-o-animation":           true,
	"-webkit-transition":     true,
	"-moz-transition":        true,
	"-o-transition":          true,
	"-webkit-animation-name": true,
}

var fontWeights = map[string]float64{
	"normal": 400,
	"bold":   700,
}

// overrideList maps a property to the shorthands that override it.
var overrideList = map[string][]string{
	"animation-delay":                    {"animation"},
	"animation-direction":                {"animation"},
	"animation-duration":                 {"animation"},
	"animation-fill-mode":                {"animation"},
	"animation-iteration-count":          {"animation"},
	"animation-name":                     {"animation"},
	"animation-play-state":               {"animation"},
	"animation-timing-function":          {"animation"},
	"-moz-animation-delay":               {"-moz-animation"},
	"-moz-animation-direction":           {"-moz-animation"},
	"-moz-animation-duration":            {"-moz-animation"},
	"-moz-animation-fill-mode":           {"-moz-animation"},
	"-moz-animation-iteration-count":     {"-moz-animation"},
	"-moz-animation-name":                {"-moz-animation"},
	"-moz-animation-play-state":          {"-moz-animation"},
	"-moz-animation-timing-function":     {"-moz-animation"},
	"-o-animation-delay":                 {"-o-animation"},
	"-o-animation-direction":             {"-o-animation"},
	"-o-animation-duration":              {"-o-animation"},
	"-o-animation-fill-mode":             {"-o-animation"},
	"-o-animation-iteration-count":       {"-o-animation"},
	"-o-animation-name":                  {"-o-animation"},
	"-o-animation-play-state":            {"-o-animation"},
	"-o-animation-timing-function":       {"-o-animation"},
	"-webkit-animation-delay":            {"-webkit-animation"},
	"-webkit-animation-direction":        {"-webkit-animation"},
	"-webkit-animation-duration":         {"-webkit-animation"},
	"-webkit-animation-fill-mode":        {"-webkit-animation"},
	"-webkit-animation-iteration-count":  {"-webkit-animation"},
	"-webkit-animation-name":             {"-webkit-animation"},
	"-webkit-animation-play-state":       {"-webkit-animation"},
	"-webkit-animation-timing-function":  {"-webkit-animation"},
	"background-clip":                    {"background"},
	"background-origin":                  {"background"},
	"border-color":                       {"border"},
	"border-style":                       {"border"},
	"border-width":                       {"border"},
	"border-bottom":                      {"border"},
	"border-bottom-color":                {"border-bottom", "border-color", "border"},
	"border-bottom-style":                {"border-bottom", "border-style", "border"},
	"border-bottom-width":                {"border-bottom", "border-width", "border"},
	"border-left":                        {"border"},
	"border-left-color":                  {"border-left", "border-color", "border"},
	"border-left-style":                  {"border-left", "border-style", "border"},
	"border-left-width":                  {"border-left", "border-width", "border"},
	"border-right":                       {"border"},
	"border-right-color":                 {"border-right", "border-color", "border"},
	"border-right-style":                 {"border-right", "border-style", "border"},
	"border-right-width":                 {"border-right", "border-width", "border"},
	"border-top":                         {"border"},
	"border-top-color":                   {"border-top", "border-color", "border"},
	"border-top-style":                   {"border-top", "border-style", "border"},
	"border-top-width":                   {"border-top", "border-width", "border"},
	"font-family":                        {"font"},
	"font-size":                          {"font"},
	"font-style":                         {"font"},
	"font-variant":                       {"font"},
	"font-weight":                        {"font"},
	"margin-bottom":                      {"margin"},
	"margin-left":                        {"margin"},
	"margin-right":                       {"margin"},
	"margin-top":                         {"margin"},
	"padding-bottom":                     {"padding"},
	"padding-left":                       {"padding"},
	"padding-right":                      {"padding"},
	"padding-top":                        {"padding"},
	"transition-delay":                   {"transition"},
	"transition-duration":                {"transition"},
	"transition-property":                {"transition"},
	"transition-timing-function":         {"transition"},
	"-moz-transition-delay":              {"-moz-transition"},
	"-moz-transition-duration":           {"-moz-transition"},
	"-moz-transition-property":           {"-moz-transition"},
	"-moz-transition-timing-function":    {"-moz-transition"},
	"-o-transition-delay":                {"-o-transition"},
	"-o-transition-duration":             {"-o-transition"},
	"-o-transition-property":             {"-o-transition"},
	"-o-transition-timing-function":      {"-o-transition"},
	"-webkit-transition-delay":           {"-webkit-transition"},
	"-webkit-transition-duration":        {"-webkit-transition"},
	"-webkit-transition-property":        {"-webkit-transition"},
	"-webkit-transition-timing-function": {"-webkit-transition"},
}

////////////////////////////////////////////////////////////////

// optimizeNodes optimizes every node in order and drops the removed ones.
func optimizeNodes(nodes []Node, ctx Context) []Node {
	optimized := nodes[:0]
	for _, n := range nodes {
		if n, ok := n.Optimize(ctx); ok {
			optimized = append(optimized, n)
		}
	}
	return optimized
}

func optimizeDecls(decls []Decl, ctx Context) []Decl {
	optimized := decls[:0]
	for _, decl := range decls {
		if n, ok := decl.Optimize(ctx); ok {
			optimized = append(optimized, n.(Decl))
		}
	}
	return optimized
}

// uniq removes nodes that serialize the same as an earlier node.
func uniq(nodes []Node) []Node {
	seen := make(map[string]bool, len(nodes))
	unique := nodes[:0]
	for _, n := range nodes {
		if key := n.String(); !seen[key] {
			seen[key] = true
			unique = append(unique, n)
		}
	}
	return unique
}

func important(decl Decl) bool {
	d, ok := decl.(*Declaration)
	return ok && d.Important
}

// optimizeDeclarations optimizes a declaration block. Longhands overridden by a later shorthand are removed, and the remaining declarations are deduplicated and sorted.
func optimizeDeclarations(decls []Decl, ctx Context) []Decl {
	decls = optimizeDecls(decls, ctx)
	if len(decls) == 0 {
		return decls
	}

	// the value is whether the declaration is !important
	seen := map[string]bool{}
	removed := make([]bool, len(decls))
	for i := len(decls) - 1; 0 <= i; i-- {
		ident := decls[i].Ident()
		if _, ok := seen[ident]; ok {
			continue
		}
		overridden := false
		for _, parent := range overrideList[ident] {
			if parentImportant, ok := seen[parent]; ok && (parentImportant || !important(decls[i])) {
				overridden = true
				break
			}
		}
		if overridden {
			removed[i] = true
			continue
		}
		seen[ident] = important(decls[i])
	}
	kept := decls[:0]
	for i, decl := range decls {
		if !removed[i] {
			kept = append(kept, decl)
		}
	}
	decls = kept

	// the last of identical declarations is the one that applies
	last := make(map[string]int, len(decls))
	for i, decl := range decls {
		last[decl.String()] = i
	}
	unique := decls[:0]
	for i, decl := range decls {
		if last[decl.String()] == i {
			unique = append(unique, decl)
		}
	}
	decls = unique

	sortDeclarations(decls)
	return decls
}

// sortDeclarations stable sorts by identifier in collation order. Only the identifier is compared, not the full declaration text,
// so declarations with the same identifier keep their source order since the last one wins.
func sortDeclarations(decls []Decl) {
	c := collate.New(language.Und)
	sort.SliceStable(decls, func(i, j int) bool {
		a, b := decls[i].Ident(), decls[j].Ident()
		if cmp := c.CompareString(a, b); cmp != 0 {
			return cmp < 0
		}
		return strings.Compare(a, b) < 0
	})
}

////////////////////////////////////////////////////////////////

// optimizeBlocks optimizes a list of rules such as the content of a stylesheet or @media block.
func optimizeBlocks(nodes []Node, ctx Context) []Node {
	nodes = optimizeNodes(nodes, ctx)

	if ctx.O1 {
		nodes = removeDuplicateBlocks(nodes)
		nodes = mergeRulesets(nodes, ctx)
	}
	return combineAdjacentRulesets(nodes, ctx)
}

// removeDuplicateBlocks removes blocks that are repeated later on.
func removeDuplicateBlocks(nodes []Node) []Node {
	last := make(map[string]int, len(nodes))
	keys := make([]string, len(nodes))
	for i, n := range nodes {
		keys[i] = n.String()
		last[keys[i]] = i
	}
	kept := nodes[:0]
	for i, n := range nodes {
		if last[keys[i]] == i {
			kept = append(kept, n)
		}
	}
	return kept
}

// unionSelectors returns a selector list of the selectors of a followed by those of b.
func unionSelectors(a, b *Ruleset) *SelectorList {
	selectors := make([]Node, 0, len(a.selectors())+len(b.selectors()))
	selectors = append(selectors, a.selectors()...)
	selectors = append(selectors, b.selectors()...)
	return &SelectorList{selectors}
}

// optimizeSelector re-optimizes the selector of a ruleset after merging. The selectors were already optimized so the list is never removed.
func (r *Ruleset) optimizeSelector(ctx Context) {
	if sel, ok := r.Selector.Optimize(ctx); ok {
		r.Selector = sel
	}
}

type selectorEntry struct {
	ruleset *Ruleset
	index   int
}

// combineAdjacentRulesets merges consecutive rulesets with the same body or the same selector, and removes declarations overridden by a later ruleset with the same selector.
func combineAdjacentRulesets(nodes []Node, ctx Context) []Node {
	combined := make([]Node, 0, len(nodes))
	selectorMap := map[string][]selectorEntry{}
	var last *Ruleset
	for _, n := range nodes {
		r, ok := n.(*Ruleset)
		if !ok {
			combined = append(combined, n)
			last = nil
			continue
		}

		if last != nil && last.body() == r.body() && !hasVendorPseudo(last.Selector) && !hasVendorPseudo(r.Selector) {
			last.Selector = unionSelectors(last, r)
			last.optimizeSelector(ctx)
			continue
		} else if last != nil && last.Selector.String() == r.Selector.String() {
			last.Content = append(last.Content, r.Content...)
			last.Content = optimizeDeclarations(last.Content, ctx)
			continue
		}

		combined = append(combined, r)
		last = r
		for _, sel := range r.selectors() {
			key := sel.String()
			for _, entry := range selectorMap[key] {
				if combined[entry.index] == nil {
					continue
				}
				removeOverridden(entry.ruleset, r)
				if len(entry.ruleset.Content) == 0 {
					combined[entry.index] = nil
				}
			}
			selectorMap[key] = append(selectorMap[key], selectorEntry{r, len(combined) - 1})
		}
	}

	kept := combined[:0]
	for _, n := range combined {
		if n != nil {
			kept = append(kept, n)
		}
	}
	return kept
}

// removeOverridden removes the declarations of an earlier ruleset that a later ruleset overrides. Rulesets with several selectors are left untouched since the later ruleset only matches one of them.
func removeOverridden(earlier, later *Ruleset) {
	if _, ok := earlier.Selector.(*SelectorList); ok {
		return
	}
	idents := map[string]bool{}
	for _, decl := range later.Content {
		if overridesFallbacks(decl) {
			idents[decl.Ident()] = idents[decl.Ident()] || important(decl)
		}
	}
	kept := earlier.Content[:0]
	for _, decl := range earlier.Content {
		if laterImportant, ok := idents[decl.Ident()]; ok && (laterImportant || !important(decl)) {
			continue
		}
		kept = append(kept, decl)
	}
	earlier.Content = kept
}

// plainFuncs are value functions that every browser supporting the property understands.
var plainFuncs = map[string]bool{
	"url":  true,
	"rgb":  true,
	"rgba": true,
	"hsl":  true,
	"hsla": true,
}

// overridesFallbacks reports whether decl applies wherever an earlier declaration of the same property does.
// Browsers may ignore values with var(), vendor prefixed keywords, other functions or the \9 hack, the earlier declaration is then the fallback.
func overridesFallbacks(decl Decl) bool {
	d, ok := decl.(*Declaration)
	return ok && !d.SlashNine && d.Value != nil && plainValue(d.Value)
}

func plainValue(n Node) bool {
	switch v := n.(type) {
	case *Expression:
		for _, term := range v.Terms {
			if !plainValue(term.Value) {
				return false
			}
		}
	case *Func:
		return plainFuncs[strings.ToLower(v.Name)] && (v.Args == nil || plainValue(v.Args))
	case *Ident:
		return !strings.HasPrefix(v.Name, "-") && !strings.Contains(strings.ToLower(v.Name), "var(")
	}
	return true
}
