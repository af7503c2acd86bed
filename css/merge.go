package css

import (
	"strings"
)

// mergeRulesets merges later rulesets into earlier ones with the same body when that does not change the cascade.
func mergeRulesets(nodes []Node, ctx Context) []Node {
	for i := 0; i < len(nodes)-1; i++ {
		for j := i + 1; j < len(nodes); j++ {
			if !canMergeRulesets(nodes, i, j) {
				continue
			}
			a, b := nodes[i].(*Ruleset), nodes[j].(*Ruleset)
			a.Selector = unionSelectors(a, b)
			a.optimizeSelector(ctx)
			nodes = append(nodes[:j], nodes[j+1:]...)
			j--
		}
	}
	return nodes
}

// canMergeRulesets reports whether the ruleset at j can be moved up into the ruleset at i. Every node in between must be a ruleset that either sets no property interacting with the body, or matches none of the elements the selectors of j match.
func canMergeRulesets(nodes []Node, i, j int) bool {
	a, ok := nodes[i].(*Ruleset)
	if !ok {
		return false
	}
	b, ok := nodes[j].(*Ruleset)
	if !ok || a.body() != b.body() {
		return false
	} else if hasVendorPseudo(a.Selector) || hasVendorPseudo(b.Selector) {
		return false
	}

	for k := i + 1; k < j; k++ {
		r, ok := nodes[k].(*Ruleset)
		if !ok {
			return false
		} else if declarationsInteract(r.Content, b.Content) && !selectorsDisjoint(r.selectors(), b.selectors()) {
			return false
		}
	}
	return true
}

// hasVendorPseudo reports whether a selector uses a vendor-prefixed pseudo class or element. Browsers drop a whole selector list when they don't know one of its selectors.
func hasVendorPseudo(n Node) bool {
	switch v := n.(type) {
	case *SelectorList:
		for _, sel := range v.Selectors {
			if hasVendorPseudo(sel) {
				return true
			}
		}
	case *Combinator:
		return hasVendorPseudo(v.Left) || hasVendorPseudo(v.Right)
	case *SimpleSelector:
		for _, cond := range v.Conditions {
			if hasVendorPseudo(cond) {
				return true
			}
		}
	case *NotSelector:
		return hasVendorPseudo(v.Selector)
	case *SelectorFunction:
		return strings.HasPrefix(v.Func, "-") || hasVendorPseudo(v.Selector)
	case *PseudoClassSelector:
		return strings.HasPrefix(v.Ident, "-")
	case *PseudoElementSelector:
		return strings.HasPrefix(v.Ident, "-")
	case *PseudoSelectorFunction:
		return strings.HasPrefix(v.Func, "-")
	case *NthSelector, *IDSelector, *ClassSelector, *ElementSelector, *AttributeSelector:
		return false
	}
	return false
}

////////////////////////////////////////////////////////////////

// propertyFamilies groups properties that set the same thing under different names.
var propertyFamilies = map[string]string{
	"top":    "inset",
	"right":  "inset",
	"bottom": "inset",
	"left":   "inset",
	"gap":    "grid",
	"place":  "align",
}

// propertyFamily returns the group of a property, properties of the same group may override each other.
func propertyFamily(ident string) string {
	if strings.HasPrefix(ident, "--") {
		return ident
	}
	if loc := vendorPrefixRegexp.FindStringIndex(ident); loc != nil {
		ident = ident[loc[1]-1:]
	}
	if i := strings.IndexByte(ident, '-'); i != -1 {
		ident = ident[:i]
	}
	if family, ok := propertyFamilies[ident]; ok {
		return family
	}
	return ident
}

func propertiesInteract(a, b string) bool {
	if a == b || a == "all" || b == "all" {
		return true
	}
	for _, parent := range overrideList[a] {
		if parent == b {
			return true
		}
	}
	for _, parent := range overrideList[b] {
		if parent == a {
			return true
		}
	}
	return propertyFamily(a) == propertyFamily(b)
}

func declarationsInteract(a, b []Decl) bool {
	for _, x := range a {
		for _, y := range b {
			if propertiesInteract(x.Ident(), y.Ident()) {
				return true
			}
		}
	}
	return false
}

////////////////////////////////////////////////////////////////

// legacy single colon pseudo elements
var pseudoElementClasses = map[string]bool{
	"before":       true,
	"after":        true,
	"first-line":   true,
	"first-letter": true,
}

// compound holds the parts of a compound selector that exclude each other.
type compound struct {
	element       string
	id            string
	pseudoElement string
}

func compoundOf(n Node) compound {
	conditions := []Node{n}
	if s, ok := n.(*SimpleSelector); ok {
		conditions = s.Conditions
	}

	c := compound{}
	for _, cond := range conditions {
		switch v := cond.(type) {
		case *ElementSelector:
			if v.Ident != "*" {
				c.element = v.Ident
			}
		case *IDSelector:
			c.id = v.Ident
		case *PseudoElementSelector:
			c.pseudoElement = v.Ident
		case *PseudoClassSelector:
			if pseudoElementClasses[v.Ident] {
				c.pseudoElement = v.Ident
			}
		}
	}
	return c
}

// selectorsDisjoint reports whether no selector of a can match an element matched by a selector of b.
func selectorsDisjoint(a, b []Node) bool {
	for _, x := range a {
		for _, y := range b {
			if !compoundsDisjoint(compoundOf(subject(x)), compoundOf(subject(y))) {
				return false
			}
		}
	}
	return true
}

func compoundsDisjoint(a, b compound) bool {
	if a.element != "" && b.element != "" && a.element != b.element {
		return true
	} else if a.id != "" && b.id != "" && a.id != b.id {
		return true
	}
	return a.pseudoElement != b.pseudoElement
}
