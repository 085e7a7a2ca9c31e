package domain

import "strings"

// RuleClause is one "from={to, ...}" or "from=!{to, ...}" group of a navigation rule.
// Negated means: from this stage, everything except ToValues is allowed.
type RuleClause struct {
	FromValue string   `json:"from"`
	Negated   bool     `json:"negated,omitempty"`
	ToValues  []string `json:"to"`
}

// String renders the clause in canonical rule syntax.
func (c RuleClause) String() string {
	var sb strings.Builder
	sb.WriteString(c.FromValue)
	sb.WriteString("=")
	if c.Negated {
		sb.WriteString("!")
	}
	sb.WriteString("{")
	sb.WriteString(strings.Join(c.ToValues, ", "))
	sb.WriteString("}")
	return sb.String()
}

// ParsedRule is the ordered list of clauses of a navigation rule.
// Clauses apply in textual order and a repeated from-value merges, it does not overwrite.
type ParsedRule []RuleClause

// String renders the rule in canonical syntax.
func (r ParsedRule) String() string {
	parts := make([]string, len(r))
	for i, c := range r {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
