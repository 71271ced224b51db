package policy

import (
	"fmt"
	"strings"
)

// Policy is an ordered set of rules plus a default effect, attached to a
// single connection. A Policy is immutable once built; reconfiguring a
// connection means building a new Policy and attaching it.
type Policy struct {
	rules []Rule
	def   Effect
}

// Rules returns a copy of the policy's rules in declaration order.
func (p *Policy) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Default returns the effect applied when no rule matches.
func (p *Policy) Default() Effect {
	return p.def
}

// Evaluate decides the effect for one access. object is the table, pragma,
// or function name the access refers to, or empty for accesses with no
// associated object (transactions, savepoints). column is the column name
// for column-level read accesses, or empty.
//
// Rules are scanned in declaration order, except that rules naming the
// object exactly are consulted before wildcard rules. The first matching
// rule wins; if none matches, the default effect applies. Evaluation is
// deterministic: the same policy and access always produce the same
// effect.
func (p *Policy) Evaluate(object string, action Action, column string) Effect {
	// Exact-table rules outrank wildcard rules regardless of where they
	// were declared.
	if object != "" {
		for _, r := range p.rules {
			if r.Table != Wildcard && strings.EqualFold(r.Table, object) && r.covers(action, column) {
				return r.Effect
			}
		}
	}
	for _, r := range p.rules {
		if r.Table == Wildcard && r.covers(action, column) {
			return r.Effect
		}
	}
	return p.def
}

// covers reports whether the rule's action and column constraints match
// the access. Table matching is the caller's concern.
func (r Rule) covers(action Action, column string) bool {
	if r.Action != ActionAny && r.Action != action {
		return false
	}
	if r.Column != "" && !strings.EqualFold(r.Column, column) {
		return false
	}
	return true
}

// Builder accumulates rules for a Policy. The zero default effect is
// Allow; call Default to change it.
type Builder struct {
	rules []Rule
	def   Effect
}

// NewBuilder creates an empty policy builder.
func NewBuilder() *Builder {
	return &Builder{def: Allow}
}

// Allow appends a rule permitting action on table.
func (b *Builder) Allow(table string, action Action) *Builder {
	return b.Add(Rule{Table: table, Action: action, Effect: Allow})
}

// Deny appends a rule refusing action on table.
func (b *Builder) Deny(table string, action Action) *Builder {
	return b.Add(Rule{Table: table, Action: action, Effect: Deny})
}

// Ignore appends a rule eliding action on table. Elision is only
// meaningful for column-level reads; on any other action it is enforced
// as a denial.
func (b *Builder) Ignore(table string, action Action) *Builder {
	return b.Add(Rule{Table: table, Action: action, Effect: Ignore})
}

// IgnoreColumn appends a rule eliding reads of one column of table: the
// column still appears in results but yields NULL.
func (b *Builder) IgnoreColumn(table, column string) *Builder {
	return b.Add(Rule{Table: table, Action: ActionSelect, Column: column, Effect: Ignore})
}

// Add appends an arbitrary rule.
func (b *Builder) Add(r Rule) *Builder {
	b.rules = append(b.rules, r)
	return b
}

// Default sets the effect applied when no rule matches.
func (b *Builder) Default(e Effect) *Builder {
	b.def = e
	return b
}

// Build validates the accumulated rules and returns an immutable Policy.
// The default effect must be Allow or Deny.
func (b *Builder) Build() (*Policy, error) {
	if b.def != Allow && b.def != Deny {
		return nil, fmt.Errorf("policy: default effect must be ALLOW or DENY, got %s", b.def)
	}
	for i, r := range b.rules {
		if r.Table == "" {
			return nil, fmt.Errorf("policy: rule %d has no table; use %q to match any table", i, Wildcard)
		}
		if r.Effect != Allow && r.Effect != Deny && r.Effect != Ignore {
			return nil, fmt.Errorf("policy: rule %d has invalid effect %d", i, int(r.Effect))
		}
		if r.Column != "" && r.Action != ActionSelect && r.Action != ActionAny {
			return nil, fmt.Errorf("policy: rule %d constrains column %q on non-read action %s", i, r.Column, r.Action)
		}
	}
	rules := make([]Rule, len(b.rules))
	copy(rules, b.rules)
	return &Policy{rules: rules, def: b.def}, nil
}
