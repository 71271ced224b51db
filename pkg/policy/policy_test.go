package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBuild(t *testing.T, b *Builder) *Policy {
	t.Helper()
	p, err := b.Build()
	require.NoError(t, err)
	return p
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	p := mustBuild(t, NewBuilder().
		Deny("orders", ActionSelect).
		Allow("orders", ActionSelect))

	assert.Equal(t, Deny, p.Evaluate("orders", ActionSelect, ""))
}

func TestEvaluateExactBeatsWildcardRegardlessOfOrder(t *testing.T) {
	// Wildcard allow declared first must not shadow the exact deny.
	p := mustBuild(t, NewBuilder().
		Allow(Wildcard, ActionSelect).
		Deny("orders", ActionSelect))

	assert.Equal(t, Deny, p.Evaluate("orders", ActionSelect, ""))
	assert.Equal(t, Allow, p.Evaluate("customers", ActionSelect, ""))
}

func TestEvaluateActionAnyMatchesEveryAction(t *testing.T) {
	p := mustBuild(t, NewBuilder().Deny("secrets", ActionAny))

	for _, action := range []Action{ActionSelect, ActionInsert, ActionUpdate, ActionDelete, ActionDropTable} {
		assert.Equal(t, Deny, p.Evaluate("secrets", action, ""), "action %s", action)
	}
}

func TestEvaluateDefaultApplies(t *testing.T) {
	allowByDefault := mustBuild(t, NewBuilder().Deny("secrets", ActionAny))
	assert.Equal(t, Allow, allowByDefault.Evaluate("public", ActionSelect, ""))

	denyByDefault := mustBuild(t, NewBuilder().
		Allow("public", ActionSelect).
		Default(Deny))
	assert.Equal(t, Allow, denyByDefault.Evaluate("public", ActionSelect, ""))
	assert.Equal(t, Deny, denyByDefault.Evaluate("private", ActionSelect, ""))
}

func TestEvaluateObjectlessAccessMatchesOnlyWildcard(t *testing.T) {
	p := mustBuild(t, NewBuilder().
		Deny("orders", ActionTransaction).
		Add(Rule{Table: Wildcard, Action: ActionTransaction, Effect: Deny}))

	// A transaction access carries no object name: the exact-table rule
	// must not apply, the wildcard rule must.
	assert.Equal(t, Deny, p.Evaluate("", ActionTransaction, ""))

	allowTx := mustBuild(t, NewBuilder().Deny("orders", ActionTransaction))
	assert.Equal(t, Allow, allowTx.Evaluate("", ActionTransaction, ""))
}

func TestEvaluateColumnConstrainedRule(t *testing.T) {
	p := mustBuild(t, NewBuilder().IgnoreColumn("users", "ssn"))

	assert.Equal(t, Ignore, p.Evaluate("users", ActionSelect, "ssn"))
	assert.Equal(t, Allow, p.Evaluate("users", ActionSelect, "name"))
	assert.Equal(t, Allow, p.Evaluate("users", ActionSelect, ""))
}

func TestEvaluateTableNamesCaseInsensitive(t *testing.T) {
	p := mustBuild(t, NewBuilder().Deny("Orders", ActionSelect))

	assert.Equal(t, Deny, p.Evaluate("orders", ActionSelect, ""))
	assert.Equal(t, Deny, p.Evaluate("ORDERS", ActionSelect, ""))
}

func TestEvaluateDeterministic(t *testing.T) {
	p := mustBuild(t, NewBuilder().
		Allow(Wildcard, ActionSelect).
		Deny("orders", ActionSelect).
		IgnoreColumn("users", "ssn").
		Default(Deny))

	type access struct {
		object string
		action Action
		column string
	}
	accesses := []access{
		{"orders", ActionSelect, ""},
		{"users", ActionSelect, "ssn"},
		{"users", ActionSelect, "name"},
		{"", ActionTransaction, ""},
		{"orders", ActionInsert, ""},
	}

	var first []Effect
	for _, a := range accesses {
		first = append(first, p.Evaluate(a.object, a.action, a.column))
	}
	for i := 0; i < 100; i++ {
		for j, a := range accesses {
			assert.Equal(t, first[j], p.Evaluate(a.object, a.action, a.column))
		}
	}
}

func TestBuildRejectsIgnoreDefault(t *testing.T) {
	_, err := NewBuilder().Default(Ignore).Build()
	assert.Error(t, err)
}

func TestBuildRejectsEmptyTable(t *testing.T) {
	_, err := NewBuilder().Add(Rule{Table: "", Action: ActionSelect, Effect: Deny}).Build()
	assert.Error(t, err)
}

func TestBuildRejectsColumnOnWriteAction(t *testing.T) {
	_, err := NewBuilder().
		Add(Rule{Table: "users", Action: ActionInsert, Column: "ssn", Effect: Ignore}).
		Build()
	assert.Error(t, err)
}

func TestPolicyImmutableAfterBuild(t *testing.T) {
	b := NewBuilder().Deny("orders", ActionSelect)
	p := mustBuild(t, b)

	// Mutating the builder or the returned rule slice must not change
	// the built policy.
	b.Allow("orders", ActionSelect)
	rules := p.Rules()
	rules[0].Effect = Allow

	assert.Equal(t, Deny, p.Evaluate("orders", ActionSelect, ""))
	require.Len(t, p.Rules(), 1)
}
