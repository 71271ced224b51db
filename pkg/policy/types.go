// Package policy provides the table-level access control model: immutable
// rules, a builder, and deterministic rule evaluation.
package policy

import "fmt"

// Wildcard matches any table name in a rule.
const Wildcard = "*"

// Action represents the kind of database access being authorized.
type Action int

const (
	ActionAny Action = iota
	ActionSelect
	ActionInsert
	ActionUpdate
	ActionDelete
	ActionCreateTable
	ActionDropTable
	ActionAlterTable
	ActionCreateIndex
	ActionDropIndex
	ActionCreateTrigger
	ActionDropTrigger
	ActionCreateView
	ActionDropView
	ActionCreateVirtualTable
	ActionDropVirtualTable
	ActionPragma
	ActionTransaction
	ActionSavepoint
	ActionAttach
	ActionDetach
	ActionReindex
	ActionAnalyze
	ActionFunction
	ActionRecursive
)

// String implements the Stringer interface for Action
func (a Action) String() string {
	switch a {
	case ActionAny:
		return "ANY"
	case ActionSelect:
		return "SELECT"
	case ActionInsert:
		return "INSERT"
	case ActionUpdate:
		return "UPDATE"
	case ActionDelete:
		return "DELETE"
	case ActionCreateTable:
		return "CREATE TABLE"
	case ActionDropTable:
		return "DROP TABLE"
	case ActionAlterTable:
		return "ALTER TABLE"
	case ActionCreateIndex:
		return "CREATE INDEX"
	case ActionDropIndex:
		return "DROP INDEX"
	case ActionCreateTrigger:
		return "CREATE TRIGGER"
	case ActionDropTrigger:
		return "DROP TRIGGER"
	case ActionCreateView:
		return "CREATE VIEW"
	case ActionDropView:
		return "DROP VIEW"
	case ActionCreateVirtualTable:
		return "CREATE VIRTUAL TABLE"
	case ActionDropVirtualTable:
		return "DROP VIRTUAL TABLE"
	case ActionPragma:
		return "PRAGMA"
	case ActionTransaction:
		return "TRANSACTION"
	case ActionSavepoint:
		return "SAVEPOINT"
	case ActionAttach:
		return "ATTACH"
	case ActionDetach:
		return "DETACH"
	case ActionReindex:
		return "REINDEX"
	case ActionAnalyze:
		return "ANALYZE"
	case ActionFunction:
		return "FUNCTION"
	case ActionRecursive:
		return "RECURSIVE"
	default:
		return fmt.Sprintf("ACTION(%d)", int(a))
	}
}

// Effect represents the outcome of evaluating one access against a policy.
type Effect int

const (
	Allow Effect = iota
	Deny
	Ignore
)

// String implements the Stringer interface for Effect
func (e Effect) String() string {
	switch e {
	case Allow:
		return "ALLOW"
	case Deny:
		return "DENY"
	case Ignore:
		return "IGNORE"
	default:
		return fmt.Sprintf("EFFECT(%d)", int(e))
	}
}

// Rule grants or withholds one kind of access to one table.
//
// Table may be Wildcard to match any table. Column, when non-empty,
// restricts the rule to column-level read accesses naming that column;
// it is meaningful only for ActionSelect rules.
type Rule struct {
	Table  string
	Action Action
	Column string
	Effect Effect
}
