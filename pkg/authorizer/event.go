// Package authorizer evaluates the engine's compile-time access checks
// against an attached policy and answers continue, abort, or elide.
package authorizer

import (
	"github.com/gatedb/gatedb/pkg/policy"
	"github.com/gatedb/gatedb/pkg/sqlite"
)

// AccessEvent is one compile-time access check, rebuilt from the engine
// callback's parameters. It exists only for the duration of one
// decision.
type AccessEvent struct {
	// Op is the engine's raw action code.
	Op sqlite.Op
	// Action is the policy-level operation the access maps to.
	Action policy.Action
	// Object is the table, pragma, or function name, or empty for
	// accesses with no associated object (transactions, savepoints).
	Object string
	// Column is the column name for column-level reads, or empty.
	Column string
	// Database names the schema being accessed ("main", "temp", an
	// attached name), when the engine supplies it.
	Database string
}

// Elidable reports whether the access may be answered with an elision
// instead of a denial. Only column-level reads can be safely elided;
// writes, DDL, and pragma accesses have no partial-elision semantics.
func (ev AccessEvent) Elidable() bool {
	return ev.Op == sqlite.OpRead
}

// eventFor maps one engine callback to an AccessEvent. arg1 and arg2 are
// op-dependent; the table name is not always the first argument.
func eventFor(op sqlite.Op, arg1, arg2, database string) AccessEvent {
	ev := AccessEvent{Op: op, Database: database}
	switch op {
	case sqlite.OpRead:
		// arg1 = table, arg2 = column
		ev.Action = policy.ActionSelect
		ev.Object = arg1
		ev.Column = arg2
	case sqlite.OpSelect:
		// Raised once per SELECT, before any table is known.
		ev.Action = policy.ActionSelect
	case sqlite.OpInsert:
		ev.Action = policy.ActionInsert
		ev.Object = arg1
	case sqlite.OpUpdate:
		// arg1 = table, arg2 = column being written
		ev.Action = policy.ActionUpdate
		ev.Object = arg1
		ev.Column = arg2
	case sqlite.OpDelete:
		ev.Action = policy.ActionDelete
		ev.Object = arg1
	case sqlite.OpCreateTable, sqlite.OpCreateTempTable:
		ev.Action = policy.ActionCreateTable
		ev.Object = arg1
	case sqlite.OpDropTable, sqlite.OpDropTempTable:
		ev.Action = policy.ActionDropTable
		ev.Object = arg1
	case sqlite.OpAlterTable:
		// arg1 = database, arg2 = table
		ev.Action = policy.ActionAlterTable
		ev.Object = arg2
	case sqlite.OpCreateIndex, sqlite.OpCreateTempIndex:
		// arg1 = index, arg2 = table
		ev.Action = policy.ActionCreateIndex
		ev.Object = arg2
		ev.Column = arg1
	case sqlite.OpDropIndex, sqlite.OpDropTempIndex:
		ev.Action = policy.ActionDropIndex
		ev.Object = arg2
		ev.Column = arg1
	case sqlite.OpCreateTrigger, sqlite.OpCreateTempTrigger:
		// arg1 = trigger, arg2 = table
		ev.Action = policy.ActionCreateTrigger
		ev.Object = arg2
		ev.Column = arg1
	case sqlite.OpDropTrigger, sqlite.OpDropTempTrigger:
		ev.Action = policy.ActionDropTrigger
		ev.Object = arg2
		ev.Column = arg1
	case sqlite.OpCreateView, sqlite.OpCreateTempView:
		ev.Action = policy.ActionCreateView
		ev.Object = arg1
	case sqlite.OpDropView, sqlite.OpDropTempView:
		ev.Action = policy.ActionDropView
		ev.Object = arg1
	case sqlite.OpCreateVTable:
		// arg1 = table, arg2 = module
		ev.Action = policy.ActionCreateVirtualTable
		ev.Object = arg1
	case sqlite.OpDropVTable:
		ev.Action = policy.ActionDropVirtualTable
		ev.Object = arg1
	case sqlite.OpPragma:
		// arg1 = pragma name, arg2 = pragma argument
		ev.Action = policy.ActionPragma
		ev.Object = arg1
		ev.Column = arg2
	case sqlite.OpFunction:
		// arg2 = function name
		ev.Action = policy.ActionFunction
		ev.Object = arg2
	case sqlite.OpTransaction:
		// arg1 = BEGIN/COMMIT/ROLLBACK
		ev.Action = policy.ActionTransaction
		ev.Column = arg1
	case sqlite.OpSavepoint:
		ev.Action = policy.ActionSavepoint
		ev.Column = arg1
	case sqlite.OpAttach:
		ev.Action = policy.ActionAttach
		ev.Object = arg1
	case sqlite.OpDetach:
		ev.Action = policy.ActionDetach
		ev.Object = arg1
	case sqlite.OpReindex:
		ev.Action = policy.ActionReindex
		ev.Object = arg1
	case sqlite.OpAnalyze:
		ev.Action = policy.ActionAnalyze
		ev.Object = arg1
	case sqlite.OpRecursive:
		ev.Action = policy.ActionRecursive
	default:
		ev.Action = policy.ActionAny
		ev.Object = arg1
		ev.Column = arg2
	}
	return ev
}
