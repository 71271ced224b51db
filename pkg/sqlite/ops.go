package sqlite

import "fmt"

// Op identifies one kind of compile-time access raised by the engine's
// authorizer callback. Values match the engine's action codes.
type Op int

const (
	OpCreateIndex       Op = 1
	OpCreateTable       Op = 2
	OpCreateTempIndex   Op = 3
	OpCreateTempTable   Op = 4
	OpCreateTempTrigger Op = 5
	OpCreateTempView    Op = 6
	OpCreateTrigger     Op = 7
	OpCreateView        Op = 8
	OpDelete            Op = 9
	OpDropIndex         Op = 10
	OpDropTable         Op = 11
	OpDropTempIndex     Op = 12
	OpDropTempTable     Op = 13
	OpDropTempTrigger   Op = 14
	OpDropTempView      Op = 15
	OpDropTrigger       Op = 16
	OpDropView          Op = 17
	OpInsert            Op = 18
	OpPragma            Op = 19
	OpRead              Op = 20
	OpSelect            Op = 21
	OpTransaction       Op = 22
	OpUpdate            Op = 23
	OpAttach            Op = 24
	OpDetach            Op = 25
	OpAlterTable        Op = 26
	OpReindex           Op = 27
	OpAnalyze           Op = 28
	OpCreateVTable      Op = 29
	OpDropVTable        Op = 30
	OpFunction          Op = 31
	OpSavepoint         Op = 32
	OpRecursive         Op = 33
)

var opNames = map[Op]string{
	OpCreateIndex:       "CREATE_INDEX",
	OpCreateTable:       "CREATE_TABLE",
	OpCreateTempIndex:   "CREATE_TEMP_INDEX",
	OpCreateTempTable:   "CREATE_TEMP_TABLE",
	OpCreateTempTrigger: "CREATE_TEMP_TRIGGER",
	OpCreateTempView:    "CREATE_TEMP_VIEW",
	OpCreateTrigger:     "CREATE_TRIGGER",
	OpCreateView:        "CREATE_VIEW",
	OpDelete:            "DELETE",
	OpDropIndex:         "DROP_INDEX",
	OpDropTable:         "DROP_TABLE",
	OpDropTempIndex:     "DROP_TEMP_INDEX",
	OpDropTempTable:     "DROP_TEMP_TABLE",
	OpDropTempTrigger:   "DROP_TEMP_TRIGGER",
	OpDropTempView:      "DROP_TEMP_VIEW",
	OpDropTrigger:       "DROP_TRIGGER",
	OpDropView:          "DROP_VIEW",
	OpInsert:            "INSERT",
	OpPragma:            "PRAGMA",
	OpRead:              "READ",
	OpSelect:            "SELECT",
	OpTransaction:       "TRANSACTION",
	OpUpdate:            "UPDATE",
	OpAttach:            "ATTACH",
	OpDetach:            "DETACH",
	OpAlterTable:        "ALTER_TABLE",
	OpReindex:           "REINDEX",
	OpAnalyze:           "ANALYZE",
	OpCreateVTable:      "CREATE_VTABLE",
	OpDropVTable:        "DROP_VTABLE",
	OpFunction:          "FUNCTION",
	OpSavepoint:         "SAVEPOINT",
	OpRecursive:         "RECURSIVE",
}

// String implements the Stringer interface for Op
func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("OP(%d)", int(o))
}
