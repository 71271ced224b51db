package policy

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// policyFile is the YAML shape of a policy document:
//
//	default: deny
//	rules:
//	  - table: orders
//	    action: select
//	    effect: allow
//	  - table: users
//	    action: select
//	    column: ssn
//	    effect: ignore
type policyFile struct {
	Default string     `yaml:"default"`
	Rules   []ruleFile `yaml:"rules"`
}

type ruleFile struct {
	Table  string `yaml:"table"`
	Action string `yaml:"action"`
	Column string `yaml:"column"`
	Effect string `yaml:"effect"`
}

var actionNames = map[string]Action{
	"any":                  ActionAny,
	"*":                    ActionAny,
	"select":               ActionSelect,
	"insert":               ActionInsert,
	"update":               ActionUpdate,
	"delete":               ActionDelete,
	"create-table":         ActionCreateTable,
	"drop-table":           ActionDropTable,
	"alter-table":          ActionAlterTable,
	"create-index":         ActionCreateIndex,
	"drop-index":           ActionDropIndex,
	"create-trigger":       ActionCreateTrigger,
	"drop-trigger":         ActionDropTrigger,
	"create-view":          ActionCreateView,
	"drop-view":            ActionDropView,
	"create-virtual-table": ActionCreateVirtualTable,
	"drop-virtual-table":   ActionDropVirtualTable,
	"pragma":               ActionPragma,
	"transaction":          ActionTransaction,
	"savepoint":            ActionSavepoint,
	"attach":               ActionAttach,
	"detach":               ActionDetach,
	"reindex":              ActionReindex,
	"analyze":              ActionAnalyze,
	"function":             ActionFunction,
	"recursive":            ActionRecursive,
}

// ParseAction converts a policy-file action name to an Action.
func ParseAction(s string) (Action, error) {
	a, ok := actionNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return ActionAny, fmt.Errorf("policy: unknown action %q", s)
	}
	return a, nil
}

// ParseEffect converts a policy-file effect name to an Effect.
func ParseEffect(s string) (Effect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allow":
		return Allow, nil
	case "deny":
		return Deny, nil
	case "ignore":
		return Ignore, nil
	default:
		return Allow, fmt.Errorf("policy: unknown effect %q", s)
	}
}

// Load reads a YAML policy document.
func Load(r io.Reader) (*Policy, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("policy: read: %w", err)
	}
	var pf policyFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("policy: parse: %w", err)
	}

	b := NewBuilder()
	if pf.Default != "" {
		def, err := ParseEffect(pf.Default)
		if err != nil {
			return nil, err
		}
		b.Default(def)
	}
	for i, rf := range pf.Rules {
		action := ActionAny
		if rf.Action != "" {
			a, err := ParseAction(rf.Action)
			if err != nil {
				return nil, fmt.Errorf("policy: rule %d: %w", i, err)
			}
			action = a
		}
		effect, err := ParseEffect(rf.Effect)
		if err != nil {
			return nil, fmt.Errorf("policy: rule %d: %w", i, err)
		}
		b.Add(Rule{Table: rf.Table, Action: action, Column: rf.Column, Effect: effect})
	}
	return b.Build()
}

// LoadFile reads a YAML policy document from path.
func LoadFile(path string) (*Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("policy: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
