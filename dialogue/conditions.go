package dialogue

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"

	"github.com/milk9111/hideseek/quest"
)

const conditionResultVar = "__result"

// Inventory is the read side of the player inventory.
type Inventory interface {
	HasItem(id string) bool
}

// QuestState is the read side of the quest ledger.
type QuestState interface {
	Current() *quest.Quest
	CheckGoal() bool
	Completed(id string) bool
}

// Conditions evaluates response visibility scripts. Each expression is
// compiled once and re-run on every evaluation against live game state.
//
// Bound functions: has_item(id), quest_active() (current quest ID or ""),
// goal_achieved(), quest_completed(id). None of them writes to the ledger.
type Conditions struct {
	inv    Inventory
	quests QuestState
	logger *zap.Logger
	cache  map[string]*tengo.Compiled
}

func NewConditions(inv Inventory, quests QuestState, logger *zap.Logger) *Conditions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Conditions{
		inv:    inv,
		quests: quests,
		logger: logger,
		cache:  make(map[string]*tengo.Compiled),
	}
}

// Eval runs expr and reports its truthiness. An empty expression is true.
func (c *Conditions) Eval(expr string) (bool, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true, nil
	}
	compiled, err := c.compile(expr)
	if err != nil {
		return false, err
	}
	if err := compiled.Run(); err != nil {
		return false, fmt.Errorf("dialogue: run condition %q: %w", expr, err)
	}
	return compiled.Get(conditionResultVar).Bool(), nil
}

// Visible evaluates a response condition, hiding the response on error.
func (c *Conditions) Visible(r *Response) bool {
	if r == nil {
		return false
	}
	if c == nil || strings.TrimSpace(r.Condition) == "" {
		return true
	}
	ok, err := c.Eval(r.Condition)
	if err != nil {
		c.logger.Warn("dialogue condition failed", zap.String("condition", r.Condition), zap.Error(err))
		return false
	}
	return ok
}

func (c *Conditions) compile(expr string) (*tengo.Compiled, error) {
	if compiled, ok := c.cache[expr]; ok {
		return compiled, nil
	}

	script := tengo.NewScript([]byte(conditionResultVar + " := (" + expr + ")"))
	script.SetImports(stdlib.GetModuleMap("text", "math"))
	for name, fn := range c.builtins() {
		if err := script.Add(name, fn); err != nil {
			return nil, fmt.Errorf("dialogue: bind %s: %w", name, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("dialogue: compile condition %q: %w", expr, err)
	}
	c.cache[expr] = compiled
	return compiled, nil
}

func (c *Conditions) builtins() map[string]*tengo.UserFunction {
	return map[string]*tengo.UserFunction{
		"has_item": {Name: "has_item", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			id, ok := tengo.ToString(args[0])
			if !ok || c.inv == nil {
				return tengo.FalseValue, nil
			}
			return boolObject(c.inv.HasItem(id)), nil
		}},
		"quest_active": {Name: "quest_active", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if c.quests == nil || c.quests.Current() == nil {
				return &tengo.String{Value: ""}, nil
			}
			return &tengo.String{Value: c.quests.Current().ID}, nil
		}},
		"goal_achieved": {Name: "goal_achieved", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if c.quests == nil || c.inv == nil {
				return tengo.FalseValue, nil
			}
			cur := c.quests.Current()
			if cur == nil {
				return tengo.FalseValue, nil
			}
			return boolObject(c.inv.HasItem(cur.ItemID)), nil
		}},
		"quest_completed": {Name: "quest_completed", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			id, ok := tengo.ToString(args[0])
			if !ok || c.quests == nil {
				return tengo.FalseValue, nil
			}
			return boolObject(c.quests.Completed(id)), nil
		}},
	}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
