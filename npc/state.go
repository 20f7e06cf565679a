package npc

import (
	"fmt"
	"strings"
)

// State is the active behavior of an NPC. Exactly one is active at a time.
type State uint8

const (
	StateBase State = iota
	StateIdle
	StateFind
	StateRun
	StateTaunt
	StateDie
	StateDisappear
	StateWaitingForDialogue
)

var stateNames = [...]string{
	StateBase:               "base",
	StateIdle:               "idle",
	StateFind:               "find",
	StateRun:                "run",
	StateTaunt:              "taunt",
	StateDie:                "die",
	StateDisappear:          "disappear",
	StateWaitingForDialogue: "waiting_for_dialogue",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Final reports whether the state has no transitions out.
func (s State) Final() bool {
	return s == StateDie || s == StateDisappear
}

// ParseState accepts the names returned by String. "hide" is an alias for idle.
func ParseState(name string) (State, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "hide" {
		return StateIdle, nil
	}
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return StateBase, fmt.Errorf("npc: unknown state %q", name)
}
