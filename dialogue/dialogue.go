// Package dialogue implements dialogue trees, the modal dialogue session
// that presents them, and the per-NPC speaker that picks where a
// conversation starts.
package dialogue

import "github.com/milk9111/hideseek/quest"

// Node is one screen of a conversation. A node without responses is a leaf.
type Node struct {
	ID        string
	Text      string
	Responses []*Response
	// Repeating nodes are remembered by the speaker once shown and replace
	// the normal entry node afterwards.
	Repeating bool
}

// IsLast reports whether the node has no responses.
func (n *Node) IsLast() bool {
	return n == nil || len(n.Responses) == 0
}

// Response is a player choice. A nil Next ends the conversation.
type Response struct {
	Text          string
	Next          *Node
	ActivateQuest *quest.Quest
	FinishQuest   bool
	// Condition is an optional tengo expression; the response is hidden
	// when it evaluates falsy.
	Condition string
}

// Asset bundles the entry points of one NPC's dialogue.
type Asset struct {
	Root          *Node
	Quest         *quest.Quest
	QuestSuccess  *Node
	QuestReminder *Node
	Completed     *Node
}

// Walk visits every node reachable from the asset's entry points once.
func (a *Asset) Walk(fn func(*Node)) {
	if a == nil || fn == nil {
		return
	}
	seen := make(map[*Node]bool)
	var visit func(n *Node)
	visit = func(n *Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		fn(n)
		for _, r := range n.Responses {
			if r != nil {
				visit(r.Next)
			}
		}
	}
	for _, n := range []*Node{a.Root, a.QuestSuccess, a.QuestReminder, a.Completed} {
		visit(n)
	}
}
