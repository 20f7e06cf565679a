package prefabs

import (
	"fmt"
	"path"
	"strings"

	"github.com/milk9111/hideseek/dialogue"
	"github.com/milk9111/hideseek/inventory"
	"github.com/milk9111/hideseek/nav"
	"github.com/milk9111/hideseek/quest"
)

func BuildQuest(spec QuestSpec) *quest.Quest {
	return &quest.Quest{
		ID:          spec.ID,
		Name:        spec.Name,
		Description: spec.Description,
		Icon:        spec.Icon,
		ItemID:      spec.Item,
		Reward: quest.Reward{
			Prefab: spec.Reward.Prefab,
			Offset: spec.Reward.Offset,
		},
	}
}

// LoadQuests builds every quest under quests/, keyed by quest ID.
func LoadQuests() (map[string]*quest.Quest, error) {
	files, err := List("quests")
	if err != nil {
		return nil, fmt.Errorf("prefabs: list quests: %w", err)
	}
	quests := make(map[string]*quest.Quest, len(files))
	for _, f := range files {
		spec, err := LoadQuestSpec(f)
		if err != nil {
			return nil, err
		}
		if _, dup := quests[spec.ID]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate quest id %q", ErrInvalidSpec, f, spec.ID)
		}
		quests[spec.ID] = BuildQuest(*spec)
	}
	return quests, nil
}

// BuildDialogue links a node table into a dialogue asset. Nodes are shared:
// every reference to an ID resolves to the same *dialogue.Node.
func BuildDialogue(spec DialogueSpec, quests map[string]*quest.Quest) (*dialogue.Asset, error) {
	nodes := make(map[string]*dialogue.Node, len(spec.Nodes))
	for _, ns := range spec.Nodes {
		if _, dup := nodes[ns.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrInvalidSpec, ns.ID)
		}
		nodes[ns.ID] = &dialogue.Node{ID: ns.ID, Text: ns.Text, Repeating: ns.Repeating}
	}

	lookupQuest := func(id string) (*quest.Quest, error) {
		if id == "" {
			return nil, nil
		}
		q, ok := quests[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown quest %q", ErrInvalidSpec, id)
		}
		return q, nil
	}
	ref := func(field, id string) (*dialogue.Node, error) {
		if id == "" {
			return nil, nil
		}
		n, ok := nodes[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s refers to unknown node %q", ErrInvalidSpec, field, id)
		}
		return n, nil
	}

	for _, ns := range spec.Nodes {
		node := nodes[ns.ID]
		for i, rs := range ns.Responses {
			next, err := ref(fmt.Sprintf("%s.responses[%d].next", ns.ID, i), rs.Next)
			if err != nil {
				return nil, err
			}
			q, err := lookupQuest(rs.ActivateQuest)
			if err != nil {
				return nil, err
			}
			node.Responses = append(node.Responses, &dialogue.Response{
				Text:          rs.Text,
				Next:          next,
				ActivateQuest: q,
				FinishQuest:   rs.FinishQuest,
				Condition:     strings.TrimSpace(rs.Condition),
			})
		}
	}

	asset := &dialogue.Asset{}
	var err error
	if asset.Root, err = ref("root", spec.Root); err != nil {
		return nil, err
	}
	if asset.Root == nil {
		return nil, fmt.Errorf("%w: dialogue has no root", ErrInvalidSpec)
	}
	if asset.QuestSuccess, err = ref("quest_success", spec.QuestSuccess); err != nil {
		return nil, err
	}
	if asset.QuestReminder, err = ref("quest_reminder", spec.QuestReminder); err != nil {
		return nil, err
	}
	if asset.Completed, err = ref("completed", spec.Completed); err != nil {
		return nil, err
	}
	if asset.Quest, err = lookupQuest(spec.Quest); err != nil {
		return nil, err
	}
	return asset, nil
}

// LoadDialogue loads and links dialogues/<name>.
func LoadDialogue(name string, quests map[string]*quest.Quest) (*dialogue.Asset, error) {
	file := specPath("dialogues", name)
	spec, err := LoadDialogueSpec(file)
	if err != nil {
		return nil, err
	}
	asset, err := BuildDialogue(*spec, quests)
	if err != nil {
		return nil, fmt.Errorf("prefabs: build %s: %w", file, err)
	}
	return asset, nil
}

// LevelPath resolves a level name like "meadow" to its prefab file.
func LevelPath(name string) string {
	return specPath("levels", name)
}

// specPath puts a bare name under dir and adds the .yaml extension.
func specPath(dir, name string) string {
	clean := cleanPrefabPath(name)
	if !strings.HasPrefix(clean, dir+"/") {
		clean = path.Join(dir, clean)
	}
	if !isSpecFile(clean) {
		clean += ".yaml"
	}
	return clean
}

// Item returns the catalog entry for id.
func (s *ItemsSpec) Item(id string) (inventory.Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return inventory.Item{ID: it.ID, Name: it.Name, Icon: it.Icon}, true
		}
	}
	return inventory.Item{}, false
}

// ItemForPrefab returns the item a pickup prefab grants.
func (s *ItemsSpec) ItemForPrefab(prefab string) (inventory.Item, bool) {
	id, ok := s.Pickups[prefab]
	if !ok {
		return inventory.Item{}, false
	}
	return s.Item(id)
}

// PrefabForItem returns the pickup prefab that grants id, used when an item
// is dropped back into the world.
func (s *ItemsSpec) PrefabForItem(id string) (string, bool) {
	for prefab, item := range s.Pickups {
		if item == id {
			return prefab, true
		}
	}
	return "", false
}

// BuildGrid turns the level rows into a navigation grid.
func BuildGrid(spec LevelSpec) (*nav.Grid, error) {
	g, err := nav.ParseGrid(spec.Rows, spec.CellSize)
	if err != nil {
		return nil, fmt.Errorf("prefabs: level %s: %w", spec.Name, err)
	}
	return g, nil
}
