package prefabs

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/hideseek/npc"
)

// LoadSpec loads, validates and decodes a prefab file into a copy of defaults,
// so keys absent from the file keep their default values.
func LoadSpec[T any](kind Kind, filename string, defaults T) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return DecodeSpec(kind, filename, data, defaults)
}

// DecodeSpec is LoadSpec for bytes already in hand.
func DecodeSpec[T any](kind Kind, filename string, data []byte, defaults T) (T, error) {
	var zero T
	if err := Validate(kind, data); err != nil {
		return zero, fmt.Errorf("prefabs: validate %s: %w", filename, err)
	}
	spec := defaults
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

// NPCSpec describes one hide and seek NPC.
type NPCSpec struct {
	Name     string     `yaml:"name"`
	Speaker  string     `yaml:"speaker"`
	Dialogue string     `yaml:"dialogue"`
	Behavior npc.Config `yaml:"behavior"`
}

func LoadNPCSpec(filename string) (*NPCSpec, error) {
	return DecodeNPCSpec(filename, nil)
}

// DecodeNPCSpec decodes data, or loads filename when data is nil.
func DecodeNPCSpec(filename string, data []byte) (*NPCSpec, error) {
	defaults := NPCSpec{Behavior: npc.DefaultConfig()}
	var (
		spec NPCSpec
		err  error
	)
	if data == nil {
		spec, err = LoadSpec(KindNPC, filename, defaults)
	} else {
		spec, err = DecodeSpec(KindNPC, filename, data, defaults)
	}
	if err != nil {
		return nil, err
	}
	if err := spec.Behavior.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	if spec.Speaker == "" {
		spec.Speaker = spec.Name
	}
	return &spec, nil
}

type DialogueSpec struct {
	Root          string     `yaml:"root"`
	Quest         string     `yaml:"quest"`
	QuestSuccess  string     `yaml:"quest_success"`
	QuestReminder string     `yaml:"quest_reminder"`
	Completed     string     `yaml:"completed"`
	Nodes         []NodeSpec `yaml:"nodes"`
}

type NodeSpec struct {
	ID        string         `yaml:"id"`
	Text      string         `yaml:"text"`
	Repeating bool           `yaml:"repeating"`
	Responses []ResponseSpec `yaml:"responses"`
}

type ResponseSpec struct {
	Text          string `yaml:"text"`
	Next          string `yaml:"next"`
	ActivateQuest string `yaml:"activate_quest"`
	FinishQuest   bool   `yaml:"finish_quest"`
	Condition     string `yaml:"condition"`
}

func LoadDialogueSpec(filename string) (*DialogueSpec, error) {
	spec, err := LoadSpec(KindDialogue, filename, DialogueSpec{})
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type RewardSpec struct {
	Prefab string    `yaml:"prefab"`
	Offset cp.Vector `yaml:"offset"`
}

type QuestSpec struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Icon        string     `yaml:"icon"`
	Item        string     `yaml:"item"`
	Reward      RewardSpec `yaml:"reward"`
}

func LoadQuestSpec(filename string) (*QuestSpec, error) {
	spec, err := LoadSpec(KindQuest, filename, QuestSpec{})
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type ItemSpec struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

// ItemsSpec is the item catalog plus the pickup prefabs that grant each item.
type ItemsSpec struct {
	Items   []ItemSpec        `yaml:"items"`
	Pickups map[string]string `yaml:"pickups"`
}

func LoadItemsSpec() (*ItemsSpec, error) {
	spec, err := LoadSpec(KindItems, "items.yaml", ItemsSpec{})
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type PlayerSpec struct {
	Start cp.Vector   `yaml:"start"`
	Route []cp.Vector `yaml:"route"`
	Speed float64     `yaml:"speed"`
	// Loop restarts the route from its first waypoint once finished.
	Loop  bool        `yaml:"loop"`
	Drops []RouteDrop `yaml:"drops"`
}

// RouteDrop discards Item from the inventory when the player reaches the
// route waypoint with index Waypoint.
type RouteDrop struct {
	Waypoint int    `yaml:"waypoint"`
	Item     string `yaml:"item"`
}

type NPCPlacement struct {
	Spec string     `yaml:"spec"`
	At   cp.Vector  `yaml:"at"`
	Base *cp.Vector `yaml:"base"`
}

// SpeakerPlacement is a stationary quest giver.
type SpeakerPlacement struct {
	Name     string    `yaml:"name"`
	Dialogue string    `yaml:"dialogue"`
	At       cp.Vector `yaml:"at"`
	Radius   float64   `yaml:"radius"`
}

type LevelSpec struct {
	Name     string             `yaml:"name"`
	CellSize float64            `yaml:"cell_size"`
	Rows     []string           `yaml:"rows"`
	Player   PlayerSpec         `yaml:"player"`
	NPCs     []NPCPlacement     `yaml:"npcs"`
	Speakers []SpeakerPlacement `yaml:"speakers"`
}

func LoadLevelSpec(filename string) (*LevelSpec, error) {
	spec, err := LoadSpec(KindLevel, filename, LevelSpec{CellSize: 1, Player: PlayerSpec{Speed: 5}})
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
