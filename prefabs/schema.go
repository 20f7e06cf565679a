package prefabs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

// Kind names a family of prefab files sharing one schema.
type Kind string

const (
	KindNPC      Kind = "npc"
	KindDialogue Kind = "dialogue"
	KindQuest    Kind = "quest"
	KindItems    Kind = "items"
	KindLevel    Kind = "level"
)

var kinds = []Kind{KindNPC, KindDialogue, KindQuest, KindItems, KindLevel}

// KindOf classifies a prefab path by its directory.
func KindOf(name string) (Kind, bool) {
	clean := cleanPrefabPath(name)
	if !isSpecFile(clean) {
		return "", false
	}
	if path.Base(clean) == "items.yaml" {
		return KindItems, true
	}
	switch {
	case strings.HasPrefix(clean, "npcs/"):
		return KindNPC, true
	case strings.HasPrefix(clean, "dialogues/"):
		return KindDialogue, true
	case strings.HasPrefix(clean, "quests/"):
		return KindQuest, true
	case strings.HasPrefix(clean, "levels/"):
		return KindLevel, true
	}
	return "", false
}

var (
	schemasOnce sync.Once
	schemas     map[Kind]*jsonschema.Schema
	schemasErr  error
)

func compileSchemas() {
	c := jsonschema.NewCompiler()
	schemas = make(map[Kind]*jsonschema.Schema, len(kinds))
	for _, k := range kinds {
		name := schemaName(k)
		data, err := SchemasFS.ReadFile(name)
		if err != nil {
			schemasErr = fmt.Errorf("prefabs: read %s: %w", name, err)
			return
		}
		if err := c.AddResource(name, bytes.NewReader(data)); err != nil {
			schemasErr = fmt.Errorf("prefabs: add schema %s: %w", name, err)
			return
		}
	}
	for _, k := range kinds {
		s, err := c.Compile(schemaName(k))
		if err != nil {
			schemasErr = fmt.Errorf("prefabs: compile schema %s: %w", k, err)
			return
		}
		schemas[k] = s
	}
}

func schemaName(k Kind) string {
	return "schemas/" + string(k) + ".schema.json"
}

// Validate checks raw YAML against the schema for kind.
func Validate(kind Kind, data []byte) error {
	schemasOnce.Do(compileSchemas)
	if schemasErr != nil {
		return schemasErr
	}
	s, ok := schemas[kind]
	if !ok {
		return fmt.Errorf("prefabs: no schema for %q", kind)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("prefabs: parse: %w", err)
	}
	// The validator expects encoding/json shapes.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("prefabs: normalize: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return fmt.Errorf("prefabs: normalize: %w", err)
	}

	if err := s.Validate(normalized); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSpec, kind, err)
	}
	return nil
}
