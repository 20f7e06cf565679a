package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed items.yaml npcs/*.yaml dialogues/*.yaml quests/*.yaml levels/*.yaml
var PrefabsFS embed.FS

//go:embed schemas/*.json
var SchemasFS embed.FS

// Load reads a prefab file. A copy under ./prefabs on disk wins over the
// embedded one so edits can be hot reloaded.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

// List returns the YAML files in dir, embedded and on disk, sorted.
func List(dir string) ([]string, error) {
	dir = strings.TrimSuffix(cleanPrefabPath(dir), "/")
	seen := make(map[string]bool)

	entries, err := fs.ReadDir(PrefabsFS, dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	for _, e := range entries {
		if !e.IsDir() && isSpecFile(e.Name()) {
			seen[path.Join(dir, e.Name())] = true
		}
	}

	if disk, err := os.ReadDir(diskPrefabPath(dir)); err == nil {
		for _, e := range disk {
			if !e.IsDir() && isSpecFile(e.Name()) {
				seen[path.Join(dir, e.Name())] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
