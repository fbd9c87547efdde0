package pack

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Category is a fixed enumeration of the texture groups a pack organizes
// its assets under.
type Category int

const (
	Block Category = iota
	Item
	Entity
	GUI
	Particle
)

// Categories lists all texture categories in display order.
var Categories = []Category{Block, Item, Entity, GUI, Particle}

var categoryDirs = map[Category]string{
	Block:    "block",
	Item:     "item",
	Entity:   "entity",
	GUI:      "gui",
	Particle: "particle",
}

func (c Category) String() string { return categoryDirs[c] }

// Dir returns the category's texture directory relative to the pack root.
func (c Category) Dir() string {
	return filepath.Join("assets", "minecraft", "textures", categoryDirs[c])
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// Textures lists the image assets of one category inside packDir,
// recursing into subdirectories. Paths are relative to the category
// directory, slash-separated, sorted. filter, when non-empty, keeps only
// names containing it case-insensitively. A pack without the category's
// directory simply has no textures there.
func Textures(packDir string, c Category, filter string) ([]string, error) {
	root := filepath.Join(packDir, c.Dir())
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	filter = strings.ToLower(filter)
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isImage(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if filter == "" || strings.Contains(strings.ToLower(rel), filter) {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
