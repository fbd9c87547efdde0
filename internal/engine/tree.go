// Package engine applies a conversion plan to a disposable copy of a pack
// and orchestrates the full convert run: working tree setup, per-version
// transformation, archive assembly, and cleanup.
package engine

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// WorkingTree is an exclusive, disposable copy of a source pack. It is the
// only file hierarchy the engine mutates; the source pack itself is never
// touched. A tree lives exactly as long as one conversion run.
type WorkingTree struct {
	root string
}

// NewWorkingTree copies the pack at srcDir into a fresh temp directory.
// Callers must Close the tree on every exit path.
func NewWorkingTree(srcDir string) (*WorkingTree, error) {
	root, err := os.MkdirTemp("", "packshift-*")
	if err != nil {
		return nil, fmt.Errorf("create working tree: %w", err)
	}

	if err := copyDir(srcDir, root); err != nil {
		os.RemoveAll(root)
		return nil, fmt.Errorf("populate working tree: %w", err)
	}
	return &WorkingTree{root: root}, nil
}

// Root returns the tree's base directory.
func (t *WorkingTree) Root() string { return t.root }

// Path maps a pack-relative slash path to an absolute path inside the tree.
func (t *WorkingTree) Path(rel string) string {
	return filepath.Join(t.root, filepath.FromSlash(rel))
}

// Exists reports whether the pack-relative path is present in the tree.
func (t *WorkingTree) Exists(rel string) bool {
	_, err := os.Stat(t.Path(rel))
	return err == nil
}

// Close removes the tree. Safe to call more than once.
func (t *WorkingTree) Close() error {
	return os.RemoveAll(t.root)
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
