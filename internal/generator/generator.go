// Package generator writes the bundled rule documents into a rules directory.
package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/michael-freling/claude-code-quality-gate/internal/command"
	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
	bundled "github.com/michael-freling/claude-code-quality-gate/rules"
)

const (
	documentExt = ".json"
	schemaName  = "schema"
)

var (
	// ErrNotFound means no bundled document has the requested name.
	ErrNotFound = errors.New("rule document not found")
	// ErrInvalidName means the name would escape the rules directory.
	ErrInvalidName = errors.New("invalid rule document name")
)

// Generator reads rule documents from a file system.
type Generator struct {
	fsys fs.FS
}

// NewGenerator creates a Generator over the bundled documents.
func NewGenerator() *Generator {
	return NewGeneratorWithFS(bundled.FS)
}

// NewGeneratorWithFS creates a Generator over the documents in fsys.
func NewGeneratorWithFS(fsys fs.FS) *Generator {
	return &Generator{
		fsys: fsys,
	}
}

// List returns the names of the bundled documents, sorted.
func (g *Generator) List() ([]string, error) {
	matches, err := fs.Glob(g.fsys, "*"+documentExt)
	if err != nil {
		return nil, fmt.Errorf("failed to list rule documents: %w", err)
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, strings.TrimSuffix(match, documentExt))
	}
	sort.Strings(names)
	return names, nil
}

// Generate returns the document called name. Language documents must decode
// as a rule set.
func (g *Generator) Generate(name string) ([]byte, error) {
	if !isValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	data, err := fs.ReadFile(g.fsys, name+documentExt)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read rule document %s: %w", name, err)
	}

	if name != schemaName {
		var ruleSet rules.LanguageRuleSet
		if err := json.Unmarshal(data, &ruleSet); err != nil {
			return nil, fmt.Errorf("bundled rule document %s is invalid: %w", name, err)
		}
	}
	return data, nil
}

// InitRulesDirectory writes the named documents, or all of them when names is
// empty, into dir and returns the written paths. Nothing is written when a
// target exists and force is not set.
func (g *Generator) InitRulesDirectory(dir string, names []string, force bool) ([]string, error) {
	if len(names) == 0 {
		all, err := g.List()
		if err != nil {
			return nil, err
		}
		names = all
	}

	contents := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := g.Generate(name)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name+documentExt)
		if !force && command.FileExists(path) {
			return nil, fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		contents[path] = data
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	written := make([]string, 0, len(contents))
	for _, name := range names {
		path := filepath.Join(dir, name+documentExt)
		if err := os.WriteFile(path, contents[path], 0644); err != nil {
			return written, fmt.Errorf("failed to write file %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func isValidName(name string) bool {
	if name == "" {
		return false
	}
	if strings.ContainsAny(name, "/\\") {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	return true
}
