package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	ruleFileExt = ".json"
	// schemaFileName is reserved for the JSON schema of rule documents.
	schemaFileName = "schema.json"
)

// ErrNoRules is returned by Load when no document exists for a language.
var ErrNoRules = errors.New("no rule document")

// State is the process-scoped cache behind a Store.
// Rule sets are cached on first successful load and never reloaded; the
// extension index is built at most once. A new process is needed to pick
// up changed documents.
type State struct {
	cache      map[string]*LanguageRuleSet
	index      map[string]string
	indexBuilt bool
}

// NewState creates an empty cache.
func NewState() *State {
	return &State{
		cache: make(map[string]*LanguageRuleSet),
		index: make(map[string]string),
	}
}

// Store loads per-language rule documents from a directory.
type Store struct {
	dir    string
	state  *State
	logger *zap.Logger
}

// NewStore creates a Store reading documents from dir and caching into state.
func NewStore(dir string, state *State, logger *zap.Logger) *Store {
	if state == nil {
		state = NewState()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dir:    dir,
		state:  state,
		logger: logger,
	}
}

// Dir returns the rules directory.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads and parses the document of language, consulting the cache first.
// Only successful loads are cached.
func (s *Store) Load(language string) (*LanguageRuleSet, error) {
	if rules, ok := s.state.cache[language]; ok {
		return rules, nil
	}

	path := filepath.Join(s.dir, language+ruleFileExt)
	rules, err := readRuleFile(path)
	if err != nil {
		return nil, err
	}

	s.state.cache[language] = rules
	return rules, nil
}

// Get returns the rule set of language. A missing or unreadable document
// yields an empty rule set and false so that callers fall back to their
// built-in defaults; a broken document never blocks a check.
func (s *Store) Get(language string) (*LanguageRuleSet, bool) {
	rules, err := s.Load(language)
	if err != nil {
		if !errors.Is(err, ErrNoRules) {
			s.logger.Warn("ignoring rule document",
				zap.String("language", language),
				zap.Error(err))
		}
		return &LanguageRuleSet{}, false
	}
	return rules, true
}

// LanguageFor returns the language registered for the extension of filePath.
func (s *Store) LanguageFor(filePath string) (string, bool) {
	s.buildIndex()

	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == "" {
		return "", false
	}
	language, ok := s.state.index[ext]
	return language, ok
}

// ForFile returns the rule set of the language registered for filePath's extension.
func (s *Store) ForFile(filePath string) (*LanguageRuleSet, string, bool) {
	language, ok := s.LanguageFor(filePath)
	if !ok {
		return &LanguageRuleSet{}, "", false
	}
	rules, ok := s.Get(language)
	return rules, language, ok
}

// Languages lists the languages with a readable document, sorted.
func (s *Store) Languages() []string {
	s.buildIndex()

	seen := make(map[string]struct{})
	for _, language := range s.state.index {
		seen[language] = struct{}{}
	}
	languages := make([]string, 0, len(seen))
	for language := range seen {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages
}

// buildIndex maps every configured extension to its language.
// Documents are read in lexical order; when two documents claim the same
// extension the later one wins and the overwrite is logged.
func (s *Store) buildIndex() {
	if s.state.indexBuilt {
		return
	}
	s.state.indexBuilt = true

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Debug("rules directory unavailable", zap.String("dir", s.dir), zap.Error(err))
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ruleFileExt) || name == schemaFileName {
			continue
		}

		rules, err := readRuleFile(filepath.Join(s.dir, name))
		if err != nil {
			s.logger.Warn("skipping rule document", zap.String("file", name), zap.Error(err))
			continue
		}
		if len(rules.Extensions) == 0 {
			continue
		}

		language := StringOr(rules.Language, strings.TrimSuffix(name, ruleFileExt))
		for _, ext := range rules.Extensions {
			ext = strings.ToLower(ext)
			if previous, ok := s.state.index[ext]; ok && previous != language {
				s.logger.Warn("extension registered by more than one language",
					zap.String("extension", ext),
					zap.String("previous", previous),
					zap.String("language", language))
			}
			s.state.index[ext] = language
		}
	}
}

func readRuleFile(path string) (*LanguageRuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoRules, path)
		}
		return nil, fmt.Errorf("failed to read rule document %s: %w", path, err)
	}

	var rules LanguageRuleSet
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rule document %s: %w", path, err)
	}
	return &rules, nil
}
