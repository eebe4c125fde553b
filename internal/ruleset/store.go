package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage defines the interface for rule set persistence
type Storage interface {
	Load() (*RuleSet, error)
	Save(rs *RuleSet) error
}

// FileStore keeps a rule set in a YAML file
type FileStore struct {
	path string
}

var _ Storage = (*FileStore)(nil)

// NewFileStore creates a file store. A leading ~/ is expanded to the home
// directory.
func NewFileStore(path string) (*FileStore, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return &FileStore{path: path}, nil
}

// Path returns the resolved file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the rule set. A missing file yields a rule set holding one
// default block.
func (s *FileStore) Load() (*RuleSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading rules: %w", err)
	}

	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return &rs, nil
}

// Save writes the rule set, creating the parent directory if needed.
func (s *FileStore) Save(rs *RuleSet) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating rules directory: %w", err)
	}

	data, err := yaml.Marshal(rs)
	if err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
