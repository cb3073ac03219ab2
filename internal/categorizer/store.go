package categorizer

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"bankmerge/internal/logging"
	"bankmerge/internal/models"
	"bankmerge/internal/txerror"
)

// rulesFile is the on-disk shape of a category rules file.
type rulesFile struct {
	Categories []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"categories"`
}

// RuleStore loads category rule tables from YAML files.
type RuleStore struct {
	Path   string
	logger logging.Logger
}

// NewRuleStore creates a store for the given rules file path.
// An empty path means the built-in defaults are used.
func NewRuleStore(path string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &RuleStore{Path: path, logger: logger}
}

// Load returns the rule table from the configured file, or the built-in
// defaults when no path is configured.
func (s *RuleStore) Load() ([]RuleSet, error) {
	if s.Path == "" {
		s.logger.Debug("no rules file configured, using built-in rule table")
		return DefaultRuleSets(), nil
	}

	path, err := s.resolve(s.Path)
	if err != nil {
		return nil, fmt.Errorf("error locating rules file: %w", err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &txerror.RuleError{File: path, Reason: "not valid YAML", Err: err}
	}

	sets := make([]RuleSet, 0, len(file.Categories))
	for _, entry := range file.Categories {
		category, ok := models.CategoryFromName(entry.Name)
		if !ok {
			return nil, &txerror.RuleError{
				File:   path,
				Reason: fmt.Sprintf("unknown category %q", entry.Name),
			}
		}
		sets = append(sets, RuleSet{Category: category, Keywords: entry.Keywords})
	}

	s.logger.Info("loaded category rules",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(sets)})
	return sets, nil
}

// resolve finds a rules file in the standard locations: as given, under
// ./config, or under the user's config directory.
func (s *RuleStore) resolve(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err != nil {
			return "", err
		}
		return filename, nil
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "bank-merge", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}
