// Package configfile owns the on-disk tracking documents: one config per
// provider plus the shared removal log. Documents are read at run start and
// rewritten wholesale at run end from the run's result values.
package configfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cruisewatch/internal/domain"
)

// ProviderConfig is one provider's tracking document.
type ProviderConfig struct {
	CruiseCodes []string          `json:"cruise_codes"`
	Cabins      map[string]string `json:"cabins"` // cabin type -> category id
	Routes      map[string]string `json:"routes,omitempty"`
	Ships       map[string]string `json:"ships"`
	Ports       map[string]string `json:"ports"`
}

// Name resolves a cruise code to its display name, falling back to the code.
func (c ProviderConfig) Name(code string) string {
	if n, ok := c.Routes[code]; ok && n != "" {
		return n
	}
	return code
}

// Retain replaces the tracked code list and prunes route entries for codes
// that are no longer tracked.
func (c *ProviderConfig) Retain(codes []string) {
	keep := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		keep[code] = struct{}{}
	}
	for code := range c.Routes {
		if _, ok := keep[code]; !ok {
			delete(c.Routes, code)
		}
	}
	c.CruiseCodes = append([]string(nil), codes...)
}

type Store struct{ dir string }

func New(dir string) *Store { return &Store{dir: dir} }

func (s *Store) configPath(p domain.Provider) string {
	return filepath.Join(s.dir, string(p)+"_config.json")
}

func (s *Store) removalPath() string {
	return filepath.Join(s.dir, "removed_cruises.json")
}

func (s *Store) LoadProvider(p domain.Provider) (ProviderConfig, error) {
	var cfg ProviderConfig
	b, err := os.ReadFile(s.configPath(p))
	if err != nil {
		return cfg, fmt.Errorf("read %s config: %w", p, err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s config: %w", p, err)
	}
	return cfg, nil
}

func (s *Store) SaveProvider(p domain.Provider, cfg ProviderConfig) error {
	return writeJSON(s.configPath(p), cfg)
}

func (s *Store) LoadRemovals() ([]domain.RemovalRecord, error) {
	b, err := os.ReadFile(s.removalPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read removal log: %w", err)
	}
	var out []domain.RemovalRecord
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode removal log: %w", err)
	}
	return out, nil
}

// CommitRun persists one provider's post-run state. The removal log is
// written before the pruned config so a crash between the two writes cannot
// drop a cruise from tracking without a record of why.
func (s *Store) CommitRun(p domain.Provider, cfg ProviderConfig, removals []domain.RemovalRecord) error {
	if err := s.SaveRemovals(removals); err != nil {
		return fmt.Errorf("commit %s run: %w", p, err)
	}
	if err := s.SaveProvider(p, cfg); err != nil {
		return fmt.Errorf("commit %s run: %w", p, err)
	}
	return nil
}

func (s *Store) SaveRemovals(rs []domain.RemovalRecord) error {
	if rs == nil {
		rs = []domain.RemovalRecord{}
	}
	return writeJSON(s.removalPath(), rs)
}

// writeJSON writes via a temp file and rename so a crash mid-write cannot
// truncate the tracking documents.
func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
