// Package profile provides read-only lookup over the externally maintained
// user-profile catalog. The catalog is a JSON file reloaded on every lookup;
// this system never writes to it.
package profile

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
)

// UserProfile is one entry in the static profile catalog.
type UserProfile struct {
	ID                  string      `json:"id"`
	Permissions         Permissions `json:"permissions"`
	Properties          []Property  `json:"properties"`
	Segments            []Segment   `json:"segments"`
	ConsentedObjectives []string    `json:"consentedObjectives"`
	RefusedObjectives   []string    `json:"refusedObjectives"`
}

type Permissions struct {
	Level string `json:"level"`
}

// Property is an extensible attribute bag entry: an id with its values.
type Property struct {
	ID     string   `json:"id"`
	Values []string `json:"values"`
}

type Segment struct {
	ID string `json:"id"`
}

// PropertyValues returns the values of the named property, or nil.
func (p *UserProfile) PropertyValues(id string) []string {
	for _, prop := range p.Properties {
		if prop.ID == id {
			return prop.Values
		}
	}
	return nil
}

// catalog mirrors the shape of the personas file.
type catalog struct {
	UserProfiles []UserProfile `json:"userProfiles"`
}

// Store looks up user profiles by id. An unreadable or corrupt catalog
// degrades to an empty one: callers must tolerate "no profiles available",
// and a broken file must never turn lookups into failures.
type Store struct {
	path   string
	logger *slog.Logger
}

func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// GetByID returns the profile for id, or nil when id is empty or unknown.
// A nil result is the designed "no profile available" path, not an error.
func (s *Store) GetByID(_ context.Context, id string) *UserProfile {
	if id == "" {
		return nil
	}
	for _, p := range s.load() {
		if p.ID == id {
			cp := p
			return &cp
		}
	}
	return nil
}

// SegmentTags returns the profile's segment ids for matching, or nil when
// the profile does not exist. Implements campaign.ProfileDirectory.
func (s *Store) SegmentTags(ctx context.Context, id string) ([]string, error) {
	p := s.GetByID(ctx, id)
	if p == nil {
		return nil, nil
	}
	tags := make([]string, 0, len(p.Segments))
	for _, seg := range p.Segments {
		tags = append(tags, seg.ID)
	}
	return tags, nil
}

// load reads the catalog fresh from disk. The file is small and externally
// maintained, so rereading keeps lookups current without a watcher.
func (s *Store) load() []UserProfile {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Error("failed to read profile catalog", "path", s.path, "error", err)
		return nil
	}
	var c catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		s.logger.Error("failed to parse profile catalog", "path", s.path, "error", err)
		return nil
	}
	return c.UserProfiles
}
