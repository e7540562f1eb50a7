package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"campaign-recommendation/internal/campaign"
)

// Store is the default campaign store: a process-lifetime map guarded by a
// single mutex so create/update/delete are atomic and readers always see
// fully written campaigns. Campaigns are keyed by id with a secondary
// name index.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]*campaign.Campaign
	byName map[string]string // name -> id
}

func NewStore() *Store {
	return &Store{
		byID:   make(map[string]*campaign.Campaign),
		byName: make(map[string]string),
	}
}

func (s *Store) Create(_ context.Context, c *campaign.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[c.Name]; ok {
		return campaign.ErrDuplicateName
	}
	cp := clone(c)
	s.byID[cp.ID] = cp
	s.byName[cp.Name] = cp.ID
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*campaign.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, campaign.ErrNotFound
	}
	return clone(c), nil
}

func (s *Store) GetByName(_ context.Context, name string) (*campaign.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, campaign.ErrNotFound
	}
	return clone(s.byID[id]), nil
}

func (s *Store) List(_ context.Context, f campaign.ListFilter) ([]campaign.Campaign, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []campaign.Campaign
	for _, c := range s.byID {
		if f.Status != "" && string(c.Status) != f.Status {
			continue
		}
		if !f.Wildcard() && !strings.EqualFold(c.Category, f.Category) {
			continue
		}
		out = append(out, *clone(c))
	}

	// Newest first; the matcher's tie-break relies on this order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := len(out)
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, total, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (s *Store) Update(_ context.Context, id string, u campaign.UpdateFields) (*campaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, campaign.ErrNotFound
	}

	if u.Name != nil && *u.Name != c.Name {
		if _, taken := s.byName[*u.Name]; taken {
			return nil, campaign.ErrDuplicateName
		}
		delete(s.byName, c.Name)
		c.Name = *u.Name
		s.byName[c.Name] = id
	}
	if u.Objective != nil {
		c.Objective = *u.Objective
	}
	if u.Category != nil {
		c.Category = *u.Category
	}
	if u.Notes != nil {
		c.Notes = *u.Notes
	}
	if u.Targeting != nil {
		c.Targeting = *u.Targeting
	}
	if u.Products != nil {
		c.Products = append([]campaign.Product(nil), (*u.Products)...)
	}
	if u.Variation != nil {
		v := *u.Variation
		c.Variation = &v
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	c.UpdatedAt = time.Now().UTC()

	return clone(c), nil
}

func (s *Store) Delete(_ context.Context, id string) (*campaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, campaign.ErrNotFound
	}
	delete(s.byID, id)
	delete(s.byName, c.Name)
	return c, nil
}

func (s *Store) Clear(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.byID)
	s.byID = make(map[string]*campaign.Campaign)
	s.byName = make(map[string]string)
	return n, nil
}

// clone copies a campaign deeply enough that callers can never mutate
// stored state through a returned pointer.
func clone(c *campaign.Campaign) *campaign.Campaign {
	cp := *c
	if c.Variation != nil {
		v := *c.Variation
		cp.Variation = &v
	}
	cp.Products = append([]campaign.Product(nil), c.Products...)
	cp.Targeting.Segments = append([]string(nil), c.Targeting.Segments...)
	cp.Targeting.Interests = append([]string(nil), c.Targeting.Interests...)
	cp.Targeting.Behaviors = append([]string(nil), c.Targeting.Behaviors...)
	return &cp
}
