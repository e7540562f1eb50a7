package campaign

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProductCatalog exposes the product list used when generating widgets.
type ProductCatalog interface {
	Products(ctx context.Context) ([]Product, error)
}

// ProfileDirectory resolves stored user profiles to the segment tags used
// for matching. A nil slice means no profile is available for the id.
type ProfileDirectory interface {
	SegmentTags(ctx context.Context, id string) ([]string, error)
}

// Service implements campaign business logic. The store is the source of
// truth; the repository, generator, catalog and profile directory are
// optional collaborators and may be nil.
type Service struct {
	store    Store
	repo     Repository
	gen      Generator
	catalog  ProductCatalog
	profiles ProfileDirectory
	logger   *slog.Logger
}

// Deps bundles the service's collaborators.
type Deps struct {
	Store    Store
	Repo     Repository
	Gen      Generator
	Catalog  ProductCatalog
	Profiles ProfileDirectory
	Logger   *slog.Logger
}

func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    d.Store,
		repo:     d.Repo,
		gen:      d.Gen,
		catalog:  d.Catalog,
		profiles: d.Profiles,
		logger:   logger,
	}
}

// Create validates and persists a new campaign in active status.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Campaign, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "campaignName", Reason: "is required"}
	}
	if strings.TrimSpace(in.Objective) == "" {
		return nil, &ValidationError{Field: "campaignObjective", Reason: "is required"}
	}
	if in.Variation == nil || !in.Variation.Complete() {
		return nil, &ValidationError{Field: "variation", Reason: "html, css and text are all required"}
	}

	category := in.Category
	if category == "" {
		category = "all"
	}

	now := time.Now().UTC()
	v := *in.Variation
	if v.WidgetType == "" {
		v.WidgetType = "product_cards"
	}
	c := &Campaign{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Objective: in.Objective,
		Category:  category,
		Notes:     in.Notes,
		Targeting: in.Targeting,
		Products:  in.Products,
		Variation: &v,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	s.syncOne(ctx, c)
	s.logger.Info("campaign saved", "id", c.ID, "name", c.Name)
	return c, nil
}

// Get returns a single campaign by id.
func (s *Service) Get(ctx context.Context, id string) (*Campaign, error) {
	return s.store.Get(ctx, id)
}

// GetByName looks a campaign up through the name index.
func (s *Service) GetByName(ctx context.Context, name string) (*Campaign, error) {
	return s.store.GetByName(ctx, name)
}

// List returns campaigns matching the filter, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Campaign, int, error) {
	return s.store.List(ctx, f)
}

// Update applies a partial update and re-syncs the hot path.
func (s *Service) Update(ctx context.Context, id string, u UpdateFields) (*Campaign, error) {
	if u.Variation != nil && !u.Variation.Complete() {
		return nil, &ValidationError{Field: "variation", Reason: "html, css and text are all required"}
	}
	c, err := s.store.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}
	s.syncOne(ctx, c)
	return c, nil
}

// Delete removes a campaign from the store and the hot path.
func (s *Service) Delete(ctx context.Context, id string) (*Campaign, error) {
	c, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.repo != nil {
		if err := s.repo.RemoveCampaign(ctx, id); err != nil {
			s.logger.Warn("hot-path removal failed", "id", id, "error", err)
		}
	}
	return c, nil
}

// Clear removes every campaign and returns how many were removed.
func (s *Service) Clear(ctx context.Context) (int, error) {
	n, err := s.store.Clear(ctx)
	if err != nil {
		return 0, err
	}
	if s.repo != nil {
		if err := s.repo.Clear(ctx); err != nil {
			s.logger.Warn("hot-path clear failed", "error", err)
		}
	}
	return n, nil
}

// Recommend selects the best active campaign for a visitor. A nil result
// with a nil error means "no recommendation available" and is not a failure.
// When profileID names a stored user profile, its segment tags are merged
// into the visitor profile before matching.
func (s *Service) Recommend(ctx context.Context, profile *VisitorProfile, profileID string) (*Match, error) {
	if profileID != "" && s.profiles != nil {
		tags, err := s.profiles.SegmentTags(ctx, profileID)
		if err != nil {
			return nil, fmt.Errorf("resolve profile %s: %w", profileID, err)
		}
		if len(tags) > 0 {
			if profile == nil {
				profile = &VisitorProfile{}
			}
			profile.Segments = mergeTags(profile.Segments, tags)
		}
	}

	pool, err := s.activePool(ctx)
	if err != nil {
		return nil, err
	}
	return SelectBestCampaign(pool, profile), nil
}

// activePool reads active campaigns from the hot path when available,
// falling back to the store.
func (s *Service) activePool(ctx context.Context) ([]Campaign, error) {
	if s.repo != nil {
		pool, err := s.repo.ActiveCampaigns(ctx)
		if err == nil {
			return pool, nil
		}
		s.logger.Warn("hot-path read failed, falling back to store", "error", err)
	}
	pool, _, err := s.store.List(ctx, ListFilter{Status: string(StatusActive)})
	if err != nil {
		return nil, fmt.Errorf("list active campaigns: %w", err)
	}
	return pool, nil
}

// GenerateVariations produces n creative variations for a campaign
// objective, optionally restricted to one product category.
func (s *Service) GenerateVariations(ctx context.Context, objective, category, additionalPrompt string, n int) ([]Variation, []Product, error) {
	if strings.TrimSpace(objective) == "" {
		return nil, nil, &ValidationError{Field: "campaignObjective", Reason: "is required"}
	}
	if s.gen == nil || s.catalog == nil {
		return nil, nil, fmt.Errorf("content generation is not configured")
	}
	if n <= 0 {
		n = 3
	}

	all, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load products: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("no products available")
	}

	products := all
	if c := strings.TrimSpace(category); c != "" && !strings.EqualFold(c, "all") {
		products = nil
		for _, p := range all {
			if strings.EqualFold(p.Category, c) {
				products = append(products, p)
			}
		}
		if len(products) == 0 {
			return nil, nil, &ValidationError{
				Field:  "category",
				Reason: "no products found for category: " + c + " (available: " + strings.Join(categoriesOf(all), ", ") + ")",
			}
		}
	}

	variations := make([]Variation, 0, n)
	for i := 0; i < n; i++ {
		v, err := s.gen.Generate(ctx, objective, products, StyleParams{
			WidgetType:       "product_cards",
			AdditionalPrompt: additionalPrompt,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("generate variation %d: %w", i+1, err)
		}
		variations = append(variations, *v)
	}
	return variations, products, nil
}

// SyncAll pushes every stored campaign into the hot path.
func (s *Service) SyncAll(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, fmt.Errorf("no hot path configured")
	}
	all, _, err := s.store.List(ctx, ListFilter{})
	if err != nil {
		return 0, err
	}
	for i := range all {
		if err := s.repo.SaveCampaign(ctx, &all[i]); err != nil {
			return 0, fmt.Errorf("sync campaign %s: %w", all[i].ID, err)
		}
	}
	return len(all), nil
}

func (s *Service) syncOne(ctx context.Context, c *Campaign) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveCampaign(ctx, c); err != nil {
		s.logger.Warn("hot-path sync failed", "id", c.ID, "error", err)
	}
}

// categoriesOf returns the distinct product categories in catalog order.
func categoriesOf(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	var out []string
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

func mergeTags(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, v := range append(append([]string{}, a...), b...) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
