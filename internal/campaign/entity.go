package campaign

import (
	"context"
	"strings"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusArchived Status = "archived"
)

// Campaign is a saved, reusable recommendation creative (widget markup plus
// persuasive copy) with the targeting rules it should be delivered under.
type Campaign struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Objective string     `json:"objective"`
	Category  string     `json:"category"`
	Notes     string     `json:"notes,omitempty"`
	Targeting Targeting  `json:"targetingCriteria"`
	Products  []Product  `json:"products,omitempty"`
	Variation *Variation `json:"variation"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Matchable reports whether the campaign may be returned by the matcher:
// it must be active and carry a fully populated variation.
func (c *Campaign) Matchable() bool {
	return c.Status == StatusActive && c.Variation != nil && c.Variation.Complete()
}

// Targeting holds the four optional facets a campaign is aimed at.
// A zero-value facet simply contributes nothing to the match score.
type Targeting struct {
	Segments     []string     `json:"segments,omitempty"`
	Interests    []string     `json:"interests,omitempty"`
	Demographics Demographics `json:"demographics"`
	Behaviors    []string     `json:"behaviors,omitempty"`
}

// Demographics is the demographic facet of a campaign's targeting.
// Both age bounds must be set (non-zero) for the age facet to apply.
type Demographics struct {
	AgeMin   int    `json:"ageMin,omitempty"`
	AgeMax   int    `json:"ageMax,omitempty"`
	Location string `json:"location,omitempty"`
}

// Variation is the generated creative payload embedded by clients.
type Variation struct {
	WidgetType string `json:"widgetType"`
	HTML       string `json:"html"`
	CSS        string `json:"css"`
	Text       string `json:"text"`
}

// Complete reports whether all creative sub-fields required to persist a
// campaign are populated.
func (v *Variation) Complete() bool {
	return v.HTML != "" && v.CSS != "" && v.Text != ""
}

// Product is a catalog item shown inside a widget.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	Stock       int     `json:"stock"`
}

// DiscountedPrice is the effective price after the product's discount.
func (p Product) DiscountedPrice() float64 {
	return p.Price * (1 - p.Discount/100)
}

// VisitorProfile is the caller-supplied description of the person currently
// being matched. It is never persisted.
type VisitorProfile struct {
	Segments     []string            `json:"segments,omitempty"`
	Interests    []string            `json:"interests,omitempty"`
	Demographics VisitorDemographics `json:"demographics"`
	Behaviors    []string            `json:"behaviors,omitempty"`
	Preferences  Preferences         `json:"preferences"`
}

type VisitorDemographics struct {
	Age      int    `json:"age,omitempty"`
	Location string `json:"location,omitempty"`
}

type Preferences struct {
	Categories []string `json:"categories,omitempty"`
}

// Empty reports whether the profile carries no usable signal at all.
// An empty profile can never match, so the matcher bails out early.
func (p *VisitorProfile) Empty() bool {
	return len(p.Segments) == 0 &&
		len(p.Interests) == 0 &&
		len(p.Behaviors) == 0 &&
		len(p.Preferences.Categories) == 0 &&
		p.Demographics.Age == 0 &&
		p.Demographics.Location == ""
}

// Match is the matcher's result: the winning campaign, its additive score,
// and a human-readable trace of the facets that contributed.
type Match struct {
	Campaign Campaign `json:"campaign"`
	Score    int      `json:"score"`
	Reason   string   `json:"matchReason"`
}

// CreateInput holds the fields for saving a new campaign.
type CreateInput struct {
	Name      string     `json:"campaignName"`
	Objective string     `json:"campaignObjective"`
	Category  string     `json:"category"`
	Notes     string     `json:"notes"`
	Targeting Targeting  `json:"targetingCriteria"`
	Products  []Product  `json:"products"`
	Variation *Variation `json:"variation"`
}

// UpdateFields holds the mutable fields for a campaign update.
// Nil fields are not applied; id and createdAt can never be overwritten.
type UpdateFields struct {
	Name      *string    `json:"name,omitempty"`
	Objective *string    `json:"objective,omitempty"`
	Category  *string    `json:"category,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Targeting *Targeting `json:"targetingCriteria,omitempty"`
	Products  *[]Product `json:"products,omitempty"`
	Variation *Variation `json:"variation,omitempty"`
	Status    *Status    `json:"status,omitempty"`
}

// ListFilter controls filtering and pagination for campaign lists.
// Status is an exact match; Category is case-insensitive and the value
// "all" (or empty) means no category filter.
type ListFilter struct {
	Status   string
	Category string
	Limit    int
	Offset   int
}

// Wildcard reports whether the filter's category value disables filtering.
func (f ListFilter) Wildcard() bool {
	return f.Category == "" || strings.EqualFold(f.Category, "all")
}

// Store is the data access contract for campaigns. Implementations must be
// safe for concurrent use; List returns campaigns ordered createdAt DESC.
type Store interface {
	// Create inserts a new campaign. Returns ErrDuplicateName if a campaign
	// with the same name already exists.
	Create(ctx context.Context, c *Campaign) error

	// Get returns a single campaign by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Campaign, error)

	// GetByName looks a campaign up through the name index.
	GetByName(ctx context.Context, name string) (*Campaign, error)

	// List returns campaigns matching the filter plus the unpaginated total.
	List(ctx context.Context, f ListFilter) ([]Campaign, int, error)

	// Update applies non-nil fields and refreshes updatedAt. The stored id
	// and createdAt are never touched. Returns the updated campaign.
	Update(ctx context.Context, id string, u UpdateFields) (*Campaign, error)

	// Delete removes a campaign and returns it.
	Delete(ctx context.Context, id string) (*Campaign, error)

	// Clear removes every campaign and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Repository is the optional hot-path cache for active campaigns (Redis).
// The store stays the source of truth; the service keeps the two in sync.
type Repository interface {
	SaveCampaign(ctx context.Context, c *Campaign) error
	RemoveCampaign(ctx context.Context, id string) error
	ActiveCampaigns(ctx context.Context) ([]Campaign, error)
	Clear(ctx context.Context) error
}

// StyleParams tunes creative generation for one variation.
type StyleParams struct {
	WidgetType       string
	AdditionalPrompt string
}

// Generator produces a creative payload for a campaign objective. The
// implementation is an external collaborator (LLM-backed with deterministic
// fallbacks); the matching core never depends on its internals.
type Generator interface {
	Generate(ctx context.Context, objective string, products []Product, style StyleParams) (*Variation, error)
}
