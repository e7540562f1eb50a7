package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-recommendation/internal/campaign"
	"campaign-recommendation/internal/platform/memory"
)

func stored(id, name string, createdAt time.Time) *campaign.Campaign {
	return &campaign.Campaign{
		ID:        id,
		Name:      name,
		Objective: "objective",
		Category:  "footwear",
		Targeting: campaign.Targeting{Segments: []string{"vip"}},
		Variation: &campaign.Variation{WidgetType: "product_cards", HTML: "<div/>", CSS: ".x{}", Text: "Buy"},
		Status:    campaign.StatusActive,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	c := stored("c1", "Summer Sale", time.Now().UTC())
	require.NoError(t, s.Create(ctx, c))

	got, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Summer Sale", got.Name)

	byName, err := s.GetByName(ctx, "Summer Sale")
	require.NoError(t, err)
	assert.Equal(t, "c1", byName.ID)
}

func TestStoreCreate_DuplicateName(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, stored("c1", "Summer Sale", time.Now())))
	err := s.Create(ctx, stored("c2", "Summer Sale", time.Now()))
	assert.ErrorIs(t, err, campaign.ErrDuplicateName)

	// The failed create must not leave a second record behind.
	_, total, err := s.List(ctx, campaign.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	_, err = s.Get(ctx, "c2")
	assert.ErrorIs(t, err, campaign.ErrNotFound)
}

func TestStoreGet_NotFound(t *testing.T) {
	s := memory.NewStore()
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, campaign.ErrNotFound)
	_, err = s.GetByName(context.Background(), "missing")
	assert.ErrorIs(t, err, campaign.ErrNotFound)
}

func TestStoreList_NewestFirst(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, s.Create(ctx, stored("c1", "Oldest", base.Add(-2*time.Hour))))
	require.NoError(t, s.Create(ctx, stored("c2", "Middle", base.Add(-time.Hour))))
	require.NoError(t, s.Create(ctx, stored("c3", "Newest", base)))

	out, total, err := s.List(ctx, campaign.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, out, 3)
	assert.Equal(t, "Newest", out[0].Name)
	assert.Equal(t, "Middle", out[1].Name)
	assert.Equal(t, "Oldest", out[2].Name)
}

func TestStoreList_Filters(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	now := time.Now().UTC()

	active := stored("c1", "Active Footwear", now)
	paused := stored("c2", "Paused Footwear", now)
	paused.Status = campaign.StatusPaused
	tennis := stored("c3", "Active Tennis", now)
	tennis.Category = "Tennis"
	require.NoError(t, s.Create(ctx, active))
	require.NoError(t, s.Create(ctx, paused))
	require.NoError(t, s.Create(ctx, tennis))

	out, total, err := s.List(ctx, campaign.ListFilter{Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, out, 2)

	// Category is case-insensitive; "all" disables the filter.
	out, _, err = s.List(ctx, campaign.ListFilter{Category: "tennis"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Active Tennis", out[0].Name)

	_, total, err = s.List(ctx, campaign.ListFilter{Category: "ALL"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestStoreList_Pagination(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		c := stored(fmt.Sprintf("c%d", i), fmt.Sprintf("Campaign %d", i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.Create(ctx, c))
	}

	out, total, err := s.List(ctx, campaign.ListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, out, 2)
	assert.Equal(t, "Campaign 2", out[0].Name)
	assert.Equal(t, "Campaign 1", out[1].Name)

	// Offset past the end is empty, not an error.
	out, total, err = s.List(ctx, campaign.ListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, out)
}

func TestStoreUpdate(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	created := time.Now().UTC().Add(-time.Hour)

	require.NoError(t, s.Create(ctx, stored("c1", "Summer Sale", created)))

	name := "Autumn Sale"
	status := campaign.StatusPaused
	got, err := s.Update(ctx, "c1", campaign.UpdateFields{Name: &name, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)
	assert.Equal(t, "Autumn Sale", got.Name)
	assert.Equal(t, campaign.StatusPaused, got.Status)
	assert.Equal(t, created, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(created))

	// The name index follows the rename.
	_, err = s.GetByName(ctx, "Summer Sale")
	assert.ErrorIs(t, err, campaign.ErrNotFound)
	byName, err := s.GetByName(ctx, "Autumn Sale")
	require.NoError(t, err)
	assert.Equal(t, "c1", byName.ID)
}

func TestStoreUpdate_RenameToTakenName(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, stored("c1", "One", time.Now())))
	require.NoError(t, s.Create(ctx, stored("c2", "Two", time.Now())))

	name := "One"
	_, err := s.Update(ctx, "c2", campaign.UpdateFields{Name: &name})
	assert.ErrorIs(t, err, campaign.ErrDuplicateName)

	got, err := s.Get(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, "Two", got.Name)
}

func TestStoreUpdate_NotFound(t *testing.T) {
	s := memory.NewStore()
	_, err := s.Update(context.Background(), "missing", campaign.UpdateFields{})
	assert.ErrorIs(t, err, campaign.ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, stored("c1", "Summer Sale", time.Now())))

	removed, err := s.Delete(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Summer Sale", removed.Name)

	_, err = s.Get(ctx, "c1")
	assert.ErrorIs(t, err, campaign.ErrNotFound)
	_, err = s.GetByName(ctx, "Summer Sale")
	assert.ErrorIs(t, err, campaign.ErrNotFound)

	// The freed name can be reused.
	require.NoError(t, s.Create(ctx, stored("c2", "Summer Sale", time.Now())))
}

func TestStoreClear(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, stored("c1", "One", time.Now())))
	require.NoError(t, s.Create(ctx, stored("c2", "Two", time.Now())))

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, total, err := s.List(ctx, campaign.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestStoreReturnsCopies(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, stored("c1", "Summer Sale", time.Now())))

	got, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	got.Variation.HTML = "mutated"
	got.Targeting.Segments[0] = "mutated"

	fresh, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "<div/>", fresh.Variation.HTML)
	assert.Equal(t, []string{"vip"}, fresh.Targeting.Segments)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := stored(fmt.Sprintf("c%d", i), fmt.Sprintf("Campaign %d", i), time.Now())
			assert.NoError(t, s.Create(ctx, c))
			_, _, _ = s.List(ctx, campaign.ListFilter{Status: "active"})
			_, _ = s.Get(ctx, c.ID)
		}(i)
	}
	wg.Wait()

	_, total, err := s.List(ctx, campaign.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 20, total)
}
