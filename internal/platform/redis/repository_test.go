package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-recommendation/internal/campaign"
	platformredis "campaign-recommendation/internal/platform/redis"
)

func newTestRepository(t *testing.T) (*platformredis.Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hits := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_hits"}, []string{"source"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_misses"}, []string{"source"})
	return platformredis.NewRepository(rdb, hits, misses), mr
}

func cached(id, name string, createdAt time.Time) *campaign.Campaign {
	return &campaign.Campaign{
		ID:        id,
		Name:      name,
		Objective: "objective",
		Category:  "all",
		Targeting: campaign.Targeting{Segments: []string{"vip"}},
		Variation: &campaign.Variation{WidgetType: "product_cards", HTML: "<div/>", CSS: ".x{}", Text: "Buy"},
		Status:    campaign.StatusActive,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestRepositorySaveAndRead(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.SaveCampaign(ctx, cached("c1", "Summer Sale", now)))

	assert.True(t, mr.Exists("campaign:c1:meta"))
	members, err := mr.ZMembers("campaigns:active")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, members)

	out, err := repo.ActiveCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Summer Sale", out[0].Name)
	assert.Equal(t, []string{"vip"}, out[0].Targeting.Segments)
}

func TestRepositoryActiveCampaigns_NewestFirst(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, repo.SaveCampaign(ctx, cached("old", "Oldest", base.Add(-2*time.Hour))))
	require.NoError(t, repo.SaveCampaign(ctx, cached("new", "Newest", base)))
	require.NoError(t, repo.SaveCampaign(ctx, cached("mid", "Middle", base.Add(-time.Hour))))

	out, err := repo.ActiveCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "Newest", out[0].Name)
	assert.Equal(t, "Middle", out[1].Name)
	assert.Equal(t, "Oldest", out[2].Name)
}

func TestRepositorySave_NonMatchableLeavesActiveSet(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.SaveCampaign(ctx, cached("c1", "Summer Sale", now)))

	paused := cached("c1", "Summer Sale", now)
	paused.Status = campaign.StatusPaused
	require.NoError(t, repo.SaveCampaign(ctx, paused))

	// The meta blob survives for detail reads but the campaign no longer
	// participates in matching.
	assert.True(t, mr.Exists("campaign:c1:meta"))
	out, err := repo.ActiveCampaigns(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRepositoryRemoveCampaign(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCampaign(ctx, cached("c1", "Summer Sale", time.Now())))
	require.NoError(t, repo.RemoveCampaign(ctx, "c1"))

	assert.False(t, mr.Exists("campaign:c1:meta"))
	out, err := repo.ActiveCampaigns(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRepositoryActiveCampaigns_SkipsMissingMeta(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.SaveCampaign(ctx, cached("c1", "Kept", now)))
	require.NoError(t, repo.SaveCampaign(ctx, cached("c2", "Dropped", now.Add(time.Minute))))
	mr.Del("campaign:c2:meta")

	out, err := repo.ActiveCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Kept", out[0].Name)
}

func TestRepositoryClear(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCampaign(ctx, cached("c1", "One", time.Now())))
	require.NoError(t, repo.SaveCampaign(ctx, cached("c2", "Two", time.Now())))

	require.NoError(t, repo.Clear(ctx))

	assert.False(t, mr.Exists("campaigns:active"))
	assert.False(t, mr.Exists("campaign:c1:meta"))
	assert.False(t, mr.Exists("campaign:c2:meta"))

	out, err := repo.ActiveCampaigns(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}
