package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"campaign-recommendation/internal/campaign"
)

const (
	activeKey  = "campaigns:active"
	metaPrefix = "campaign:"
	metaSuffix = ":meta"
)

// Repository mirrors the campaign store into Redis for the recommendation
// hot path. Campaign JSON lives under campaign:<id>:meta; matchable
// campaigns are additionally tracked in the campaigns:active ZSET, scored by
// creation time so ZREVRANGE yields them newest first, the same order the
// matcher's tie-break depends on.
type Repository struct {
	rdb       *redis.Client
	cacheHit  *prometheus.CounterVec
	cacheMiss *prometheus.CounterVec
}

func NewRepository(rdb *redis.Client, cacheHit, cacheMiss *prometheus.CounterVec) *Repository {
	return &Repository{rdb: rdb, cacheHit: cacheHit, cacheMiss: cacheMiss}
}

func metaKey(id string) string {
	return metaPrefix + id + metaSuffix
}

// SaveCampaign writes the campaign's JSON meta and updates its membership in
// the active set in one pipeline.
func (r *Repository) SaveCampaign(ctx context.Context, c *campaign.Campaign) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode campaign %s: %w", c.ID, err)
	}

	pipe := r.rdb.Pipeline()
	pipe.Set(ctx, metaKey(c.ID), raw, 0)
	if c.Matchable() {
		pipe.ZAdd(ctx, activeKey, redis.Z{Score: float64(c.CreatedAt.UnixNano()), Member: c.ID})
	} else {
		pipe.ZRem(ctx, activeKey, c.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save campaign %s: %w", c.ID, err)
	}
	return nil
}

func (r *Repository) RemoveCampaign(ctx context.Context, id string) error {
	pipe := r.rdb.Pipeline()
	pipe.ZRem(ctx, activeKey, id)
	pipe.Del(ctx, metaKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("remove campaign %s: %w", id, err)
	}
	return nil
}

// ActiveCampaigns returns all matchable campaigns, newest first. A campaign
// whose meta blob has gone missing is skipped and counted as a cache miss
// rather than failing the whole read.
func (r *Repository) ActiveCampaigns(ctx context.Context) ([]campaign.Campaign, error) {
	ids, err := r.rdb.ZRevRange(ctx, activeKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read active set: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := r.rdb.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, metaKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("read campaign metas: %w", err)
	}

	out := make([]campaign.Campaign, 0, len(ids))
	for i, cmd := range cmds {
		raw, err := cmd.Result()
		if err == redis.Nil {
			r.cacheMiss.WithLabelValues("campaigns").Inc()
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read campaign %s: %w", ids[i], err)
		}
		var c campaign.Campaign
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			r.cacheMiss.WithLabelValues("campaigns").Inc()
			continue
		}
		r.cacheHit.WithLabelValues("campaigns").Inc()
		out = append(out, c)
	}
	return out, nil
}

// Clear drops the active set and every campaign meta blob.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, activeKey).Err(); err != nil {
		return fmt.Errorf("clear active set: %w", err)
	}
	iter := r.rdb.Scan(ctx, 0, metaPrefix+"*"+metaSuffix, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("clear %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan campaign metas: %w", err)
	}
	return nil
}
