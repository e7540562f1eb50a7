package campaign

import (
	"fmt"
	"sort"
	"strings"
)

// Facet weights. Overlap facets score per matching tag; demographic facets
// score a flat bonus evaluated once.
const (
	segmentWeight  = 10
	interestWeight = 8
	behaviorWeight = 6
	ageBonus       = 5
	locationBonus  = 5
	categoryBonus  = 3
)

// SelectBestCampaign picks the single best campaign for a visitor, or nil
// when none qualifies. Scoring is purely additive over independently
// evaluated facets; a campaign with zero overlap is never returned, even if
// it is the only one available. Ties resolve to the most recently created
// campaign, so repeated calls with the same inputs always agree.
//
// A nil or empty profile yields nil immediately: matching without a profile
// is a deliberate no-recommendation policy, not a fallback to best guess.
func SelectBestCampaign(campaigns []Campaign, profile *VisitorProfile) *Match {
	if profile == nil || profile.Empty() {
		return nil
	}

	// Fix the tie-break order up front so the result does not depend on how
	// the caller happened to sort the pool.
	pool := make([]Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if c.Matchable() {
			pool = append(pool, c)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].CreatedAt.After(pool[j].CreatedAt)
	})

	var best *Match
	for _, c := range pool {
		score, reason := scoreCampaign(&c, profile)
		if score <= 0 {
			continue
		}
		if best == nil || score > best.Score {
			best = &Match{Campaign: c, Score: score, Reason: reason}
		}
	}
	return best
}

// scoreCampaign computes the additive match score for one campaign and the
// human-readable trace of contributing facets. There is no per-facet cap and
// no normalization: a campaign targeting many tags that all match a data-rich
// profile scores arbitrarily high.
func scoreCampaign(c *Campaign, profile *VisitorProfile) (int, string) {
	score := 0
	var reasons []string

	if hits := overlap(c.Targeting.Segments, profile.Segments); len(hits) > 0 {
		score += len(hits) * segmentWeight
		reasons = append(reasons, "Segments: "+strings.Join(hits, ", "))
	}

	if hits := overlap(c.Targeting.Interests, profile.Interests); len(hits) > 0 {
		score += len(hits) * interestWeight
		reasons = append(reasons, "Interests: "+strings.Join(hits, ", "))
	}

	demos := c.Targeting.Demographics
	age := profile.Demographics.Age
	if demos.AgeMin != 0 && demos.AgeMax != 0 && age != 0 {
		if age >= demos.AgeMin && age <= demos.AgeMax {
			score += ageBonus
			reasons = append(reasons, fmt.Sprintf("Age: %d", age))
		}
	}

	// Location stays an exact string comparison; see the category note below.
	if demos.Location != "" && demos.Location == profile.Demographics.Location {
		score += locationBonus
		reasons = append(reasons, "Location: "+profile.Demographics.Location)
	}

	if hits := overlap(c.Targeting.Behaviors, profile.Behaviors); len(hits) > 0 {
		score += len(hits) * behaviorWeight
		reasons = append(reasons, "Behaviors: "+strings.Join(hits, ", "))
	}

	// Category comparison is case-insensitive to agree with the store's
	// category filter.
	if c.Category != "" {
		for _, pref := range profile.Preferences.Categories {
			if strings.EqualFold(pref, c.Category) {
				score += categoryBonus
				reasons = append(reasons, "Category: "+c.Category)
				break
			}
		}
	}

	return score, strings.Join(reasons, "; ")
}

// overlap returns the members of targeted that also appear in observed,
// preserving targeting order.
func overlap(targeted, observed []string) []string {
	if len(targeted) == 0 || len(observed) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(observed))
	for _, v := range observed {
		seen[v] = struct{}{}
	}
	var hits []string
	for _, v := range targeted {
		if _, ok := seen[v]; ok {
			hits = append(hits, v)
		}
	}
	return hits
}
