package rating_test

import (
	"testing"

	"github.com/nocturne-gg/riftkeeper/internal/rating"
	"github.com/stretchr/testify/assert"
)

func TestRankOf(t *testing.T) {
	tests := []struct {
		name     string
		rating   int
		tier     rating.Tier
		division string
	}{
		{"negative clamps to iron iv", -50, rating.TierIron, "IV"},
		{"zero is iron iv", 0, rating.TierIron, "IV"},
		{"iron i", 399, rating.TierIron, "I"},
		{"bronze iv", 400, rating.TierBronze, "IV"},
		{"initial rating is gold iv", rating.InitialRating, rating.TierGold, "IV"},
		{"gold ii", 1450, rating.TierGold, "II"},
		{"diamond i", 2799, rating.TierDiamond, "I"},
		{"master keeps divisions", 2850, rating.TierMaster, "IV"},
		{"grandmaster has no division", 3200, rating.TierGrandmaster, ""},
		{"challenger has no division", 3600, rating.TierChallenger, ""},
		{"challenger is open ended", 9000, rating.TierChallenger, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rk := rating.RankOf(tt.rating)
			assert.Equal(t, tt.tier, rk.Tier)
			assert.Equal(t, tt.division, rk.Division)
		})
	}
}

func TestRankOfMonotonic(t *testing.T) {
	tierIndex := func(tier rating.Tier) int {
		for i, tr := range rating.Tiers {
			if tr == tier {
				return i
			}
		}
		return -1
	}
	divIndex := func(div string) int {
		for i, d := range rating.Divisions {
			if d == div {
				return i
			}
		}
		// No division sorts above every division within a tier.
		return len(rating.Divisions)
	}

	prev := rating.RankOf(-10)
	for r := -9; r <= 4200; r++ {
		cur := rating.RankOf(r)
		pi, ci := tierIndex(prev.Tier), tierIndex(cur.Tier)
		if ci < pi {
			t.Fatalf("tier decreased at rating %d: %v -> %v", r, prev, cur)
		}
		if ci == pi && divIndex(cur.Division) < divIndex(prev.Division) {
			t.Fatalf("division decreased at rating %d: %v -> %v", r, prev, cur)
		}
		prev = cur
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "GOLD II", rating.Rank{Tier: rating.TierGold, Division: "II"}.Format())
	assert.Equal(t, "CHALLENGER", rating.Rank{Tier: rating.TierChallenger}.Format())
	assert.Equal(t, "UNRANKED", rating.Rank{Tier: rating.TierUnranked}.Format())
}

func TestIsInPlacement(t *testing.T) {
	assert.True(t, rating.IsInPlacement(0))
	assert.True(t, rating.IsInPlacement(9))
	assert.False(t, rating.IsInPlacement(10))
	assert.False(t, rating.IsInPlacement(42))
}

func TestExpectedScore(t *testing.T) {
	assert.InDelta(t, 0.5, rating.ExpectedScore(1200, 1200), 1e-9)
	// A 400 point gap gives the stronger team ~91%.
	assert.InDelta(t, 0.909, rating.ExpectedScore(1600, 1200), 0.001)
	// Expectancies of both sides sum to one.
	sum := rating.ExpectedScore(1500, 1310) + rating.ExpectedScore(1310, 1500)
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestMatchDeltas(t *testing.T) {
	t.Run("even teams move half the k factor", func(t *testing.T) {
		blue, red := rating.MatchDeltas([]int{1200, 1200}, []int{1200, 1200}, rating.SideBlue)
		assert.Equal(t, 16, blue)
		assert.Equal(t, -16, red)
	})

	t.Run("upset win pays more", func(t *testing.T) {
		blue, red := rating.MatchDeltas([]int{1000, 1000}, []int{1400, 1400}, rating.SideBlue)
		assert.Greater(t, blue, 16)
		assert.Equal(t, -blue, red)
	})

	t.Run("expected win pays less", func(t *testing.T) {
		blue, _ := rating.MatchDeltas([]int{1400, 1400}, []int{1000, 1000}, rating.SideBlue)
		assert.Less(t, blue, 16)
		assert.GreaterOrEqual(t, blue, 0)
	})

	t.Run("red win mirrors blue win", func(t *testing.T) {
		blue, red := rating.MatchDeltas([]int{1200}, []int{1200}, rating.SideRed)
		assert.Equal(t, -16, blue)
		assert.Equal(t, 16, red)
	})

	t.Run("empty roster is a no-op", func(t *testing.T) {
		blue, red := rating.MatchDeltas(nil, []int{1200}, rating.SideBlue)
		assert.Zero(t, blue)
		assert.Zero(t, red)
	})
}

func TestSide(t *testing.T) {
	assert.True(t, rating.SideBlue.Valid())
	assert.True(t, rating.SideRed.Valid())
	assert.False(t, rating.Side("green").Valid())
	assert.Equal(t, rating.SideRed, rating.SideBlue.Opponent())
	assert.Equal(t, rating.SideBlue, rating.SideRed.Opponent())
}
