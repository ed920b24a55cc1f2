package rating

import (
	"math"
)

const (
	// InitialRating is the rating a player starts with in every guild.
	InitialRating = 1200

	// PlacementGamesRequired is how many games a player plays before their
	// rating counts as live.
	PlacementGamesRequired = 10

	// KFactor controls how far a single result moves a rating.
	KFactor = 32

	tierWidth     = 400
	divisionWidth = 100
)

// Tier is a named rating band, lowest first.
type Tier string

const (
	TierUnranked    Tier = "UNRANKED"
	TierIron        Tier = "IRON"
	TierBronze      Tier = "BRONZE"
	TierSilver      Tier = "SILVER"
	TierGold        Tier = "GOLD"
	TierPlatinum    Tier = "PLATINUM"
	TierEmerald     Tier = "EMERALD"
	TierDiamond     Tier = "DIAMOND"
	TierMaster      Tier = "MASTER"
	TierGrandmaster Tier = "GRANDMASTER"
	TierChallenger  Tier = "CHALLENGER"
)

// Tiers lists the ten real tiers in ascending order.
var Tiers = []Tier{
	TierIron, TierBronze, TierSilver, TierGold, TierPlatinum,
	TierEmerald, TierDiamond, TierMaster, TierGrandmaster, TierChallenger,
}

// Divisions within a tier, lowest first. The two highest tiers carry none.
var Divisions = []string{"IV", "III", "II", "I"}

// Rank is a tier plus an optional division.
type Rank struct {
	Tier     Tier   `json:"tier"`
	Division string `json:"division"`
}

// RankOf maps a rating to its tier and division. Every tier spans 400
// points starting at 0; the two highest tiers are undivided and
// CHALLENGER is open-ended. Ratings below 0 clamp to IRON IV.
func RankOf(r int) Rank {
	if r < 0 {
		r = 0
	}
	idx := r / tierWidth
	if idx >= len(Tiers) {
		idx = len(Tiers) - 1
	}
	tier := Tiers[idx]
	if tier == TierGrandmaster || tier == TierChallenger {
		return Rank{Tier: tier}
	}
	div := (r % tierWidth) / divisionWidth
	return Rank{Tier: tier, Division: Divisions[div]}
}

// Format renders "GOLD II", or just the tier when there is no division.
func (rk Rank) Format() string {
	if rk.Division == "" {
		return string(rk.Tier)
	}
	return string(rk.Tier) + " " + rk.Division
}

// IsInPlacement reports whether a player is still in placement games.
func IsInPlacement(played int) bool {
	return played < PlacementGamesRequired
}

// ExpectedScore is the logistic win expectancy of a team with average
// rating own against a team with average rating opp.
func ExpectedScore(own, opp float64) float64 {
	return 1 / (1 + math.Pow(10, (opp-own)/400))
}

// Side identifies one of the two teams of a match.
type Side string

const (
	SideBlue Side = "blue"
	SideRed  Side = "red"
)

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideBlue || s == SideRed
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideBlue {
		return SideRed
	}
	return SideBlue
}

// MatchDeltas returns the per-player rating change for each team of a
// resolved match. Both rosters are pre-match ratings; every member of a
// team receives the same delta, computed from the team averages.
func MatchDeltas(blue, red []int, winner Side) (blueDelta, redDelta int) {
	if len(blue) == 0 || len(red) == 0 {
		return 0, 0
	}
	blueAvg := average(blue)
	redAvg := average(red)

	blueActual := 0.0
	if winner == SideBlue {
		blueActual = 1.0
	}
	expected := ExpectedScore(blueAvg, redAvg)

	blueDelta = int(math.Round(KFactor * (blueActual - expected)))
	redDelta = -blueDelta
	return blueDelta, redDelta
}

func average(ratings []int) float64 {
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}
