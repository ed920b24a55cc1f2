package guild

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

// store handles all database operations for guilds and guild-scoped
// ratings.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	// ErrNotFound is returned when a guild (or rating row) does not exist.
	ErrNotFound = errors.New("guild not found")
	// ErrGuildExists is returned by CreateGuild on a duplicate guild id.
	ErrGuildExists = errors.New("guild already exists")
	// ErrRatingExists is returned by CreateRating on a duplicate
	// (guild, user) pair.
	ErrRatingExists = errors.New("guild rating already exists")
)

// Plan is a guild's subscription plan.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPremium
}

// Guild is one Discord guild known to the backend.
type Guild struct {
	GuildID       string     `json:"guildId"`
	Plan          Plan       `json:"plan"`
	PlanExpiresAt *time.Time `json:"planExpiresAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"-"`
}

// GuildPatch carries the updatable guild fields. Nil means unchanged.
type GuildPatch struct {
	Plan          *Plan      `json:"plan,omitempty"`
	PlanExpiresAt *time.Time `json:"planExpiresAt,omitempty"`
}

// Rating is a user's ELO state within one guild.
type Rating struct {
	GuildID        string `json:"guildId"`
	DiscordID      string `json:"discordId"`
	Rating         int    `json:"rating"`
	Wins           int    `json:"wins"`
	Losses         int    `json:"losses"`
	PlacementGames int    `json:"placementGames"`
	IsPlacement    bool   `json:"isPlacement"`
}

// RankingEntry is one row of a guild leaderboard.
type RankingEntry struct {
	Position    int    `json:"position"`
	DiscordID   string `json:"discordId"`
	Rating      int    `json:"rating"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	IsPlacement bool   `json:"isPlacement"`
}

// HistoryEntry is one participant row of a confirmed match, immutable
// once written.
type HistoryEntry struct {
	MatchID      string    `json:"matchId"`
	Side         string    `json:"side"`
	Role         string    `json:"role"`
	Win          bool      `json:"win"`
	RatingBefore int       `json:"ratingBefore"`
	RatingAfter  int       `json:"ratingAfter"`
	RatingChange int       `json:"ratingChange"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserStats summarizes a user's standing in a guild, derived from the
// rating row and the match history.
type UserStats struct {
	Rating         int  `json:"rating"`
	Wins           int  `json:"wins"`
	Losses         int  `json:"losses"`
	PlacementGames int  `json:"placementGames"`
	IsPlacement    bool `json:"isPlacement"`
	PeakRating     int  `json:"peakRating"`
	// CurrentStreak is positive for a win streak, negative for a loss
	// streak, zero with no history.
	CurrentStreak int `json:"currentStreak"`
}
