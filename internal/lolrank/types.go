package lolrank

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/nocturne-gg/riftkeeper/internal/rating"
)

// store handles database operations for League rank registrations.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// ErrNotFound is returned when a user has no registered rank.
var ErrNotFound = errors.New("rank not found")

// Rank is a user's registered League rank. Unregistered users render
// as UNRANKED with an empty division rather than being omitted.
type Rank struct {
	DiscordID string      `json:"discordId"`
	Tier      rating.Tier `json:"tier"`
	Division  string      `json:"division"`
}

// Unranked is the placeholder synthesized for users without a stored
// rank.
func Unranked(discordID string) Rank {
	return Rank{DiscordID: discordID, Tier: rating.TierUnranked, Division: ""}
}

// ValidTier reports whether t is a real tier or the synthetic UNRANKED.
func ValidTier(t rating.Tier) bool {
	if t == rating.TierUnranked {
		return true
	}
	for _, tier := range rating.Tiers {
		if t == tier {
			return true
		}
	}
	return false
}

// ValidDivision reports whether div is acceptable for tier. Apex tiers
// and UNRANKED take no division.
func ValidDivision(t rating.Tier, div string) bool {
	apex := t == rating.TierMaster || t == rating.TierGrandmaster ||
		t == rating.TierChallenger || t == rating.TierUnranked
	if apex {
		return div == ""
	}
	for _, d := range rating.Divisions {
		if div == d {
			return true
		}
	}
	return false
}
