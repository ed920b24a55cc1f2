package match

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/nocturne-gg/riftkeeper/internal/rating"
)

// store handles database operations for pending matches and votes.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	// ErrNotFound is returned when the pending match does not exist.
	ErrNotFound = errors.New("match not found")
	// ErrExists is returned by Create on a duplicate id.
	ErrExists = errors.New("match already exists")
	// ErrNoAssignments is returned by Create without team assignments.
	ErrNoAssignments = errors.New("team assignments must not be empty")
	// ErrNotParticipant is returned when a voter is not part of the
	// match's team assignments.
	ErrNotParticipant = errors.New("voter is not a match participant")
	// ErrNotVoting is returned when a vote arrives for a match that has
	// already been resolved.
	ErrNotVoting = errors.New("match is not in voting state")
	// ErrInvalidState is returned by Cancel unless the match is still
	// in the voting state.
	ErrInvalidState = errors.New("match cannot be cancelled in its current state")
)

// Status of a pending match. voting is initial; confirmed and
// cancelled are terminal.
type Status string

const (
	StatusVoting    Status = "voting"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Assignment places one participant on a team. Rating is the player's
// guild rating captured at assignment time and is what the ELO update
// computes expectations from.
type Assignment struct {
	Team   rating.Side `json:"team"`
	Role   string      `json:"role"`
	Rating int         `json:"rating"`
}

// PendingMatch is a proposed match whose outcome is decided by
// participant vote.
type PendingMatch struct {
	ID              string                `json:"id"`
	GuildID         string                `json:"guildId"`
	ChannelID       string                `json:"channelId"`
	MessageID       string                `json:"messageId"`
	Status          Status                `json:"status"`
	TeamAssignments map[string]Assignment `json:"teamAssignments"`
	BlueVotes       int                   `json:"blueVotes"`
	RedVotes        int                   `json:"redVotes"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// TotalParticipants is the number of assigned players.
func (m *PendingMatch) TotalParticipants() int {
	return len(m.TeamAssignments)
}

// VotesRequired is the majority threshold: ceil(participants / 2).
func (m *PendingMatch) VotesRequired() int {
	return (m.TotalParticipants() + 1) / 2
}

// Vote is one participant's recorded vote. Re-voting updates the row
// in place; there is never more than one row per voter.
type Vote struct {
	DiscordID string      `json:"discordId"`
	Side      rating.Side `json:"side"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// RatingChange is one participant's rating movement from a confirmed
// match.
type RatingChange struct {
	DiscordID    string      `json:"discordId"`
	Side         rating.Side `json:"side"`
	Role         string      `json:"role"`
	Win          bool        `json:"win"`
	RatingBefore int         `json:"ratingBefore"`
	RatingAfter  int         `json:"ratingAfter"`
	RatingChange int         `json:"ratingChange"`
}

// VoteResult reports the outcome of a single vote operation.
type VoteResult struct {
	Match *PendingMatch `json:"match"`
	// New is true for a first vote, Changed for a side switch; both
	// false for a same-side re-vote (a no-op).
	New     bool `json:"new"`
	Changed bool `json:"changed"`
	// Confirmed is set when this vote reached the majority threshold.
	Confirmed     bool           `json:"confirmed"`
	WinningSide   rating.Side    `json:"winningSide,omitempty"`
	RatingChanges []RatingChange `json:"ratingChanges,omitempty"`
}
