package match

import "github.com/nocturne-gg/riftkeeper/internal/rating"

// MatchStore defines the interface for the pending-match voting
// lifecycle.
type MatchStore interface {
	// Create inserts a pending match in the voting state. The team
	// assignments map must not be empty.
	Create(m PendingMatch) (*PendingMatch, error)
	Get(id string) (*PendingMatch, []Vote, error)
	// Vote records or updates a participant's vote. When a side
	// reaches the majority threshold the match is confirmed and the
	// rating updates are applied in the same transaction.
	Vote(id, discordID string, side rating.Side) (*VoteResult, error)
	// Cancel moves a voting match to cancelled. The row is kept for
	// audit history, never hard-deleted.
	Cancel(id string) (*PendingMatch, error)
}
