package lolrank

// RankStore defines the interface for registered League ranks.
type RankStore interface {
	// Upsert stores a rank, overwriting any previous registration.
	// created reports whether a new row was inserted.
	Upsert(rank Rank) (created bool, err error)
	Get(discordID string) (*Rank, error)
	// GetMany preserves the input order and synthesizes UNRANKED
	// placeholders for unregistered ids.
	GetMany(discordIDs []string) ([]Rank, error)
}
