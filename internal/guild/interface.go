package guild

// GuildStore defines the interface for interacting with guilds and
// guild-scoped rating data.
type GuildStore interface {
	CreateGuild(guildID string) (*Guild, error)
	GetGuild(guildID string) (*Guild, error)
	// UpdateGuild applies a patch, auto-creating the guild when absent.
	UpdateGuild(guildID string, patch GuildPatch) (*Guild, error)

	// EnsureGuild / EnsureUser provision a minimal row when none exists
	// (insert-or-do-nothing, idempotent).
	EnsureGuild(guildID string) error
	EnsureUser(discordID string) error

	CreateRating(guildID, discordID string) (*Rating, error)
	// GetRatings preserves the input order and synthesizes an
	// initial-rating placeholder for ids without a stored row.
	GetRatings(guildID string, discordIDs []string) ([]Rating, error)
	GetRanking(guildID string, limit int) ([]RankingEntry, error)
	// DeleteStats removes all rating rows of a guild. The guild itself
	// must exist; zero rating rows is not an error.
	DeleteStats(guildID string) error

	GetUserHistory(guildID, discordID string, limit int) ([]HistoryEntry, error)
	GetUserStats(guildID, discordID string) (*UserStats, error)
}
