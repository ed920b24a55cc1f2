package queue

// PoolStore defines the interface for queues and recruitments.
type PoolStore interface {
	// Create inserts a new pool with status open.
	Create(p Pool) (*Pool, error)
	Get(id string) (*Pool, []Member, error)
	ListByGuild(guildID string) ([]Pool, error)
	// Delete removes the pool; membership rows cascade.
	Delete(id string) error

	// Join inserts a membership row and returns the updated player
	// count and whether the pool is now full.
	Join(id string, m Member) (count int, isFull bool, err error)
	// Leave removes a membership row and returns the updated count.
	Leave(id, discordID string) (count int, err error)
	// UpdateRoles overwrites a member's main/sub role.
	UpdateRoles(id, discordID, mainRole, subRole string) error
}
