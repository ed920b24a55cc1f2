package queue

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when the pool does not exist.
	ErrNotFound = errors.New("queue not found")
	// ErrExists is returned by Create on a duplicate id.
	ErrExists = errors.New("queue already exists")
	// ErrAlreadyJoined is returned when a discord id already has a
	// membership row in the pool.
	ErrAlreadyJoined = errors.New("already joined")
	// ErrMemberNotFound is returned when the discord id has no
	// membership row in the pool.
	ErrMemberNotFound = errors.New("member not found")
)

// Status of a player pool. "full" is derived from the player count and
// recomputed on every join and leave; pools are removed by explicit
// deletion, not a status transition.
type Status string

const (
	StatusOpen   Status = "open"
	StatusFull   Status = "full"
	StatusClosed Status = "closed"
)

// Type of a pool.
type Type string

const (
	TypeNormal Type = "normal"
	TypeRanked Type = "ranked"
)

// Valid reports whether t is a known pool type.
func (t Type) Valid() bool {
	return t == TypeNormal || t == TypeRanked
}

// DefaultCapacity is the player count of a full 5v5 lobby.
const DefaultCapacity = 10

// Pool is an open player pool: a matchmaking queue or a recruitment.
type Pool struct {
	ID        string    `json:"id"`
	GuildID   string    `json:"guildId"`
	ChannelID string    `json:"channelId"`
	MessageID string    `json:"messageId"`
	CreatorID string    `json:"creatorId"`
	Type      Type      `json:"type"`
	Anonymous bool      `json:"anonymous"`
	Capacity  int       `json:"capacity"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Member is one player's membership row in a pool.
type Member struct {
	DiscordID string    `json:"discordId"`
	MainRole  string    `json:"mainRole"`
	SubRole   string    `json:"subRole"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// store implements PoolStore over one (pool table, member table) pair.
// Queues and recruitments share the exact same lifecycle; only the
// table names and the role vocabulary differ.
type store struct {
	db *sql.DB
	mu sync.RWMutex

	table       string
	memberTable string
	fkColumn    string
}
