package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{
		"guilds",
		"users",
		"guild_ratings",
		"lol_ranks",
		"queues",
		"queue_players",
		"recruitments",
		"recruitment_participants",
		"pending_matches",
		"match_votes",
		"matches",
		"guild_user_match_history",
	} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_IsIdempotent(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	// Running the migrations a second time against the same schema must
	// be a no-op.
	require.NoError(t, migrate(db, "../../migrations"))
}
