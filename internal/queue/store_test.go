package queue_test

import (
	"database/sql"
	"testing"

	"github.com/nocturne-gg/riftkeeper/internal/database"
	"github.com/nocturne-gg/riftkeeper/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	return db, dbTeardown
}

func TestCreateAndGet(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	store := queue.NewQueueStore(db)

	p, err := store.Create(queue.Pool{
		ID: "q1", GuildID: "g1", ChannelID: "c1", CreatorID: "u1",
		Type: queue.TypeRanked, Capacity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, queue.StatusOpen, p.Status)
	assert.Equal(t, 4, p.Capacity)

	got, members, err := store.Get("q1")
	require.NoError(t, err)
	assert.Equal(t, "q1", got.ID)
	assert.Equal(t, queue.TypeRanked, got.Type)
	assert.Empty(t, members)

	_, err = store.Create(queue.Pool{ID: "q1", GuildID: "g1"})
	assert.ErrorIs(t, err, queue.ErrExists)

	_, _, err = store.Get("missing")
	assert.ErrorIs(t, err, queue.ErrNotFound)
}

func TestCreateDefaults(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	store := queue.NewQueueStore(db)

	p, err := store.Create(queue.Pool{GuildID: "g1", ChannelID: "c1", CreatorID: "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID, "an id is generated when the caller omits one")
	assert.Equal(t, queue.TypeNormal, p.Type)
	assert.Equal(t, queue.DefaultCapacity, p.Capacity)
}

func TestJoin(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	store := queue.NewQueueStore(db)

	_, err := store.Create(queue.Pool{ID: "q1", GuildID: "g1", Capacity: 2})
	require.NoError(t, err)

	t.Run("unknown queue", func(t *testing.T) {
		_, _, err := store.Join("missing", queue.Member{DiscordID: "u1"})
		assert.ErrorIs(t, err, queue.ErrNotFound)
	})

	t.Run("first join", func(t *testing.T) {
		count, isFull, err := store.Join("q1", queue.Member{DiscordID: "u1", MainRole: "MID", SubRole: "TOP"})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.False(t, isFull)
	})

	t.Run("double join is rejected and count unchanged", func(t *testing.T) {
		_, _, err := store.Join("q1", queue.Member{DiscordID: "u1"})
		assert.ErrorIs(t, err, queue.ErrAlreadyJoined)

		_, members, err := store.Get("q1")
		require.NoError(t, err)
		assert.Len(t, members, 1)
	})

	t.Run("reaching capacity flips status to full", func(t *testing.T) {
		count, isFull, err := store.Join("q1", queue.Member{DiscordID: "u2", MainRole: "ADC"})
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.True(t, isFull)

		p, _, err := store.Get("q1")
		require.NoError(t, err)
		assert.Equal(t, queue.StatusFull, p.Status)
	})
}

func TestLeave(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	store := queue.NewQueueStore(db)

	_, err := store.Create(queue.Pool{ID: "q1", GuildID: "g1", Capacity: 2})
	require.NoError(t, err)
	_, _, err = store.Join("q1", queue.Member{DiscordID: "u1"})
	require.NoError(t, err)
	_, _, err = store.Join("q1", queue.Member{DiscordID: "u2"})
	require.NoError(t, err)

	t.Run("unknown membership", func(t *testing.T) {
		_, err := store.Leave("q1", "stranger")
		assert.ErrorIs(t, err, queue.ErrMemberNotFound)
	})

	t.Run("leaving reopens a full queue", func(t *testing.T) {
		count, err := store.Leave("q1", "u2")
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		p, _, err := store.Get("q1")
		require.NoError(t, err)
		assert.Equal(t, queue.StatusOpen, p.Status)
	})

	t.Run("unknown queue", func(t *testing.T) {
		_, err := store.Leave("missing", "u1")
		assert.ErrorIs(t, err, queue.ErrNotFound)
	})
}

func TestUpdateRoles(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	store := queue.NewQueueStore(db)

	_, err := store.Create(queue.Pool{ID: "q1", GuildID: "g1"})
	require.NoError(t, err)
	_, _, err = store.Join("q1", queue.Member{DiscordID: "u1", MainRole: "MID"})
	require.NoError(t, err)

	require.NoError(t, store.UpdateRoles("q1", "u1", "JUNGLE", "SUPPORT"))
	_, members, err := store.Get("q1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "JUNGLE", members[0].MainRole)
	assert.Equal(t, "SUPPORT", members[0].SubRole)

	assert.ErrorIs(t, store.UpdateRoles("q1", "stranger", "MID", ""), queue.ErrMemberNotFound)
	assert.ErrorIs(t, store.UpdateRoles("missing", "u1", "MID", ""), queue.ErrNotFound)
}

func TestDeleteCascades(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	store := queue.NewQueueStore(db)

	_, err := store.Create(queue.Pool{ID: "q1", GuildID: "g1"})
	require.NoError(t, err)
	_, _, err = store.Join("q1", queue.Member{DiscordID: "u1"})
	require.NoError(t, err)

	require.NoError(t, store.Delete("q1"))
	assert.ErrorIs(t, store.Delete("q1"), queue.ErrNotFound)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM queue_players WHERE queue_id='q1'").Scan(&count))
	assert.Zero(t, count, "membership rows cascade with the queue")
}

func TestListByGuild(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	store := queue.NewQueueStore(db)

	_, err := store.Create(queue.Pool{ID: "q1", GuildID: "g1"})
	require.NoError(t, err)
	_, err = store.Create(queue.Pool{ID: "q2", GuildID: "g1"})
	require.NoError(t, err)
	_, err = store.Create(queue.Pool{ID: "q3", GuildID: "other"})
	require.NoError(t, err)

	pools, err := store.ListByGuild("g1")
	require.NoError(t, err)
	assert.Len(t, pools, 2)
}

func TestRecruitmentsMirrorQueues(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	queues := queue.NewQueueStore(db)
	recruitments := queue.NewRecruitmentStore(db)

	// The same id can exist in both stores; they are separate tables.
	_, err := queues.Create(queue.Pool{ID: "x1", GuildID: "g1"})
	require.NoError(t, err)
	_, err = recruitments.Create(queue.Pool{ID: "x1", GuildID: "g1", Capacity: 5})
	require.NoError(t, err)

	// Recruitments take free-form role strings.
	count, _, err := recruitments.Join("x1", queue.Member{DiscordID: "u1", MainRole: "flex igl"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, members, err := recruitments.Get("x1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "flex igl", members[0].MainRole)

	// Queue memberships are untouched.
	_, members, err = queues.Get("x1")
	require.NoError(t, err)
	assert.Empty(t, members)
}
