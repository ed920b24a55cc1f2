package match_test

import (
	"database/sql"
	"testing"

	"github.com/nocturne-gg/riftkeeper/internal/database"
	"github.com/nocturne-gg/riftkeeper/internal/match"
	"github.com/nocturne-gg/riftkeeper/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (match.MatchStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := match.New(db)
	return store, db, dbTeardown
}

func fiveVsFive() map[string]match.Assignment {
	assignments := map[string]match.Assignment{}
	blue := []string{"b1", "b2", "b3", "b4", "b5"}
	red := []string{"r1", "r2", "r3", "r4", "r5"}
	roles := []string{"TOP", "JUNGLE", "MID", "ADC", "SUPPORT"}
	for i, id := range blue {
		assignments[id] = match.Assignment{Team: rating.SideBlue, Role: roles[i], Rating: 1200}
	}
	for i, id := range red {
		assignments[id] = match.Assignment{Team: rating.SideRed, Role: roles[i], Rating: 1200}
	}
	return assignments
}

func TestCreate(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	t.Run("requires assignments", func(t *testing.T) {
		_, err := store.Create(match.PendingMatch{ID: "m0", GuildID: "g1"})
		assert.ErrorIs(t, err, match.ErrNoAssignments)
	})

	t.Run("creates in voting state", func(t *testing.T) {
		m, err := store.Create(match.PendingMatch{
			ID: "m1", GuildID: "g1", ChannelID: "c1", TeamAssignments: fiveVsFive(),
		})
		require.NoError(t, err)
		assert.Equal(t, match.StatusVoting, m.Status)
		assert.Zero(t, m.BlueVotes)
		assert.Zero(t, m.RedVotes)
		assert.Equal(t, 10, m.TotalParticipants())
		assert.Equal(t, 5, m.VotesRequired())
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		_, err := store.Create(match.PendingMatch{
			ID: "m1", GuildID: "g1", TeamAssignments: fiveVsFive(),
		})
		assert.ErrorIs(t, err, match.ErrExists)
	})

	t.Run("generates id when absent", func(t *testing.T) {
		m, err := store.Create(match.PendingMatch{
			GuildID: "g1", TeamAssignments: fiveVsFive(),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, m.ID)
	})
}

func TestVote(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.Create(match.PendingMatch{
		ID: "m1", GuildID: "g1", TeamAssignments: fiveVsFive(),
	})
	require.NoError(t, err)

	t.Run("unknown match", func(t *testing.T) {
		_, err := store.Vote("nope", "b1", rating.SideBlue)
		assert.ErrorIs(t, err, match.ErrNotFound)
	})

	t.Run("non participant is forbidden", func(t *testing.T) {
		_, err := store.Vote("m1", "stranger", rating.SideBlue)
		assert.ErrorIs(t, err, match.ErrNotParticipant)
	})

	t.Run("first vote", func(t *testing.T) {
		res, err := store.Vote("m1", "b1", rating.SideBlue)
		require.NoError(t, err)
		assert.True(t, res.New)
		assert.False(t, res.Changed)
		assert.False(t, res.Confirmed)
		assert.Equal(t, 1, res.Match.BlueVotes)
	})

	t.Run("same side re-vote is a no-op", func(t *testing.T) {
		res, err := store.Vote("m1", "b1", rating.SideBlue)
		require.NoError(t, err)
		assert.False(t, res.New)
		assert.False(t, res.Changed)
		m, _, err := store.Get("m1")
		require.NoError(t, err)
		assert.Equal(t, 1, m.BlueVotes)
		assert.Equal(t, 0, m.RedVotes)
	})

	t.Run("changed vote moves exactly one vote", func(t *testing.T) {
		res, err := store.Vote("m1", "b1", rating.SideRed)
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.False(t, res.New)
		assert.Equal(t, 0, res.Match.BlueVotes)
		assert.Equal(t, 1, res.Match.RedVotes)

		_, votes, err := store.Get("m1")
		require.NoError(t, err)
		require.Len(t, votes, 1, "re-voting must not insert a second row")
		assert.Equal(t, rating.SideRed, votes[0].Side)
	})
}

func TestVoteConfirmsOnMajority(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.Create(match.PendingMatch{
		ID: "m1", GuildID: "g1", TeamAssignments: fiveVsFive(),
	})
	require.NoError(t, err)

	voters := []string{"b1", "b2", "b3", "b4"}
	for _, v := range voters {
		res, err := store.Vote("m1", v, rating.SideBlue)
		require.NoError(t, err)
		assert.False(t, res.Confirmed, "4 of 10 votes must not confirm")
	}

	res, err := store.Vote("m1", "b5", rating.SideBlue)
	require.NoError(t, err)
	require.True(t, res.Confirmed)
	assert.Equal(t, rating.SideBlue, res.WinningSide)
	assert.Equal(t, match.StatusConfirmed, res.Match.Status)
	require.Len(t, res.RatingChanges, 10)

	for _, c := range res.RatingChanges {
		if c.Side == rating.SideBlue {
			assert.True(t, c.Win)
			assert.Equal(t, 16, c.RatingChange, "even teams move half the k factor")
			assert.Equal(t, 1216, c.RatingAfter)
		} else {
			assert.False(t, c.Win)
			assert.Equal(t, -16, c.RatingChange)
			assert.Equal(t, 1184, c.RatingAfter)
		}
	}

	// Rating rows were auto-provisioned and updated.
	var r, wins, losses, placement int
	err = db.QueryRow(`SELECT rating, wins, losses, placement_games FROM guild_ratings WHERE guild_id = 'g1' AND discord_id = 'b1'`).
		Scan(&r, &wins, &losses, &placement)
	require.NoError(t, err)
	assert.Equal(t, 1216, r)
	assert.Equal(t, 1, wins)
	assert.Equal(t, 0, losses)
	assert.Equal(t, 1, placement)

	// History rows are written for every participant.
	var historyCount int
	err = db.QueryRow(`SELECT COUNT(*) FROM guild_user_match_history WHERE match_id = 'm1'`).Scan(&historyCount)
	require.NoError(t, err)
	assert.Equal(t, 10, historyCount)

	// Terminal state rejects further votes.
	_, err = store.Vote("m1", "r1", rating.SideRed)
	assert.ErrorIs(t, err, match.ErrNotVoting)
}

func TestVoteTwoParticipantsConfirmsImmediately(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.Create(match.PendingMatch{
		ID:      "duel",
		GuildID: "g1",
		TeamAssignments: map[string]match.Assignment{
			"p1": {Team: rating.SideBlue, Rating: 1200},
			"p2": {Team: rating.SideRed, Rating: 1200},
		},
	})
	require.NoError(t, err)

	// votesRequired = ceil(2/2) = 1: a single vote resolves the match.
	res, err := store.Vote("duel", "p2", rating.SideRed)
	require.NoError(t, err)
	assert.True(t, res.Confirmed)
	assert.Equal(t, rating.SideRed, res.WinningSide)
}

func TestCancel(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.Create(match.PendingMatch{
		ID: "m1", GuildID: "g1", TeamAssignments: fiveVsFive(),
	})
	require.NoError(t, err)

	t.Run("unknown match", func(t *testing.T) {
		_, err := store.Cancel("nope")
		assert.ErrorIs(t, err, match.ErrNotFound)
	})

	t.Run("cancels a voting match", func(t *testing.T) {
		m, err := store.Cancel("m1")
		require.NoError(t, err)
		assert.Equal(t, match.StatusCancelled, m.Status)

		// The row survives for audit history.
		got, _, err := store.Get("m1")
		require.NoError(t, err)
		assert.Equal(t, match.StatusCancelled, got.Status)
	})

	t.Run("second cancel fails without changing state", func(t *testing.T) {
		_, err := store.Cancel("m1")
		assert.ErrorIs(t, err, match.ErrInvalidState)

		got, _, err := store.Get("m1")
		require.NoError(t, err)
		assert.Equal(t, match.StatusCancelled, got.Status)
	})

	t.Run("confirmed match cannot be cancelled", func(t *testing.T) {
		_, err := store.Create(match.PendingMatch{
			ID:      "duel",
			GuildID: "g1",
			TeamAssignments: map[string]match.Assignment{
				"p1": {Team: rating.SideBlue, Rating: 1200},
				"p2": {Team: rating.SideRed, Rating: 1200},
			},
		})
		require.NoError(t, err)
		_, err = store.Vote("duel", "p1", rating.SideBlue)
		require.NoError(t, err)

		_, err = store.Cancel("duel")
		assert.ErrorIs(t, err, match.ErrInvalidState)
	})
}

func TestVotesNeverExceedParticipants(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	assignments := map[string]match.Assignment{
		"p1": {Team: rating.SideBlue, Rating: 1200},
		"p2": {Team: rating.SideBlue, Rating: 1200},
		"p3": {Team: rating.SideRed, Rating: 1200},
		"p4": {Team: rating.SideRed, Rating: 1200},
	}
	_, err := store.Create(match.PendingMatch{ID: "m1", GuildID: "g1", TeamAssignments: assignments})
	require.NoError(t, err)

	// p1 votes red so no side reaches the threshold of 2 yet.
	_, err = store.Vote("m1", "p1", rating.SideRed)
	require.NoError(t, err)
	// p1 flips to blue, then back to red, several times.
	for i := 0; i < 3; i++ {
		_, err = store.Vote("m1", "p1", rating.SideBlue)
		require.NoError(t, err)
		_, err = store.Vote("m1", "p1", rating.SideRed)
		require.NoError(t, err)
	}

	m, votes, err := store.Get("m1")
	require.NoError(t, err)
	assert.Equal(t, 1, m.BlueVotes+m.RedVotes, "flip-flopping must keep exactly one counted vote")
	assert.Len(t, votes, 1)
	assert.LessOrEqual(t, m.BlueVotes+m.RedVotes, m.TotalParticipants())
}
