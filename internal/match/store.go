package match

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/nocturne-gg/riftkeeper/internal/rating"
)

// New creates a new MatchStore.
func New(db *sql.DB) MatchStore {
	return &store{
		db: db,
	}
}

func (s *store) Create(m PendingMatch) (*PendingMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(m.TeamAssignments) == 0 {
		return nil, ErrNoAssignments
	}
	for discordID, a := range m.TeamAssignments {
		if !a.Team.Valid() {
			return nil, fmt.Errorf("invalid team %q for participant %s", a.Team, discordID)
		}
	}

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.Status = StatusVoting
	m.BlueVotes = 0
	m.RedVotes = 0
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	assignmentsJSON, err := json.Marshal(m.TeamAssignments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal team assignments: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO pending_matches (id, guild_id, channel_id, message_id, status, team_assignments_json, blue_votes, red_votes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, m.ID, m.GuildID, m.ChannelID, m.MessageID, m.Status, assignmentsJSON, now.Unix(), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create pending match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrExists
	}

	log.Info("Created pending match", "matchID", m.ID, "guildID", m.GuildID, "participants", m.TotalParticipants())
	return &m, nil
}

func (s *store) Get(id string) (*PendingMatch, []Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.getMatch(s.db, id)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.Query(`
		SELECT discord_id, side, updated_at
		FROM match_votes WHERE pending_match_id = ?
		ORDER BY updated_at ASC, discord_id ASC
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []Vote{}
	for rows.Next() {
		var v Vote
		var updatedAt int64
		if err := rows.Scan(&v.DiscordID, &v.Side, &updatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan vote row: %w", err)
		}
		v.UpdatedAt = time.Unix(updatedAt, 0)
		votes = append(votes, v)
	}
	return m, votes, rows.Err()
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (s *store) getMatch(q querier, id string) (*PendingMatch, error) {
	var m PendingMatch
	var assignmentsJSON string
	var createdAt, updatedAt int64
	err := q.QueryRow(`
		SELECT id, guild_id, channel_id, message_id, status, team_assignments_json, blue_votes, red_votes, created_at, updated_at
		FROM pending_matches WHERE id = ?
	`, id).Scan(&m.ID, &m.GuildID, &m.ChannelID, &m.MessageID, &m.Status, &assignmentsJSON, &m.BlueVotes, &m.RedVotes, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending match: %w", err)
	}
	if err := json.Unmarshal([]byte(assignmentsJSON), &m.TeamAssignments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal team assignments: %w", err)
	}
	m.CreatedAt = time.Unix(createdAt, 0)
	m.UpdatedAt = time.Unix(updatedAt, 0)
	return &m, nil
}

// Vote runs the whole read-modify-write inside one transaction so two
// concurrent votes for the same match cannot lose counter updates.
func (s *store) Vote(id, discordID string, side rating.Side) (*VoteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	m, err := s.getMatch(tx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != StatusVoting {
		return nil, ErrNotVoting
	}
	if _, ok := m.TeamAssignments[discordID]; !ok {
		return nil, ErrNotParticipant
	}

	result := &VoteResult{Match: m}

	var existing string
	err = tx.QueryRow(`
		SELECT side FROM match_votes WHERE pending_match_id = ? AND discord_id = ?
	`, id, discordID).Scan(&existing)
	now := time.Now().Unix()
	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.Exec(`
			INSERT INTO match_votes (pending_match_id, discord_id, side, updated_at)
			VALUES (?, ?, ?, ?)
		`, id, discordID, side, now); err != nil {
			return nil, fmt.Errorf("failed to insert vote: %w", err)
		}
		result.New = true
		s.adjustCounter(m, side, +1)
	case err != nil:
		return nil, fmt.Errorf("failed to query existing vote: %w", err)
	case rating.Side(existing) == side:
		// Same-side re-vote: no-op, counters untouched.
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit vote: %w", err)
		}
		return result, nil
	default:
		// Moves exactly one vote from the old counter to the new one.
		if _, err := tx.Exec(`
			UPDATE match_votes SET side = ?, updated_at = ?
			WHERE pending_match_id = ? AND discord_id = ?
		`, side, now, id, discordID); err != nil {
			return nil, fmt.Errorf("failed to update vote: %w", err)
		}
		result.Changed = true
		s.adjustCounter(m, rating.Side(existing), -1)
		s.adjustCounter(m, side, +1)
	}

	required := m.VotesRequired()
	blueWins := m.BlueVotes >= required
	redWins := m.RedVotes >= required
	// An exact tie has no specified resolution; the match stays in
	// voting until a later vote breaks it.
	if blueWins != redWins {
		winner := rating.SideBlue
		if redWins {
			winner = rating.SideRed
		}
		changes, err := s.confirmLocked(tx, m, winner)
		if err != nil {
			return nil, err
		}
		result.Confirmed = true
		result.WinningSide = winner
		result.RatingChanges = changes
	}

	m.UpdatedAt = time.Unix(now, 0)
	if _, err := tx.Exec(`
		UPDATE pending_matches SET blue_votes = ?, red_votes = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, m.BlueVotes, m.RedVotes, m.Status, now, id); err != nil {
		return nil, fmt.Errorf("failed to update pending match: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}

	log.Info("Recorded vote", "matchID", id, "discordID", discordID, "side", side,
		"blueVotes", m.BlueVotes, "redVotes", m.RedVotes, "confirmed", result.Confirmed)
	return result, nil
}

func (s *store) adjustCounter(m *PendingMatch, side rating.Side, delta int) {
	if side == rating.SideBlue {
		m.BlueVotes += delta
	} else {
		m.RedVotes += delta
	}
}

// confirmLocked applies the rating model to every participant, writes
// the immutable match and history rows and marks the match confirmed.
func (s *store) confirmLocked(tx *sql.Tx, m *PendingMatch, winner rating.Side) ([]RatingChange, error) {
	// Deterministic participant order keeps history inserts stable.
	participants := make([]string, 0, len(m.TeamAssignments))
	for discordID := range m.TeamAssignments {
		participants = append(participants, discordID)
	}
	sort.Strings(participants)

	var blueRatings, redRatings []int
	for _, discordID := range participants {
		a := m.TeamAssignments[discordID]
		if a.Team == rating.SideBlue {
			blueRatings = append(blueRatings, a.Rating)
		} else {
			redRatings = append(redRatings, a.Rating)
		}
	}
	blueDelta, redDelta := rating.MatchDeltas(blueRatings, redRatings, winner)

	now := time.Now().Unix()
	if _, err := tx.Exec(`
		INSERT INTO guilds (guild_id, plan, created_at, updated_at)
		VALUES (?, 'free', ?, ?) ON CONFLICT(guild_id) DO NOTHING
	`, m.GuildID, now, now); err != nil {
		return nil, fmt.Errorf("failed to ensure guild: %w", err)
	}

	changes := make([]RatingChange, 0, len(participants))
	for _, discordID := range participants {
		a := m.TeamAssignments[discordID]
		delta := blueDelta
		if a.Team == rating.SideRed {
			delta = redDelta
		}
		win := a.Team == winner

		if _, err := tx.Exec(`
			INSERT INTO users (discord_id, created_at) VALUES (?, ?)
			ON CONFLICT(discord_id) DO NOTHING
		`, discordID, now); err != nil {
			return nil, fmt.Errorf("failed to ensure user: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO guild_ratings (guild_id, discord_id, rating, updated_at)
			VALUES (?, ?, ?, ?) ON CONFLICT(guild_id, discord_id) DO NOTHING
		`, m.GuildID, discordID, rating.InitialRating, now); err != nil {
			return nil, fmt.Errorf("failed to ensure guild rating: %w", err)
		}

		var before, placementGames int
		if err := tx.QueryRow(`
			SELECT rating, placement_games FROM guild_ratings
			WHERE guild_id = ? AND discord_id = ?
		`, m.GuildID, discordID).Scan(&before, &placementGames); err != nil {
			return nil, fmt.Errorf("failed to read guild rating: %w", err)
		}

		after := before + delta
		if placementGames < rating.PlacementGamesRequired {
			placementGames++
		}
		winInc, lossInc := 0, 1
		if win {
			winInc, lossInc = 1, 0
		}

		if _, err := tx.Exec(`
			UPDATE guild_ratings
			SET rating = ?, wins = wins + ?, losses = losses + ?, placement_games = ?, updated_at = ?
			WHERE guild_id = ? AND discord_id = ?
		`, after, winInc, lossInc, placementGames, now, m.GuildID, discordID); err != nil {
			return nil, fmt.Errorf("failed to update guild rating: %w", err)
		}

		changes = append(changes, RatingChange{
			DiscordID:    discordID,
			Side:         a.Team,
			Role:         a.Role,
			Win:          win,
			RatingBefore: before,
			RatingAfter:  after,
			RatingChange: delta,
		})
	}

	if _, err := tx.Exec(`
		INSERT INTO matches (id, guild_id, winning_side, confirmed_at)
		VALUES (?, ?, ?, ?)
	`, m.ID, m.GuildID, winner, now); err != nil {
		return nil, fmt.Errorf("failed to insert match record: %w", err)
	}
	for _, c := range changes {
		if _, err := tx.Exec(`
			INSERT INTO guild_user_match_history (match_id, guild_id, discord_id, side, role, win, rating_before, rating_after, rating_change, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, m.ID, m.GuildID, c.DiscordID, c.Side, c.Role, boolToInt(c.Win), c.RatingBefore, c.RatingAfter, c.RatingChange, now); err != nil {
			return nil, fmt.Errorf("failed to insert history row: %w", err)
		}
	}

	m.Status = StatusConfirmed
	log.Info("Confirmed match", "matchID", m.ID, "winner", winner, "blueDelta", blueDelta, "redDelta", redDelta)
	return changes, nil
}

func (s *store) Cancel(id string) (*PendingMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	m, err := s.getMatch(tx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != StatusVoting {
		return nil, ErrInvalidState
	}

	now := time.Now().Unix()
	if _, err := tx.Exec(`
		UPDATE pending_matches SET status = ?, updated_at = ? WHERE id = ?
	`, StatusCancelled, now, id); err != nil {
		return nil, fmt.Errorf("failed to cancel pending match: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancel: %w", err)
	}

	m.Status = StatusCancelled
	m.UpdatedAt = time.Unix(now, 0)
	log.Info("Cancelled pending match", "matchID", id)
	return m, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
