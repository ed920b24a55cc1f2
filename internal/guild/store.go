package guild

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nocturne-gg/riftkeeper/internal/rating"
)

// New creates a new GuildStore.
func New(db *sql.DB) GuildStore {
	return &store{
		db: db,
	}
}

func (s *store) CreateGuild(guildID string) (*Guild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	res, err := s.db.Exec(`
		INSERT INTO guilds (guild_id, plan, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(guild_id) DO NOTHING
	`, guildID, PlanFree, now.Unix(), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create guild: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrGuildExists
	}

	log.Info("Created guild", "guildID", guildID)
	return s.getGuildLocked(guildID)
}

func (s *store) GetGuild(guildID string) (*Guild, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getGuildLocked(guildID)
}

func (s *store) getGuildLocked(guildID string) (*Guild, error) {
	var g Guild
	var createdAt, updatedAt int64
	var expiresAt sql.NullInt64

	err := s.db.QueryRow(`
		SELECT guild_id, plan, plan_expires_at, created_at, updated_at
		FROM guilds WHERE guild_id = ?
	`, guildID).Scan(&g.GuildID, &g.Plan, &expiresAt, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild: %w", err)
	}

	g.CreatedAt = time.Unix(createdAt, 0)
	g.UpdatedAt = time.Unix(updatedAt, 0)
	if expiresAt.Valid {
		t := time.Unix(expiresAt.Int64, 0)
		g.PlanExpiresAt = &t
	}
	return &g, nil
}

func (s *store) UpdateGuild(guildID string, patch GuildPatch) (*Guild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureGuildLocked(guildID); err != nil {
		return nil, err
	}

	sets := []string{"updated_at = ?"}
	args := []any{time.Now().Unix()}
	if patch.Plan != nil {
		sets = append(sets, "plan = ?")
		args = append(args, *patch.Plan)
	}
	if patch.PlanExpiresAt != nil {
		sets = append(sets, "plan_expires_at = ?")
		args = append(args, patch.PlanExpiresAt.Unix())
	}
	args = append(args, guildID)

	query := "UPDATE guilds SET " + strings.Join(sets, ", ") + " WHERE guild_id = ?"
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("failed to update guild: %w", err)
	}

	log.Info("Updated guild", "guildID", guildID)
	return s.getGuildLocked(guildID)
}

func (s *store) EnsureGuild(guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureGuildLocked(guildID)
}

func (s *store) ensureGuildLocked(guildID string) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`
		INSERT INTO guilds (guild_id, plan, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(guild_id) DO NOTHING
	`, guildID, PlanFree, now, now)
	if err != nil {
		return fmt.Errorf("failed to ensure guild: %w", err)
	}
	return nil
}

func (s *store) EnsureUser(discordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ensureUser(s.db, discordID)
}

// ensureUser works against either a *sql.DB or a *sql.Tx.
func ensureUser(execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}, discordID string) error {
	_, err := execer.Exec(`
		INSERT INTO users (discord_id, created_at)
		VALUES (?, ?)
		ON CONFLICT(discord_id) DO NOTHING
	`, discordID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

func (s *store) CreateRating(guildID, discordID string) (*Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureGuildLocked(guildID); err != nil {
		return nil, err
	}
	if err := ensureUser(s.db, discordID); err != nil {
		return nil, err
	}

	res, err := s.db.Exec(`
		INSERT INTO guild_ratings (guild_id, discord_id, rating, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(guild_id, discord_id) DO NOTHING
	`, guildID, discordID, rating.InitialRating, time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create guild rating: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrRatingExists
	}

	log.Info("Created guild rating", "guildID", guildID, "discordID", discordID)
	return &Rating{
		GuildID:     guildID,
		DiscordID:   discordID,
		Rating:      rating.InitialRating,
		IsPlacement: true,
	}, nil
}

func (s *store) GetRatings(guildID string, discordIDs []string) ([]Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(discordIDs) == 0 {
		return []Rating{}, nil
	}

	placeholders := strings.Repeat("?,", len(discordIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(discordIDs)+1)
	args = append(args, guildID)
	for _, id := range discordIDs {
		args = append(args, id)
	}

	rows, err := s.db.Query(`
		SELECT discord_id, rating, wins, losses, placement_games
		FROM guild_ratings
		WHERE guild_id = ? AND discord_id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query guild ratings: %w", err)
	}
	defer rows.Close()

	found := make(map[string]Rating, len(discordIDs))
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.DiscordID, &r.Rating, &r.Wins, &r.Losses, &r.PlacementGames); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		r.GuildID = guildID
		r.IsPlacement = rating.IsInPlacement(r.PlacementGames)
		found[r.DiscordID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rating rows: %w", err)
	}

	// Preserve input order; ids without a stored row get an
	// initial-rating placeholder instead of being omitted.
	out := make([]Rating, 0, len(discordIDs))
	for _, id := range discordIDs {
		if r, ok := found[id]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, Rating{
			GuildID:     guildID,
			DiscordID:   id,
			Rating:      rating.InitialRating,
			IsPlacement: true,
		})
	}
	return out, nil
}

func (s *store) GetRanking(guildID string, limit int) ([]RankingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT discord_id, rating, wins, losses, placement_games
		FROM guild_ratings
		WHERE guild_id = ?
		ORDER BY rating DESC, wins DESC, discord_id ASC
		LIMIT ?
	`, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking: %w", err)
	}
	defer rows.Close()

	var entries []RankingEntry
	for rows.Next() {
		var e RankingEntry
		var placementGames int
		if err := rows.Scan(&e.DiscordID, &e.Rating, &e.Wins, &e.Losses, &placementGames); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		e.IsPlacement = rating.IsInPlacement(placementGames)
		e.Position = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *store) DeleteStats(guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM guilds WHERE guild_id = ?)", guildID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check guild: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	// Zero rows deleted is fine; the guild just has no rated players yet.
	if _, err := s.db.Exec("DELETE FROM guild_ratings WHERE guild_id = ?", guildID); err != nil {
		return fmt.Errorf("failed to delete guild stats: %w", err)
	}
	log.Info("Deleted guild stats", "guildID", guildID)
	return nil
}

func (s *store) GetUserHistory(guildID, discordID string, limit int) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT match_id, side, role, win, rating_before, rating_after, rating_change, created_at
		FROM guild_user_match_history
		WHERE guild_id = ? AND discord_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, guildID, discordID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match history: %w", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		var win int
		var createdAt int64
		if err := rows.Scan(&e.MatchID, &e.Side, &e.Role, &win, &e.RatingBefore, &e.RatingAfter, &e.RatingChange, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Win = win == 1
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *store) GetUserStats(guildID, discordID string) (*UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &UserStats{
		Rating:      rating.InitialRating,
		IsPlacement: true,
		PeakRating:  rating.InitialRating,
	}

	err := s.db.QueryRow(`
		SELECT rating, wins, losses, placement_games
		FROM guild_ratings
		WHERE guild_id = ? AND discord_id = ?
	`, guildID, discordID).Scan(&stats.Rating, &stats.Wins, &stats.Losses, &stats.PlacementGames)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query guild rating: %w", err)
	}
	stats.IsPlacement = rating.IsInPlacement(stats.PlacementGames)
	if stats.Rating > stats.PeakRating {
		stats.PeakRating = stats.Rating
	}

	// Peak includes the level held before a loss, so take both sides
	// of every history row.
	var peak sql.NullInt64
	err = s.db.QueryRow(`
		SELECT MAX(max(rating_before, rating_after))
		FROM guild_user_match_history
		WHERE guild_id = ? AND discord_id = ?
	`, guildID, discordID).Scan(&peak)
	if err != nil {
		return nil, fmt.Errorf("failed to query peak rating: %w", err)
	}
	if peak.Valid && int(peak.Int64) > stats.PeakRating {
		stats.PeakRating = int(peak.Int64)
	}

	// Walk recent results newest-first until the outcome flips.
	rows, err := s.db.Query(`
		SELECT win
		FROM guild_user_match_history
		WHERE guild_id = ? AND discord_id = ?
		ORDER BY created_at DESC, id DESC
	`, guildID, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query streak: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var win int
		if err := rows.Scan(&win); err != nil {
			return nil, fmt.Errorf("failed to scan streak row: %w", err)
		}
		if win == 1 {
			if stats.CurrentStreak < 0 {
				break
			}
			stats.CurrentStreak++
		} else {
			if stats.CurrentStreak > 0 {
				break
			}
			stats.CurrentStreak--
		}
	}
	return stats, rows.Err()
}
