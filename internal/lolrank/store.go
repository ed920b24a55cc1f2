package lolrank

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new RankStore.
func New(db *sql.DB) RankStore {
	return &store{
		db: db,
	}
}

// Upsert writes inside one transaction: the insert-or-ignore result
// decides created vs updated, so two writers cannot both observe a
// fresh registration.
func (s *store) Upsert(rank Rank) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	res, err := tx.Exec(`
		INSERT INTO lol_ranks (discord_id, tier, division, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(discord_id) DO NOTHING
	`, rank.DiscordID, rank.Tier, rank.Division, now)
	if err != nil {
		return false, fmt.Errorf("failed to upsert rank: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	created := affected > 0
	if !created {
		if _, err := tx.Exec(`
			UPDATE lol_ranks SET tier = ?, division = ?, updated_at = ?
			WHERE discord_id = ?
		`, rank.Tier, rank.Division, now, rank.DiscordID); err != nil {
			return false, fmt.Errorf("failed to update rank: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit rank upsert: %w", err)
	}

	log.Info("Upserted rank", "discordID", rank.DiscordID, "tier", rank.Tier, "division", rank.Division)
	return created, nil
}

func (s *store) Get(discordID string) (*Rank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r Rank
	err := s.db.QueryRow(`
		SELECT discord_id, tier, division FROM lol_ranks WHERE discord_id = ?
	`, discordID).Scan(&r.DiscordID, &r.Tier, &r.Division)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rank: %w", err)
	}
	return &r, nil
}

func (s *store) GetMany(discordIDs []string) ([]Rank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(discordIDs) == 0 {
		return []Rank{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(discordIDs)), ",")
	args := make([]any, len(discordIDs))
	for i, id := range discordIDs {
		args[i] = id
	}

	rows, err := s.db.Query(`
		SELECT discord_id, tier, division FROM lol_ranks
		WHERE discord_id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranks: %w", err)
	}
	defer rows.Close()

	found := make(map[string]Rank, len(discordIDs))
	for rows.Next() {
		var r Rank
		if err := rows.Scan(&r.DiscordID, &r.Tier, &r.Division); err != nil {
			return nil, fmt.Errorf("failed to scan rank row: %w", err)
		}
		found[r.DiscordID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rank rows: %w", err)
	}

	out := make([]Rank, 0, len(discordIDs))
	for _, id := range discordIDs {
		if r, ok := found[id]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, Unranked(id))
	}
	return out, nil
}
