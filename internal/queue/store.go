package queue

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewQueueStore creates a PoolStore backed by the queues tables.
func NewQueueStore(db *sql.DB) PoolStore {
	return &store{
		db:          db,
		table:       "queues",
		memberTable: "queue_players",
		fkColumn:    "queue_id",
	}
}

// NewRecruitmentStore creates a PoolStore backed by the recruitments
// tables.
func NewRecruitmentStore(db *sql.DB) PoolStore {
	return &store{
		db:          db,
		table:       "recruitments",
		memberTable: "recruitment_participants",
		fkColumn:    "recruitment_id",
	}
}

func (s *store) Create(p Pool) (*Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Type == "" {
		p.Type = TypeNormal
	}
	if p.Capacity <= 0 {
		p.Capacity = DefaultCapacity
	}
	p.Status = StatusOpen
	p.CreatedAt = time.Now()

	res, err := s.db.Exec(`
		INSERT INTO `+s.table+` (id, guild_id, channel_id, message_id, creator_id, type, anonymous, capacity, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, p.ID, p.GuildID, p.ChannelID, p.MessageID, p.CreatorID, p.Type, boolToInt(p.Anonymous), p.Capacity, p.Status, p.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrExists
	}

	log.Info("Created pool", "table", s.table, "id", p.ID, "guildID", p.GuildID)
	return &p, nil
}

func (s *store) Get(id string) (*Pool, []Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.getPool(s.db, id)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.Query(`
		SELECT discord_id, main_role, sub_role, joined_at
		FROM `+s.memberTable+`
		WHERE `+s.fkColumn+` = ?
		ORDER BY joined_at ASC, discord_id ASC
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var m Member
		var joinedAt int64
		if err := rows.Scan(&m.DiscordID, &m.MainRole, &m.SubRole, &joinedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		m.JoinedAt = time.Unix(joinedAt, 0)
		members = append(members, m)
	}
	return p, members, rows.Err()
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (s *store) getPool(q querier, id string) (*Pool, error) {
	var p Pool
	var anonymous int
	var createdAt int64
	err := q.QueryRow(`
		SELECT id, guild_id, channel_id, message_id, creator_id, type, anonymous, capacity, status, created_at
		FROM `+s.table+` WHERE id = ?
	`, id).Scan(&p.ID, &p.GuildID, &p.ChannelID, &p.MessageID, &p.CreatorID, &p.Type, &anonymous, &p.Capacity, &p.Status, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.table, err)
	}
	p.Anonymous = anonymous == 1
	p.CreatedAt = time.Unix(createdAt, 0)
	return &p, nil
}

func (s *store) ListByGuild(guildID string) ([]Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, guild_id, channel_id, message_id, creator_id, type, anonymous, capacity, status, created_at
		FROM `+s.table+` WHERE guild_id = ? ORDER BY created_at DESC
	`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.table, err)
	}
	defer rows.Close()

	pools := []Pool{}
	for rows.Next() {
		var p Pool
		var anonymous int
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.GuildID, &p.ChannelID, &p.MessageID, &p.CreatorID, &p.Type, &anonymous, &p.Capacity, &p.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan pool row: %w", err)
		}
		p.Anonymous = anonymous == 1
		p.CreatedAt = time.Unix(createdAt, 0)
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

func (s *store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM "+s.table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	log.Info("Deleted pool", "table", s.table, "id", id)
	return nil
}

func (s *store) Join(id string, m Member) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := s.getPool(tx, id)
	if err != nil {
		return 0, false, err
	}

	res, err := tx.Exec(`
		INSERT INTO `+s.memberTable+` (`+s.fkColumn+`, discord_id, main_role, sub_role, joined_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(`+s.fkColumn+`, discord_id) DO NOTHING
	`, id, m.DiscordID, m.MainRole, m.SubRole, time.Now().Unix())
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return 0, false, ErrAlreadyJoined
	}

	count, err := s.memberCount(tx, id)
	if err != nil {
		return 0, false, err
	}
	isFull := count >= p.Capacity
	if err := s.setStatus(tx, id, isFull); err != nil {
		return 0, false, err
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit join: %w", err)
	}
	log.Info("Player joined pool", "table", s.table, "id", id, "discordID", m.DiscordID, "count", count, "isFull", isFull)
	return count, isFull, nil
}

func (s *store) Leave(id, discordID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := s.getPool(tx, id)
	if err != nil {
		return 0, err
	}

	res, err := tx.Exec(`
		DELETE FROM `+s.memberTable+` WHERE `+s.fkColumn+` = ? AND discord_id = ?
	`, id, discordID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return 0, ErrMemberNotFound
	}

	count, err := s.memberCount(tx, id)
	if err != nil {
		return 0, err
	}
	if err := s.setStatus(tx, id, count >= p.Capacity); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit leave: %w", err)
	}
	log.Info("Player left pool", "table", s.table, "id", id, "discordID", discordID, "count", count)
	return count, nil
}

func (s *store) UpdateRoles(id, discordID, mainRole, subRole string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getPool(s.db, id); err != nil {
		return err
	}

	res, err := s.db.Exec(`
		UPDATE `+s.memberTable+` SET main_role = ?, sub_role = ?
		WHERE `+s.fkColumn+` = ? AND discord_id = ?
	`, mainRole, subRole, id, discordID)
	if err != nil {
		return fmt.Errorf("failed to update roles: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (s *store) memberCount(tx *sql.Tx, id string) (int, error) {
	var count int
	err := tx.QueryRow(`
		SELECT COUNT(*) FROM `+s.memberTable+` WHERE `+s.fkColumn+` = ?
	`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

func (s *store) setStatus(tx *sql.Tx, id string, isFull bool) error {
	status := StatusOpen
	if isFull {
		status = StatusFull
	}
	if _, err := tx.Exec("UPDATE "+s.table+" SET status = ? WHERE id = ?", status, id); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
