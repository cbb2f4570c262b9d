package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/open-cli-collective/lore-cli/pkg/dice"
)

// AppendRoll adds a record to the roll log.
func (s *Store) AppendRoll(ctx context.Context, rec dice.Record) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode roll: %w", err)
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO rolls (roll_text, body, sum, rolled_at) VALUES (?, ?, ?, ?)`,
		rec.RollText, string(body), rec.Sum, toMillis(time.Now()),
	); err != nil {
		return fmt.Errorf("append roll: %w", err)
	}
	return nil
}

// RecentRolls returns up to limit rolls, newest first. A non-positive limit
// returns the whole log.
func (s *Store) RecentRolls(ctx context.Context, limit int) ([]dice.Record, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT body FROM rolls ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list rolls: %w", err)
	}
	defer rows.Close()

	var records []dice.Record
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan roll: %w", err)
		}
		var rec dice.Record
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			return nil, fmt.Errorf("decode roll: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rolls: %w", err)
	}
	return records, nil
}
