package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is an entry in a named record table, such as an NPC or an item.
type Record struct {
	ID        string    `json:"id"`
	TableID   string    `json:"tableId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddRecord inserts a record into table.
func (s *Store) AddRecord(ctx context.Context, table, name string) (Record, error) {
	if err := s.ready(ctx); err != nil {
		return Record{}, err
	}
	table = strings.TrimSpace(table)
	name = strings.TrimSpace(name)
	if table == "" {
		return Record{}, fmt.Errorf("table is required")
	}
	if name == "" {
		return Record{}, fmt.Errorf("record name is required")
	}
	rec := Record{ID: uuid.NewString(), TableID: table, Name: name, CreatedAt: time.Now().UTC()}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO records (id, table_id, name, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.TableID, rec.Name, toMillis(rec.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Record{}, fmt.Errorf("record %q in %s: %w", name, table, ErrAlreadyExists)
		}
		return Record{}, fmt.Errorf("add record: %w", err)
	}
	s.snapshots.Delete(recordsKey)
	return rec, nil
}

// ListRecords returns records ordered by table and name. An empty table
// lists every table.
func (s *Store) ListRecords(ctx context.Context, table string) ([]Record, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	query := `SELECT id, table_id, name, created_at FROM records`
	var args []any
	if table = strings.TrimSpace(table); table != "" {
		query += ` WHERE table_id = ?`
		args = append(args, table)
	}
	query += ` ORDER BY table_id, name COLLATE NOCASE`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.TableID, &rec.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.CreatedAt = fromMillis(createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}
