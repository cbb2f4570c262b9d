package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/open-cli-collective/lore-cli/pkg/doc"
)

// Page is a note page. Pages nest under an optional parent.
type Page struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreatePage inserts a page with an empty document.
func (s *Store) CreatePage(ctx context.Context, name, parentID string) (Page, error) {
	if err := s.ready(ctx); err != nil {
		return Page{}, err
	}
	name = strings.TrimSpace(name)
	parentID = strings.TrimSpace(parentID)
	if name == "" {
		return Page{}, fmt.Errorf("page name is required")
	}
	if parentID != "" {
		if _, err := s.GetPage(ctx, parentID); err != nil {
			return Page{}, fmt.Errorf("parent page %s: %w", parentID, err)
		}
	}
	now := time.Now().UTC()
	page := Page{ID: uuid.NewString(), Name: name, ParentID: parentID, CreatedAt: now, UpdatedAt: now}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO pages (id, name, parent_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		page.ID, page.Name, nullString(parentID), toMillis(now), toMillis(now),
	)
	if err != nil {
		return Page{}, fmt.Errorf("create page: %w", err)
	}
	s.snapshots.Delete(pagesKey)
	s.logger.Debug("page created", zap.String("page", page.ID))
	return page, nil
}

// GetPage returns one page by ID.
func (s *Store) GetPage(ctx context.Context, id string) (Page, error) {
	if err := s.ready(ctx); err != nil {
		return Page{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, parent_id, created_at, updated_at FROM pages WHERE id = ?`,
		strings.TrimSpace(id),
	)
	page, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Page{}, ErrNotFound
	}
	if err != nil {
		return Page{}, fmt.Errorf("get page: %w", err)
	}
	return page, nil
}

// ListPages returns all pages ordered by name.
func (s *Store) ListPages(ctx context.Context) ([]Page, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, parent_id, created_at, updated_at FROM pages ORDER BY name COLLATE NOCASE, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// DeletePage removes a page and its document. Child pages move to the top
// level.
func (s *Store) DeletePage(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.snapshots.Delete(pagesKey)
	return nil
}

// Load returns the document of a page. A page that was never saved yields
// the default empty document. Malformed stored documents are coerced and
// logged.
func (s *Store) Load(ctx context.Context, pageID string) (*doc.Document, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if _, err := s.GetPage(ctx, pageID); err != nil {
		return nil, err
	}
	var body string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT body FROM documents WHERE page_id = ?`, pageID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return doc.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	d, err := doc.Unmarshal([]byte(body))
	if err != nil {
		s.logger.Warn("coerced malformed document", zap.String("page", pageID), zap.Error(err))
	}
	return d, nil
}

// Save stores the document of a page.
func (s *Store) Save(ctx context.Context, pageID string, d *doc.Document) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("document is required")
	}
	if _, err := s.GetPage(ctx, pageID); err != nil {
		return err
	}
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	now := toMillis(time.Now())

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (page_id, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (page_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		pageID, string(body), now,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save document: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE pages SET updated_at = ? WHERE id = ?`, now, pageID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("touch page: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (Page, error) {
	var page Page
	var parent sql.NullString
	var createdAt, updatedAt int64
	if err := row.Scan(&page.ID, &page.Name, &parent, &createdAt, &updatedAt); err != nil {
		return Page{}, err
	}
	page.ParentID = parent.String
	page.CreatedAt = fromMillis(createdAt)
	page.UpdatedAt = fromMillis(updatedAt)
	return page, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
