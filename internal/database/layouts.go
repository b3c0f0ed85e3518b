package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/cuesim/internal/layout"
)

var ErrLayoutNotFound = errors.New("layout not found")

// LayoutInfo is a stored layout without its body.
type LayoutInfo struct {
	Name      string    `db:"name" json:"name"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type layoutRow struct {
	Name      string    `db:"name"`
	Body      []byte    `db:"body"`
	UpdatedAt time.Time `db:"updated_at"`
}

// LayoutStore keeps named table layouts in the table_layouts table as JSON.
type LayoutStore struct {
	db *sqlx.DB
}

func NewLayoutStore(db *sqlx.DB) *LayoutStore {
	return &LayoutStore{db: db}
}

// Get loads the layout stored under name.
func (s *LayoutStore) Get(ctx context.Context, name string) (*layout.Layout, error) {
	var row layoutRow
	err := s.db.GetContext(ctx, &row, `SELECT name, body, updated_at FROM table_layouts WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("query layout %s: %w", name, err)
	}

	var l layout.Layout
	if err := json.Unmarshal(row.Body, &l); err != nil {
		return nil, fmt.Errorf("decode layout %s: %w", name, err)
	}
	return &l, nil
}

// Save inserts or replaces the layout stored under name.
func (s *LayoutStore) Save(ctx context.Context, name string, l *layout.Layout) error {
	body, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode layout %s: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO table_layouts (name, body, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		name, body)
	if err != nil {
		return fmt.Errorf("save layout %s: %w", name, err)
	}
	return nil
}

// List returns the stored layout names, most recently updated first.
func (s *LayoutStore) List(ctx context.Context) ([]LayoutInfo, error) {
	var infos []LayoutInfo
	if err := s.db.SelectContext(ctx, &infos, `SELECT name, updated_at FROM table_layouts ORDER BY updated_at DESC`); err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	return infos, nil
}
