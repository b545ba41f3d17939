package db

import (
	"context"
	"strings"

	"clicksafe/internal/models"
)

// GetDenyList returns every curated name.
func (d *DB) GetDenyList(ctx context.Context) ([]models.DenyListEntry, error) {
	rows, err := d.Pool.Query(ctx, `SELECT name, source, created_at FROM deny_list ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.DenyListEntry
	for rows.Next() {
		var e models.DenyListEntry
		if err := rows.Scan(&e.Name, &e.Source, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetDenyListNames returns just the names, for building a denylist.List.
func (d *DB) GetDenyListNames(ctx context.Context) ([]string, error) {
	entries, err := d.GetDenyList(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}

// AddDenyListNames inserts names, lower-cased and trimmed. Existing names are
// left alone. It returns how many rows were added.
func (d *DB) AddDenyListNames(ctx context.Context, source string, names []string) (int64, error) {
	var added int64
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		tag, err := d.Pool.Exec(ctx, `
			INSERT INTO deny_list (name, source) VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, name, source)
		if err != nil {
			return added, err
		}
		added += tag.RowsAffected()
	}
	return added, nil
}
