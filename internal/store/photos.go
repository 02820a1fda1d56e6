package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"culler-cli/internal/model"
)

// photoJSON rebuilds a photo from its metadata blob with the curation columns laid
// over it; the columns are the source of truth for curation.
const photoJSON = `json_set(meta_json,
	'$.key', key,
	'$.dir', dir,
	'$.name', name,
	'$.rating', rating,
	'$.isCurated', json(CASE WHEN is_curated THEN 'true' ELSE 'false' END),
	'$.isTrashed', json(CASE WHEN is_trashed THEN 'true' ELSE 'false' END))`

const photoOrder = `ORDER BY taken_at_unixms ASC, key ASC`

// viewWhere is the SQL form of model.View.Matches.
func viewWhere(v model.View) string {
	switch v.Name {
	case model.ViewUnreviewed:
		return `is_curated = 0 AND is_trashed = 0 AND rating = 0`
	case model.ViewPicks:
		return `is_curated = 1 AND is_trashed = 0`
	case model.ViewTrash:
		return `is_trashed = 1`
	default:
		return `is_trashed = 0`
	}
}

// UpsertPhotos records scanned photos. Metadata is refreshed for known keys;
// curation fields are never overwritten by a scan. It returns how many keys were new.
func (s Store) UpsertPhotos(ctx context.Context, photos []model.Photo) (int, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	nowMs := time.Now().UTC().UnixMilli()
	added := 0
	for _, p := range photos {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM photos WHERE key = ?`, p.Key).Scan(&exists)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			added++
		case err != nil:
			return 0, err
		}
		raw, err := json.Marshal(p)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO photos(
			key, dir, name, rating, is_curated, is_trashed, taken_at_unixms, meta_json, updated_at_unixms
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			dir = excluded.dir,
			name = excluded.name,
			taken_at_unixms = excluded.taken_at_unixms,
			meta_json = excluded.meta_json,
			updated_at_unixms = excluded.updated_at_unixms`,
			p.Key, p.Dir, p.Name, p.Rating, boolToInt(p.IsCurated), boolToInt(p.IsTrashed),
			p.TakenAt.UTC().UnixMilli(), string(raw), nowMs,
		); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", p.Key, err)
		}
	}
	return added, tx.Commit()
}

// RemoveMissing deletes every indexed photo whose key is not in keep.
func (s Store) RemoveMissing(ctx context.Context, keep map[string]bool) ([]string, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT key FROM photos `+photoOrder)
	if err != nil {
		return nil, err
	}
	var gone []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			rows.Close()
			return nil, err
		}
		if !keep[k] {
			gone = append(gone, k)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, k := range gone {
		if _, err := tx.ExecContext(ctx, `DELETE FROM photos WHERE key = ?`, k); err != nil {
			return nil, err
		}
	}
	return gone, tx.Commit()
}

// ListPhotos returns one window of the view in capture order, and the view's total.
// A non-positive limit returns everything from offset.
func (s Store) ListPhotos(ctx context.Context, v model.View, offset, limit int) ([]model.Photo, int, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer db.Close()

	where := viewWhere(v)
	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM photos WHERE `+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = -1
	}
	out, err := readJSONRows[model.Photo](ctx, db,
		`SELECT `+photoJSON+` FROM photos WHERE `+where+` `+photoOrder+` LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if out == nil {
		out = []model.Photo{}
	}
	return out, total, nil
}

// GetPhoto looks a photo up by key.
func (s Store) GetPhoto(ctx context.Context, key string) (model.Photo, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Photo{}, err
	}
	defer db.Close()

	xs, err := readJSONRows[model.Photo](ctx, db, `SELECT `+photoJSON+` FROM photos WHERE key = ?`, key)
	if err != nil {
		return model.Photo{}, err
	}
	if len(xs) == 0 {
		return model.Photo{}, model.NotFoundError{Kind: "photo", ID: key}
	}
	return xs[0], nil
}

// Curate writes the curation fields of one photo.
func (s Store) Curate(ctx context.Context, key string, c model.Curation) error {
	if c.Rating < 0 || c.Rating > 5 {
		return fmt.Errorf("rating out of range: %d", c.Rating)
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, `UPDATE photos SET rating = ?, is_curated = ?, is_trashed = ?, updated_at_unixms = ? WHERE key = ?`,
		c.Rating, boolToInt(c.IsCurated), boolToInt(c.IsTrashed), time.Now().UTC().UnixMilli(), key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.NotFoundError{Kind: "photo", ID: key}
	}
	return nil
}

// Counts returns the size of every view.
func (s Store) Counts(ctx context.Context) (map[string]int, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := map[string]int{}
	for _, v := range model.Views() {
		var n int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM photos WHERE `+viewWhere(v)).Scan(&n); err != nil {
			return nil, err
		}
		out[v.Name] = n
	}
	return out, nil
}

// SetMeta stores a small library-level value (e.g. the last import time).
func (s Store) SetMeta(ctx context.Context, k, v string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, k, v)
	return err
}

func (s Store) GetMeta(ctx context.Context, k string) (string, bool, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return "", false, err
	}
	defer db.Close()
	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, k).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
