// Package postgres implements the storage.Store collaborator on PostgreSQL
// via database/sql with the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bindlehq/bindle/internal/model"
	"github.com/bindlehq/bindle/internal/storage"
)

// PostgresStore implements storage.Store.
type PostgresStore struct {
	db *sql.DB
}

// Open connects to the DSN, verifies connectivity, and applies the schema.
func Open(dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, stmt := range storage.DDLStatements() {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	var one int
	return s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

func (s *PostgresStore) UpsertBookmark(ctx context.Context, req storage.UpsertBookmarkRequest) (*model.Bookmark, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
        INSERT INTO bmarks (username, hash_id, url, description, extended, inserted_by, clicks, stored, updated)
        VALUES ($1,$2,$3,$4,$5,$6,0,$7,$8)
        ON CONFLICT (username, hash_id) DO UPDATE SET
            url         = excluded.url,
            description = excluded.description,
            extended    = excluded.extended,
            inserted_by = excluded.inserted_by,
            updated     = excluded.updated
    `, req.Username, req.HashID, req.URL, req.Description, req.Extended, req.InsertedBy, now, now)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM bmark_tags WHERE username=$1 AND hash_id=$2`,
		req.Username, req.HashID); err != nil {
		return nil, err
	}
	for _, tag := range req.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tags (username, name) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			req.Username, tag); err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bmark_tags (username, hash_id, tag_name) VALUES ($1,$2,$3) ON CONFLICT DO NOTHING`,
			req.Username, req.HashID, tag); err != nil {
			return nil, err
		}
	}
	if err := pruneTags(ctx, tx, req.Username); err != nil {
		return nil, err
	}

	if req.Content != nil {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO readable (username, hash_id, title, content) VALUES ($1,$2,$3,$4)
            ON CONFLICT (username, hash_id) DO UPDATE SET
                title = excluded.title, content = excluded.content
        `, req.Username, req.HashID, req.Content.Title, req.Content.Content)
		if err != nil {
			return nil, err
		}
	}

	b, err := readBookmark(ctx, tx, req.Username, req.HashID, req.Content != nil)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *PostgresStore) GetBookmark(ctx context.Context, username, hashID string, withContent bool) (*model.Bookmark, error) {
	return readBookmark(ctx, s.db, username, hashID, withContent)
}

func (s *PostgresStore) TouchBookmark(ctx context.Context, username, hashID string, withContent bool) (*model.Bookmark, error) {
	b := &model.Bookmark{Username: username, HashID: hashID}
	row := s.db.QueryRowContext(ctx, `
        UPDATE bmarks SET clicks = clicks + 1
        WHERE username=$1 AND hash_id=$2
        RETURNING url, description, extended, inserted_by, clicks, stored, updated
    `, username, hashID)
	if err := row.Scan(&b.URL, &b.Description, &b.Extended, &b.InsertedBy, &b.Clicks, &b.Stored, &b.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: bookmark %s", model.ErrNotFound, hashID)
		}
		return nil, err
	}
	if err := loadTags(ctx, s.db, b); err != nil {
		return nil, err
	}
	if withContent {
		if err := loadReadable(ctx, s.db, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (s *PostgresStore) DeleteBookmark(ctx context.Context, username, hashID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM bmarks WHERE username=$1 AND hash_id=$2`, username, hashID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: bookmark %s", model.ErrNotFound, hashID)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM bmark_tags WHERE username=$1 AND hash_id=$2`, username, hashID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM readable WHERE username=$1 AND hash_id=$2`, username, hashID); err != nil {
		return err
	}
	if err := pruneTags(ctx, tx, username); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PostgresStore) ListRecent(ctx context.Context, username string, limit, offset int, withContent bool) ([]*model.Bookmark, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT hash_id, url, description, extended, inserted_by, clicks, stored, updated
        FROM bmarks WHERE username=$1
        ORDER BY updated DESC, hash_id ASC
        LIMIT $2 OFFSET $3
    `, username, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.collect(ctx, rows, username, withContent)
}

func (s *PostgresStore) ListAll(ctx context.Context, username string) ([]*model.Bookmark, error) {
	q := `
        SELECT username, hash_id, url, description, extended, inserted_by, clicks, stored, updated
        FROM bmarks`
	args := []any{}
	if username != "" {
		q += ` WHERE username=$1`
		args = append(args, username)
	}
	q += ` ORDER BY username ASC, hash_id ASC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Bookmark
	for rows.Next() {
		b := &model.Bookmark{}
		if err := rows.Scan(&b.Username, &b.HashID, &b.URL, &b.Description, &b.Extended, &b.InsertedBy, &b.Clicks, &b.Stored, &b.Updated); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, b := range out {
		if err := loadTags(ctx, s.db, b); err != nil {
			return nil, err
		}
		if err := loadReadable(ctx, s.db, b); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PostgresStore) SearchSubstring(ctx context.Context, username, query string) ([]*model.Bookmark, error) {
	needle := "%" + escapeLike(strings.ToLower(query)) + "%"
	rows, err := s.db.QueryContext(ctx, `
        SELECT hash_id, url, description, extended, inserted_by, clicks, stored, updated
        FROM bmarks
        WHERE username=$1 AND (LOWER(description) LIKE $2 ESCAPE '\' OR LOWER(url) LIKE $3 ESCAPE '\')
        ORDER BY clicks DESC, updated DESC, hash_id ASC
    `, username, needle, needle)
	if err != nil {
		return nil, err
	}
	return s.collect(ctx, rows, username, false)
}

func (s *PostgresStore) ListTags(ctx context.Context, username, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT name FROM tags WHERE username=$1 AND name LIKE $2 ESCAPE '\' ORDER BY name ASC
    `, username, escapeLike(strings.ToLower(prefix))+"%")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *PostgresStore) ListByTags(ctx context.Context, username string, tags []string) ([]*model.Bookmark, error) {
	if len(tags) == 0 {
		return s.ListAll(ctx, username)
	}
	placeholders := make([]string, len(tags))
	args := []any{username}
	for i, t := range tags {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, t)
	}
	args = append(args, len(tags))

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
        SELECT hash_id, url, description, extended, inserted_by, clicks, stored, updated
        FROM bmarks
        WHERE username=$1 AND hash_id IN (
            SELECT hash_id FROM bmark_tags
            WHERE username=$1 AND tag_name IN (%s)
            GROUP BY hash_id
            HAVING COUNT(DISTINCT tag_name) = $%d
        )
        ORDER BY hash_id ASC
    `, strings.Join(placeholders, ","), len(tags)+2), args...)
	if err != nil {
		return nil, err
	}
	return s.collect(ctx, rows, username, false)
}

func (s *PostgresStore) Snapshot(ctx context.Context, username string, since *time.Time) ([]string, error) {
	q := `SELECT hash_id FROM bmarks WHERE username=$1`
	args := []any{username}
	if since != nil {
		q += ` AND updated >= $2`
		args = append(args, since.UTC())
	}
	q += ` ORDER BY hash_id ASC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}
	return hashes, rows.Err()
}

func (s *PostgresStore) collect(ctx context.Context, rows *sql.Rows, username string, withContent bool) ([]*model.Bookmark, error) {
	defer func() { _ = rows.Close() }()

	var out []*model.Bookmark
	for rows.Next() {
		b := &model.Bookmark{Username: username}
		if err := rows.Scan(&b.HashID, &b.URL, &b.Description, &b.Extended, &b.InsertedBy, &b.Clicks, &b.Stored, &b.Updated); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, b := range out {
		if err := loadTags(ctx, s.db, b); err != nil {
			return nil, err
		}
		if withContent {
			if err := loadReadable(ctx, s.db, b); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readBookmark(ctx context.Context, q querier, username, hashID string, withContent bool) (*model.Bookmark, error) {
	b := &model.Bookmark{Username: username, HashID: hashID}
	row := q.QueryRowContext(ctx, `
        SELECT url, description, extended, inserted_by, clicks, stored, updated
        FROM bmarks WHERE username=$1 AND hash_id=$2
    `, username, hashID)
	if err := row.Scan(&b.URL, &b.Description, &b.Extended, &b.InsertedBy, &b.Clicks, &b.Stored, &b.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: bookmark %s", model.ErrNotFound, hashID)
		}
		return nil, err
	}
	if err := loadTags(ctx, q, b); err != nil {
		return nil, err
	}
	if withContent {
		if err := loadReadable(ctx, q, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func loadTags(ctx context.Context, q querier, b *model.Bookmark) error {
	rows, err := q.QueryContext(ctx, `
        SELECT tag_name FROM bmark_tags WHERE username=$1 AND hash_id=$2 ORDER BY tag_name ASC
    `, b.Username, b.HashID)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	b.Tags = nil
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		b.Tags = append(b.Tags, model.Tag{Name: name})
	}
	return rows.Err()
}

func loadReadable(ctx context.Context, q querier, b *model.Bookmark) error {
	var rc model.ReadableContent
	row := q.QueryRowContext(ctx, `
        SELECT title, content FROM readable WHERE username=$1 AND hash_id=$2
    `, b.Username, b.HashID)
	if err := row.Scan(&rc.Title, &rc.Content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	b.Readable = &rc
	return nil
}

// escapeLike neutralizes LIKE metacharacters so user input only ever
// matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func pruneTags(ctx context.Context, tx *sql.Tx, username string) error {
	_, err := tx.ExecContext(ctx, `
        DELETE FROM tags
        WHERE username=$1 AND name NOT IN (
            SELECT tag_name FROM bmark_tags WHERE username=$2
        )
    `, username, username)
	return err
}
