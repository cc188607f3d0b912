package production

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS table_versions (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	version_id  TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	hash        TEXT NOT NULL,
	data        BLOB NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_table_versions_name ON table_versions(name, seq);
`
// #endregion schema

// Version describes one stored revision of a named table.
type Version struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Hash      string    `json:"hash" yaml:"hash"`
	Size      int       `json:"size" yaml:"size"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// SQLitePersister keeps every saved revision of a table. Load returns the
// most recent one.
type SQLitePersister struct {
	db *sql.DB
}

// ContentHash is the first 8 bytes of the SHA-256 of data, hex encoded.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:8])
}

// #region constructor
// NewSQLitePersister opens a SQLite database and runs migrations.
func NewSQLitePersister(dbPath string) (*SQLitePersister, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLitePersister{db: db}, nil
}
// #endregion constructor

// Close closes the underlying database connection.
func (p *SQLitePersister) Close() error {
	return p.db.Close()
}

func (p *SQLitePersister) Save(ctx context.Context, name string, data []byte) error {
	_, err := p.SaveVersion(ctx, name, data)
	return err
}

// SaveVersion stores data as a new revision of name.
func (p *SQLitePersister) SaveVersion(ctx context.Context, name string, data []byte) (Version, error) {
	if err := checkName(name); err != nil {
		return Version{}, err
	}
	v := Version{
		ID:        uuid.New().String(),
		Name:      name,
		Hash:      ContentHash(data),
		Size:      len(data),
		CreatedAt: time.Now().UTC(),
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO table_versions (version_id, name, hash, data, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Hash, data, v.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Version{}, fmt.Errorf("insert version: %w", err)
	}
	return v, nil
}

func (p *SQLitePersister) Load(ctx context.Context, name string) ([]byte, error) {
	_, data, err := p.Latest(ctx, name)
	return data, err
}

// #region queries
// Latest returns the newest revision of name.
func (p *SQLitePersister) Latest(ctx context.Context, name string) (Version, []byte, error) {
	if err := checkName(name); err != nil {
		return Version{}, nil, err
	}
	row := p.db.QueryRowContext(ctx,
		`SELECT version_id, name, hash, data, created_at FROM table_versions
		 WHERE name = ? ORDER BY seq DESC LIMIT 1`, name)
	v, data, err := scanVersion(row)
	if err != nil {
		return Version{}, nil, fmt.Errorf("latest %q: %w", name, err)
	}
	return v, data, nil
}

// Version returns a specific revision of name.
func (p *SQLitePersister) Version(ctx context.Context, name, id string) (Version, []byte, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT version_id, name, hash, data, created_at FROM table_versions
		 WHERE name = ? AND version_id = ?`, name, id)
	v, data, err := scanVersion(row)
	if err != nil {
		return Version{}, nil, fmt.Errorf("version %s of %q: %w", id, name, err)
	}
	return v, data, nil
}

// ListVersions returns the revisions of name, newest first.
func (p *SQLitePersister) ListVersions(ctx context.Context, name string) ([]Version, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT version_id, name, hash, length(data), created_at FROM table_versions
		 WHERE name = ? ORDER BY seq DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var out []Version
	for rows.Next() {
		var v Version
		var created string
		if err := rows.Scan(&v.ID, &v.Name, &v.Hash, &v.Size, &created); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		if v.CreatedAt, err = parseCreated(v.ID, created); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}
	return out, nil
}

// ListNames returns every stored table name in ascending order.
func (p *SQLitePersister) ListNames(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT DISTINCT name FROM table_versions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
// #endregion queries

func scanVersion(row *sql.Row) (Version, []byte, error) {
	var v Version
	var data []byte
	var created string
	if err := row.Scan(&v.ID, &v.Name, &v.Hash, &data, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Version{}, nil, ErrNotFound
		}
		return Version{}, nil, err
	}
	v.Size = len(data)
	var err error
	if v.CreatedAt, err = parseCreated(v.ID, created); err != nil {
		return Version{}, nil, err
	}
	return v, data, nil
}

func parseCreated(id, created string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return time.Time{}, fmt.Errorf("version %s: bad created_at %q: %w", id, created, err)
	}
	return t, nil
}
