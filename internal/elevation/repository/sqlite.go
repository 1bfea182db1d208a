package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"wall-elevation/internal/elevation/models"
)

// ============================================================
// SQLite Store
// ============================================================

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Init применяет миграции.
func (s *SQLiteStore) Init(ctx context.Context, migrationsPath string) error {
	if err := s.runMigrations(ctx, migrationsPath); err != nil {
		return errors.Wrap(err, "migrations")
	}
	return nil
}

const wallColumns = `id, name, width_feet, height_feet, room_id, created_at, updated_at`

const fixtureColumns = `id, wall_id, type, name, width_inches, height_inches, position_x, position_y,
        product_url, notes, created_at, updated_at`

func (s *SQLiteStore) ListWalls(ctx context.Context) ([]models.Wall, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+wallColumns+` FROM walls ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "list walls")
	}
	defer rows.Close()

	out := []models.Wall{}
	for rows.Next() {
		w, err := scanWall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, errors.Wrap(rows.Err(), "list walls")
}

func (s *SQLiteStore) GetWallWithFixtures(ctx context.Context, id string) (*models.WallWithFixtures, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+wallColumns+` FROM walls WHERE id = ?`, id)
	wall, err := scanWall(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "wall %s", id)
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT `+fixtureColumns+`
        FROM fixtures
        WHERE wall_id = ?
        ORDER BY rowid
    `, id)
	if err != nil {
		return nil, errors.Wrapf(err, "list fixtures of %s", id)
	}
	defer rows.Close()

	out := &models.WallWithFixtures{Wall: *wall, Fixtures: []models.Fixture{}}
	for rows.Next() {
		f, err := scanFixture(rows)
		if err != nil {
			return nil, err
		}
		out.Fixtures = append(out.Fixtures, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "list fixtures of %s", id)
	}
	return out, nil
}

func (s *SQLiteStore) CreateWall(ctx context.Context, wall models.Wall) (*models.Wall, error) {
	if err := wall.Validate(); err != nil {
		return nil, err
	}
	if wall.ID == "" {
		wall.ID = uuid.NewString()
	}
	wall.CreatedAt = now()
	wall.UpdatedAt = wall.CreatedAt

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO walls (`+wallColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `,
		wall.ID,
		wall.Name,
		wall.WidthFeet,
		wall.HeightFeet,
		wall.RoomID,
		formatTime(wall.CreatedAt),
		formatTime(wall.UpdatedAt),
	)
	if err != nil {
		return nil, errors.Wrap(err, "insert wall")
	}
	return &wall, nil
}

func (s *SQLiteStore) GetFixture(ctx context.Context, id string) (*models.Fixture, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fixtureColumns+` FROM fixtures WHERE id = ?`, id)
	f, err := scanFixture(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "fixture %s", id)
		}
		return nil, err
	}
	return f, nil
}

func (s *SQLiteStore) CreateFixture(ctx context.Context, fixture models.Fixture) (*models.Fixture, error) {
	if err := fixture.Validate(); err != nil {
		return nil, err
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM walls WHERE id = ?`, fixture.WallID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "wall %s", fixture.WallID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "check wall")
	}

	f := fixture.Clone()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = now()
	f.UpdatedAt = f.CreatedAt

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO fixtures (`+fixtureColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		f.ID,
		f.WallID,
		f.Type,
		f.Name,
		f.WidthInches,
		f.HeightInches,
		f.PositionX,
		f.PositionY,
		nullString(f.ProductURL),
		nullString(f.Notes),
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
	)
	if err != nil {
		return nil, errors.Wrap(err, "insert fixture")
	}
	return &f, nil
}

func (s *SQLiteStore) UpdateFixture(ctx context.Context, id string, patch models.FixturePatch) (*models.Fixture, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+fixtureColumns+` FROM fixtures WHERE id = ?`, id)
	current, err := scanFixture(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "fixture %s", id)
		}
		return nil, err
	}

	updated := patch.Apply(*current)
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	updated.UpdatedAt = now()

	_, err = tx.ExecContext(ctx, `
        UPDATE fixtures
        SET type = ?, name = ?, width_inches = ?, height_inches = ?, position_x = ?, position_y = ?,
            product_url = ?, notes = ?, updated_at = ?
        WHERE id = ?
    `,
		updated.Type,
		updated.Name,
		updated.WidthInches,
		updated.HeightInches,
		updated.PositionX,
		updated.PositionY,
		nullString(updated.ProductURL),
		nullString(updated.Notes),
		formatTime(updated.UpdatedAt),
		id,
	)
	if err != nil {
		return nil, errors.Wrap(err, "update fixture")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return &updated, nil
}

func (s *SQLiteStore) DeleteFixture(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM fixtures WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete fixture")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete fixture")
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "fixture %s", id)
	}
	return nil
}

func (s *SQLiteStore) SampleWallID() string {
	return SampleWallID
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ============================================================
// Scanning
// ============================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanWall(row scanner) (*models.Wall, error) {
	var (
		w                    models.Wall
		createdAt, updatedAt string
	)
	if err := row.Scan(&w.ID, &w.Name, &w.WidthFeet, &w.HeightFeet, &w.RoomID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func scanFixture(row scanner) (*models.Fixture, error) {
	var (
		f                    models.Fixture
		productURL, notes    sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&f.ID, &f.WallID, &f.Type, &f.Name, &f.WidthInches, &f.HeightInches,
		&f.PositionX, &f.PositionY, &productURL, &notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if productURL.Valid {
		f.ProductURL = &productURL.String
	}
	if notes.Valid {
		f.Notes = &notes.String
	}
	var err error
	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse time %q", s)
	}
	return t, nil
}

// ============================================================
// Migrations
// ============================================================

func (s *SQLiteStore) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
