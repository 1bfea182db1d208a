package repository

import (
	"context"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wall-elevation/internal/elevation/models"
)

const migrationsPath = "../../../migrations/001_init_elevation.sql"

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "elevation.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewSQLiteStore(db)
	require.NoError(t, store.Init(context.Background(), migrationsPath))
	return store
}

// каждое хранилище обязано вести себя одинаково
func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("sqlite", func(t *testing.T) {
		fn(t, newSQLiteStore(t))
	})
}

func seeded(t *testing.T, s Store) Store {
	t.Helper()
	require.NoError(t, Seed(context.Background(), s))
	return s
}

func TestSeedCreatesSampleWall(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seeded(t, s)
		require.NoError(t, Seed(ctx, s), "seeding twice is a no-op")

		wall, err := s.GetWallWithFixtures(ctx, s.SampleWallID())
		require.NoError(t, err)
		assert.Equal(t, "North Wall", wall.Name)
		assert.Equal(t, 8.0, wall.WidthFeet)
		assert.Equal(t, SampleRoomID, wall.RoomID)

		ids := make([]string, 0, len(wall.Fixtures))
		for _, f := range wall.Fixtures {
			ids = append(ids, f.ID)
		}
		assert.Equal(t, []string{"fixture-sink", "fixture-mirror", "fixture-light", "fixture-outlet"}, ids)

		require.NotNil(t, wall.Fixtures[0].ProductURL)
		assert.Equal(t, "https://example.com/sink", *wall.Fixtures[0].ProductURL)
		assert.Nil(t, wall.Fixtures[3].ProductURL)
		assert.False(t, wall.Fixtures[0].CreatedAt.IsZero())
	})
}

func TestGetWallNotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		_, err := s.GetWallWithFixtures(context.Background(), "missing")
		require.ErrorIs(t, err, ErrNotFound)
		assert.True(t, IsNotFound(err))
	})
}

func TestCreateWallAndFixtures(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		wall, err := s.CreateWall(ctx, models.Wall{Name: "East Wall", WidthFeet: 12, HeightFeet: 9})
		require.NoError(t, err)
		assert.NotEmpty(t, wall.ID)

		_, err = s.CreateWall(ctx, models.Wall{Name: "Bad", WidthFeet: 0, HeightFeet: 9})
		require.ErrorIs(t, err, models.ErrInvalidWall)

		notes := "centered"
		for _, name := range []string{"First", "Second", "Third"} {
			_, err := s.CreateFixture(ctx, models.FixtureDraft{
				Type: "cabinet", Name: name, WidthInches: 30, HeightInches: 30,
				PositionX: 10, PositionY: 54, WallID: wall.ID, Notes: &notes,
			}.Fixture())
			require.NoError(t, err)
		}

		got, err := s.GetWallWithFixtures(ctx, wall.ID)
		require.NoError(t, err)
		require.Len(t, got.Fixtures, 3)
		assert.Equal(t, "First", got.Fixtures[0].Name)
		assert.Equal(t, "Third", got.Fixtures[2].Name)
		require.NotNil(t, got.Fixtures[1].Notes)
		assert.Equal(t, "centered", *got.Fixtures[1].Notes)

		walls, err := s.ListWalls(ctx)
		require.NoError(t, err)
		assert.Len(t, walls, 1)
	})
}

func TestCreateFixtureValidation(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seeded(t, s)

		tests := []struct {
			name    string
			fixture models.Fixture
			wantErr error
		}{
			{"missing type", models.Fixture{Name: "X", WidthInches: 1, HeightInches: 1, WallID: SampleWallID}, models.ErrInvalidFixture},
			{"zero width", models.Fixture{Type: "sink", Name: "X", HeightInches: 1, WallID: SampleWallID}, models.ErrInvalidFixture},
			{"negative position", models.Fixture{Type: "sink", Name: "X", WidthInches: 1, HeightInches: 1, PositionX: -1, WallID: SampleWallID}, models.ErrInvalidFixture},
			{"unknown wall", models.Fixture{Type: "sink", Name: "X", WidthInches: 1, HeightInches: 1, WallID: "nope"}, ErrNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := s.CreateFixture(ctx, tt.fixture)
				require.ErrorIs(t, err, tt.wantErr)
			})
		}
	})
}

func TestUpdateFixturePatch(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seeded(t, s)

		before, err := s.GetFixture(ctx, "fixture-sink")
		require.NoError(t, err)

		updated, err := s.UpdateFixture(ctx, "fixture-sink", models.PositionPatch(40.25, 30.5))
		require.NoError(t, err)
		assert.Equal(t, 40.25, updated.PositionX)
		assert.Equal(t, 30.5, updated.PositionY)
		assert.Equal(t, "Vanity Sink", updated.Name, "unpatched fields are kept")
		assert.False(t, updated.UpdatedAt.Before(before.UpdatedAt))

		stored, err := s.GetFixture(ctx, "fixture-sink")
		require.NoError(t, err)
		assert.Equal(t, 40.25, stored.PositionX)
		assert.Equal(t, SampleWallID, stored.WallID)

		_, err = s.UpdateFixture(ctx, "fixture-sink", models.PositionPatch(-1, 0))
		require.ErrorIs(t, err, models.ErrInvalidFixture)

		_, err = s.UpdateFixture(ctx, "missing", models.PositionPatch(1, 1))
		require.ErrorIs(t, err, ErrNotFound)
	})
}

// id, как и параметры fiber, может указывать на переиспользуемый буфер
func TestUpdateFixtureDoesNotKeepCallerID(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seeded(t, s)

		buf := []byte("fixture-sink")
		id := unsafe.String(&buf[0], len(buf))
		_, err := s.UpdateFixture(ctx, id, models.PositionPatch(40, 30))
		require.NoError(t, err)

		copy(buf, "fixture-xxxx")

		stored, err := s.GetFixture(ctx, "fixture-sink")
		require.NoError(t, err)
		assert.Equal(t, 40.0, stored.PositionX)

		wall, err := s.GetWallWithFixtures(ctx, SampleWallID)
		require.NoError(t, err)
		assert.Len(t, wall.Fixtures, 4)
	})
}

func TestDeleteFixture(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seeded(t, s)

		require.NoError(t, s.DeleteFixture(ctx, "fixture-mirror"))
		require.ErrorIs(t, s.DeleteFixture(ctx, "fixture-mirror"), ErrNotFound)

		wall, err := s.GetWallWithFixtures(ctx, SampleWallID)
		require.NoError(t, err)
		assert.Len(t, wall.Fixtures, 3)
		assert.Equal(t, -1, wall.FindFixture("fixture-mirror"))
	})
}

func TestPing(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		assert.NoError(t, s.Ping(context.Background()))
	})
}
