package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"wall-elevation/internal/elevation/models"
)

// ============================================================
// Store
// ============================================================

// ErrNotFound: стена или фикстура не найдена.
var ErrNotFound = errors.New("not found")

// Store: фикстуры стены возвращаются в порядке создания.
type Store interface {
	ListWalls(ctx context.Context) ([]models.Wall, error)
	GetWallWithFixtures(ctx context.Context, id string) (*models.WallWithFixtures, error)
	CreateWall(ctx context.Context, wall models.Wall) (*models.Wall, error)

	GetFixture(ctx context.Context, id string) (*models.Fixture, error)
	CreateFixture(ctx context.Context, fixture models.Fixture) (*models.Fixture, error)
	UpdateFixture(ctx context.Context, id string, patch models.FixturePatch) (*models.Fixture, error)
	DeleteFixture(ctx context.Context, id string) error

	SampleWallID() string
	Ping(ctx context.Context) error
}

// IsNotFound проверяет, что ошибка означает отсутствие записи.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func now() time.Time {
	return time.Now().UTC()
}

// ============================================================
// Sample data
// ============================================================

const (
	SampleClientID = "client-sample"
	SampleRoomID   = "room-sample"
	SampleWallID   = "wall-sample"
)

func sampleURL(path string) *string {
	u := "https://example.com/" + path
	return &u
}

// SampleWall: демонстрационная северная стена санузла 8' x 8'.
func SampleWall() models.Wall {
	return models.Wall{
		ID:         SampleWallID,
		Name:       "North Wall",
		WidthFeet:  8,
		HeightFeet: 8,
		RoomID:     SampleRoomID,
	}
}

// SampleFixtures возвращает фикстуры демонстрационной стены в порядке отрисовки.
func SampleFixtures() []models.Fixture {
	return []models.Fixture{
		{ID: "fixture-sink", Type: "sink", Name: "Vanity Sink", WidthInches: 24, HeightInches: 8, PositionX: 24, PositionY: 36, WallID: SampleWallID, ProductURL: sampleURL("sink")},
		{ID: "fixture-mirror", Type: "mirror", Name: "Wall Mirror", WidthInches: 30, HeightInches: 36, PositionX: 21, PositionY: 48, WallID: SampleWallID, ProductURL: sampleURL("mirror")},
		{ID: "fixture-light", Type: "light", Name: "Vanity Light", WidthInches: 24, HeightInches: 6, PositionX: 24, PositionY: 86, WallID: SampleWallID, ProductURL: sampleURL("light")},
		{ID: "fixture-outlet", Type: "outlet", Name: "GFCI Outlet", WidthInches: 4, HeightInches: 6, PositionX: 60, PositionY: 42, WallID: SampleWallID},
	}
}

// Seed добавляет демонстрационную стену, если ее еще нет.
func Seed(ctx context.Context, s Store) error {
	_, err := s.GetWallWithFixtures(ctx, SampleWallID)
	if err == nil {
		return nil
	}
	if !IsNotFound(err) {
		return errors.Wrap(err, "check sample wall")
	}

	if _, err := s.CreateWall(ctx, SampleWall()); err != nil {
		return errors.Wrap(err, "seed wall")
	}
	for _, f := range SampleFixtures() {
		if _, err := s.CreateFixture(ctx, f); err != nil {
			return errors.Wrapf(err, "seed fixture %s", f.ID)
		}
	}
	return nil
}
