package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"wall-elevation/internal/elevation/models"
)

// ============================================================
// Memory Store
// ============================================================

// MemoryStore держит все в памяти процесса. Порядок вставки сохраняется.
type MemoryStore struct {
	mu sync.RWMutex

	walls        map[string]models.Wall
	wallOrder    []string
	fixtures     map[string]models.Fixture
	fixtureOrder []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		walls:    make(map[string]models.Wall),
		fixtures: make(map[string]models.Fixture),
	}
}

func (s *MemoryStore) ListWalls(_ context.Context) ([]models.Wall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Wall, 0, len(s.wallOrder))
	for _, id := range s.wallOrder {
		out = append(out, s.walls[id])
	}
	return out, nil
}

func (s *MemoryStore) GetWallWithFixtures(_ context.Context, id string) (*models.WallWithFixtures, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wall, ok := s.walls[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "wall %s", id)
	}

	out := &models.WallWithFixtures{Wall: wall, Fixtures: []models.Fixture{}}
	for _, fid := range s.fixtureOrder {
		if f := s.fixtures[fid]; f.WallID == id {
			out.Fixtures = append(out.Fixtures, f.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) CreateWall(_ context.Context, wall models.Wall) (*models.Wall, error) {
	if err := wall.Validate(); err != nil {
		return nil, err
	}
	if wall.ID == "" {
		wall.ID = uuid.NewString()
	}
	wall.CreatedAt = now()
	wall.UpdatedAt = wall.CreatedAt

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.walls[wall.ID]; !exists {
		s.wallOrder = append(s.wallOrder, wall.ID)
	}
	s.walls[wall.ID] = wall
	return &wall, nil
}

func (s *MemoryStore) GetFixture(_ context.Context, id string) (*models.Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.fixtures[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "fixture %s", id)
	}
	out := f.Clone()
	return &out, nil
}

func (s *MemoryStore) CreateFixture(_ context.Context, fixture models.Fixture) (*models.Fixture, error) {
	if err := fixture.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.walls[fixture.WallID]; !ok {
		return nil, errors.Wrapf(ErrNotFound, "wall %s", fixture.WallID)
	}

	f := fixture.Clone()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = now()
	f.UpdatedAt = f.CreatedAt

	if _, exists := s.fixtures[f.ID]; !exists {
		s.fixtureOrder = append(s.fixtureOrder, f.ID)
	}
	s.fixtures[f.ID] = f

	out := f.Clone()
	return &out, nil
}

func (s *MemoryStore) UpdateFixture(_ context.Context, id string, patch models.FixturePatch) (*models.Fixture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.fixtures[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "fixture %s", id)
	}

	updated := patch.Apply(current)
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	updated.UpdatedAt = now()
	// ключ берем из хранилища: id может ссылаться на буфер запроса
	s.fixtures[current.ID] = updated

	out := updated.Clone()
	return &out, nil
}

func (s *MemoryStore) DeleteFixture(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.fixtures[id]; !ok {
		return errors.Wrapf(ErrNotFound, "fixture %s", id)
	}
	delete(s.fixtures, id)
	for i, fid := range s.fixtureOrder {
		if fid == id {
			s.fixtureOrder = append(s.fixtureOrder[:i], s.fixtureOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) SampleWallID() string {
	return SampleWallID
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
