package service

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"wall-elevation/internal/elevation/interaction"
)

// ============================================================
// Session Manager
// ============================================================

// ErrSessionNotFound: сессия не существует или истекла.
var ErrSessionNotFound = errors.New("session not found")

type SessionMetrics interface {
	interaction.Observer
	SessionOpened()
	SessionClosed()
}

type nopSessionMetrics struct{}

func (nopSessionMetrics) SaveCompleted(bool) {}
func (nopSessionMetrics) Reconciled(interaction.Outcome) {}
func (nopSessionMetrics) SessionOpened() {}
func (nopSessionMetrics) SessionClosed() {}

// Session: одно окно редактирования стены, контроллер перетаскивания и его стена.
type Session struct {
	ID         string                  `json:"id"`
	WallID     string                  `json:"wallId"`
	CreatedAt  time.Time               `json:"createdAt"`
	Controller *interaction.Controller `json:"-"`
}

// SessionManager хранит сессии в go-cache со скользящим TTL.
// При удалении или истечении сессия дожидается своих сохранений
// (go-cache вызывает OnEvicted синхронно из Delete).
type SessionManager struct {
	persistence interaction.Persistence
	metrics     SessionMetrics
	ttl         time.Duration
	sessions    *cache.Cache
}

func NewSessionManager(persistence interaction.Persistence, ttl time.Duration, metrics SessionMetrics) *SessionManager {
	if metrics == nil {
		metrics = nopSessionMetrics{}
	}
	m := &SessionManager{
		persistence: persistence,
		metrics:     metrics,
		ttl:         ttl,
		sessions:    cache.New(ttl, ttl/2+time.Second),
	}
	m.sessions.OnEvicted(m.evicted)
	return m
}

// Open загружает стену и создает для нее сессию.
func (m *SessionManager) Open(ctx context.Context, wallID string, targetWidth float64) (*Session, error) {
	wall, err := m.persistence.GetWallWithFixtures(ctx, wallID)
	if err != nil {
		return nil, errors.Wrapf(err, "load wall %s", wallID)
	}
	if err := wall.Validate(); err != nil {
		return nil, errors.Wrapf(err, "wall %s", wallID)
	}

	s := &Session{
		ID:        uuid.NewString(),
		WallID:    wall.ID,
		CreatedAt: time.Now().UTC(),
	}
	s.Controller = interaction.NewController(*wall, targetWidth, m.persistence,
		interaction.WithObserver(m.metrics))

	m.sessions.Set(s.ID, s, m.ttl)
	m.metrics.SessionOpened()

	log.Infof("[SESSION] opened %s for wall %s", s.ID, wallID)
	return s, nil
}

// Get возвращает сессию и продлевает ее TTL.
func (m *SessionManager) Get(id string) (*Session, error) {
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s := v.(*Session)
	m.sessions.Set(id, s, m.ttl)
	return s, nil
}

// Close удаляет сессию. Сохранения в полете завершаются до возврата.
func (m *SessionManager) Close(id string) error {
	if _, ok := m.sessions.Get(id); !ok {
		return ErrSessionNotFound
	}
	m.sessions.Delete(id)
	return nil
}

// Refresh перечитывает стену сессии и передает ее контроллеру на сверку.
func (m *SessionManager) Refresh(ctx context.Context, id string) (*Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	wall, err := m.persistence.GetWallWithFixtures(ctx, s.WallID)
	if err != nil {
		return nil, errors.Wrapf(err, "refresh wall %s", s.WallID)
	}
	s.Controller.AcceptWall(*wall)
	return s, nil
}

// WallChanged раздает свежую стену всем сессиям, открытым на ней.
func (m *SessionManager) WallChanged(ctx context.Context, wallID string) {
	var targets []*Session
	for _, item := range m.sessions.Items() {
		if s := item.Object.(*Session); s.WallID == wallID {
			targets = append(targets, s)
		}
	}
	if len(targets) == 0 {
		return
	}

	wall, err := m.persistence.GetWallWithFixtures(ctx, wallID)
	if err != nil {
		log.Warnf("[SESSION] refresh wall %s failed: %v", wallID, err)
		return
	}
	for _, s := range targets {
		s.Controller.AcceptWall(wall.Clone())
	}
}

func (m *SessionManager) Count() int {
	return m.sessions.ItemCount()
}

// Shutdown закрывает все сессии.
func (m *SessionManager) Shutdown() {
	for id := range m.sessions.Items() {
		m.sessions.Delete(id)
	}
}

func (m *SessionManager) evicted(id string, v any) {
	s, ok := v.(*Session)
	if !ok {
		return
	}
	m.metrics.SessionClosed()
	s.Controller.Wait()

	log.Infof("[SESSION] closed %s", id)
}
