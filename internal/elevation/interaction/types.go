package interaction

import (
	"context"

	"wall-elevation/internal/elevation/models"
)

// ============================================================
// Collaborators
// ============================================================

// Persistence: repository.Store или HTTP client.Client.
type Persistence interface {
	GetWallWithFixtures(ctx context.Context, id string) (*models.WallWithFixtures, error)
	UpdateFixture(ctx context.Context, id string, patch models.FixturePatch) (*models.Fixture, error)
}

// Observer получает события сохранений и сверок (метрики).
type Observer interface {
	SaveCompleted(success bool)
	Reconciled(outcome Outcome)
}

type nopObserver struct{}

func (nopObserver) SaveCompleted(bool) {}
func (nopObserver) Reconciled(Outcome) {}

// ============================================================
// State
// ============================================================

type State int

const (
	Idle State = iota
	Dragging
	Saving
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Saving:
		return "saving"
	default:
		return "idle"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome описывает, чем закончилась сверка с данными сервера.
type Outcome string

const (
	OutcomeAdopted  Outcome = "adopted"  // ожидающих правок нет, стена принята как есть
	OutcomeOverride Outcome = "override" // сервер в пределах допуска, оставлены точные локальные значения
	OutcomeFallback Outcome = "fallback" // расхождение или фикстура пропала, верим серверу
	OutcomeDeferred Outcome = "deferred" // правка еще в полете, наложена поверх
	OutcomeReverted Outcome = "reverted" // сохранение не удалось, откат
)

// ============================================================
// Events
// ============================================================

// PointerEvent: координаты указателя в CSS-пикселях относительно холста
// и отображаемый размер холста (clientWidth/clientHeight).
type PointerEvent struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	ClientWidth  float64 `json:"clientWidth"`
	ClientHeight float64 `json:"clientHeight"`
}

const (
	CursorDefault = "default"
	CursorMove    = "move"
)

type Feedback struct {
	Cursor  string `json:"cursor"`
	HoverID string `json:"hoverId,omitempty"`
	Changed bool   `json:"changed"`
}

// DragState хранит фикстуру под указателем и смещение указателя от ее левого верхнего угла.
type DragState struct {
	FixtureID string  `json:"fixtureId"`
	OffsetX   float64 `json:"offsetX"`
	OffsetY   float64 `json:"offsetY"`
	StartX    float64 `json:"startX"`
	StartY    float64 `json:"startY"`
	LastX     float64 `json:"lastX"`
	LastY     float64 `json:"lastY"`
}

// PendingUpdate: оптимистично зафиксированная позиция, ожидающая подтверждения сервера.
// Snapshot: подтвержденная стена на момент запроса; Seq растет с каждым сохранением.
type PendingUpdate struct {
	FixtureID string                  `json:"fixtureId"`
	PositionX float64                 `json:"positionX"`
	PositionY float64                 `json:"positionY"`
	Snapshot  models.WallWithFixtures `json:"-"`
	Seq       uint64                  `json:"seq"`
	Confirmed bool                    `json:"confirmed"`
}

// Snapshot: состояние контроллера для отображения.
type Snapshot struct {
	State      State                    `json:"state"`
	Wall       models.WallWithFixtures  `json:"wall"`
	Dimensions models.DrawingDimensions `json:"dimensions"`
	Drag       *DragState               `json:"drag,omitempty"`
	Pending    []PendingUpdate          `json:"pending"`
}
