package interaction

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3/log"
	"gonum.org/v1/gonum/floats/scalar"

	"wall-elevation/internal/elevation/hittest"
	"wall-elevation/internal/elevation/models"
	"wall-elevation/internal/elevation/render"
	"wall-elevation/internal/elevation/scale"
)

// ============================================================
// Controller
// ============================================================

// ReconcileTolerance: допуск сверки позиции с сервером, дюймы.
const ReconcileTolerance = 0.05

const defaultSaveTimeout = 10 * time.Second

// Controller владеет перетаскиванием фикстур: нажатие, движение, отпускание,
// оптимистичная рабочая копия стены и сверка с подтвержденными данными сервера.
//
// Все переходы выполняются под одним мьютексом: завершения сохранений из горутин
// возвращаются в ту же очередь, что и события указателя.
type Controller struct {
	mu sync.Mutex

	persistence Persistence
	observer    Observer
	onChange    func(models.WallWithFixtures)
	saveTimeout time.Duration
	targetWidth float64

	canonical models.WallWithFixtures  // последняя подтвержденная стена
	working   *models.WallWithFixtures // оптимистичная копия, nil если совпадает с canonical
	dims      models.DrawingDimensions
	drag      *DragState
	hoverID   string
	pending   map[string]*PendingUpdate
	seq       uint64

	inflight sync.WaitGroup
}

type Option func(*Controller)

// WithObserver подключает наблюдателя (метрики).
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithOnChange вызывается после каждого изменения видимой стены (перерисовка).
func WithOnChange(fn func(models.WallWithFixtures)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithSaveTimeout ограничивает время одного сохранения.
func WithSaveTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.saveTimeout = d
		}
	}
}

// NewController создает контроллер для стены. Стена должна пройти models.Wall.Validate.
func NewController(wall models.WallWithFixtures, targetWidth float64, persistence Persistence, opts ...Option) *Controller {
	if targetWidth <= 0 {
		targetWidth = scale.DefaultTargetWidth
	}

	c := &Controller{
		persistence: persistence,
		observer:    nopObserver{},
		saveTimeout: defaultSaveTimeout,
		targetWidth: targetWidth,
		canonical:   wall.Clone(),
		dims:        scale.CalculateCanvasDimensions(wall.Wall, targetWidth),
		pending:     make(map[string]*PendingUpdate),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ============================================================
// Pointer events
// ============================================================

// PointerDown начинает перетаскивание, если под указателем есть фикстура.
func (c *Controller) PointerDown(ev PointerEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drag != nil {
		return true
	}

	px, py := c.toCanvas(ev)
	visible := c.visibleLocked()
	fixture, ok := hittest.GetFixtureAtPosition(visible, px, py, c.dims)
	if !ok {
		return false
	}

	topLeft := hittest.GetFixturePixelPosition(fixture, visible.HeightFeet, c.dims.PixelsPerInch)
	c.drag = &DragState{
		FixtureID: fixture.ID,
		OffsetX:   px - topLeft.X,
		OffsetY:   py - topLeft.Y,
		StartX:    fixture.PositionX,
		StartY:    fixture.PositionY,
		LastX:     fixture.PositionX,
		LastY:     fixture.PositionY,
	}
	c.hoverID = fixture.ID

	log.Debugf("[DRAG] start %s at (%.2f, %.2f)", fixture.ID, fixture.PositionX, fixture.PositionY)
	return true
}

// PointerMove двигает фикстуру в рабочей копии либо, без перетаскивания, обновляет hover.
func (c *Controller) PointerMove(ev PointerEvent) Feedback {
	c.mu.Lock()

	if c.drag == nil {
		px, py := c.toCanvas(ev)
		fixture, ok := hittest.GetFixtureAtPosition(c.visibleLocked(), px, py, c.dims)
		c.mu.Unlock()
		if !ok {
			c.setHover("")
			return Feedback{Cursor: CursorDefault}
		}
		c.setHover(fixture.ID)
		return Feedback{Cursor: CursorMove, HoverID: fixture.ID}
	}

	id := c.drag.FixtureID
	x, y, ok := c.dragPositionLocked(ev)
	if !ok {
		c.drag = nil
		c.mu.Unlock()
		return Feedback{Cursor: CursorDefault}
	}

	c.drag.LastX, c.drag.LastY = x, y
	c.applyLocalLocked(id, x, y)
	visible := c.visibleLocked()
	c.mu.Unlock()

	c.notify(visible)
	return Feedback{Cursor: CursorMove, HoverID: id, Changed: true}
}

// PointerUp фиксирует позицию локально и отправляет ее в хранилище.
// Запрос уходит только после того, как оптимистичная позиция применена.
func (c *Controller) PointerUp(ctx context.Context, ev PointerEvent) {
	c.mu.Lock()

	if c.drag == nil {
		c.mu.Unlock()
		return
	}

	drag := *c.drag
	x, y, ok := c.dragPositionLocked(ev)
	c.drag = nil
	if !ok {
		c.rebuildLocked()
		visible := c.visibleLocked()
		c.mu.Unlock()
		c.notify(visible)
		return
	}

	c.applyLocalLocked(drag.FixtureID, x, y)
	visible := c.visibleLocked()

	// клик без перемещения ничего не сохраняет
	if x == drag.StartX && y == drag.StartY {
		c.rebuildLocked()
		visible = c.visibleLocked()
		c.mu.Unlock()
		c.notify(visible)
		return
	}

	c.seq++
	update := PendingUpdate{
		FixtureID: drag.FixtureID,
		PositionX: x,
		PositionY: y,
		Snapshot:  c.canonical.Clone(),
		Seq:       c.seq,
	}
	c.pending[drag.FixtureID] = &update
	c.inflight.Add(1)
	c.mu.Unlock()

	c.notify(visible)

	log.Infof("[DRAG] save %s -> (%.2f, %.2f)", update.FixtureID, x, y)
	go c.save(context.WithoutCancel(ctx), update)
}

// PointerLeave не отменяет перетаскивание: оно продолжается до явного PointerUp.
func (c *Controller) PointerLeave() {
	c.mu.Lock()
	dragging := c.drag != nil
	c.mu.Unlock()

	if !dragging {
		c.setHover("")
	}
}

// ============================================================
// Persistence round-trip
// ============================================================

func (c *Controller) save(ctx context.Context, update PendingUpdate) {
	defer c.inflight.Done()

	saveCtx, cancel := context.WithTimeout(ctx, c.saveTimeout)
	_, err := c.persistence.UpdateFixture(saveCtx, update.FixtureID, models.PositionPatch(update.PositionX, update.PositionY))
	cancel()

	c.mu.Lock()
	current, ok := c.pending[update.FixtureID]
	superseded := !ok || current.Seq != update.Seq

	if err != nil {
		log.Errorf("[DRAG] save %s failed: %v", update.FixtureID, err)
		c.observer.SaveCompleted(false)
		if superseded {
			c.mu.Unlock()
			return
		}
		delete(c.pending, update.FixtureID)
		c.rebuildLocked()
		visible := c.visibleLocked()
		c.observer.Reconciled(OutcomeReverted)
		c.mu.Unlock()

		c.notify(visible)
		return
	}

	c.observer.SaveCompleted(true)
	if superseded {
		// более новая правка той же фикстуры сама запросит обновление
		c.mu.Unlock()
		return
	}
	current.Confirmed = true
	wallID := c.canonical.ID
	c.mu.Unlock()

	c.refresh(ctx, wallID)
}

// refresh перечитывает стену из хранилища и сверяет ее с локальным состоянием.
func (c *Controller) refresh(ctx context.Context, wallID string) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.saveTimeout)
	defer cancel()

	fresh, err := c.persistence.GetWallWithFixtures(fetchCtx, wallID)
	if err != nil {
		// подтвержденная правка остается наложенной до следующей сверки
		log.Warnf("[DRAG] refresh wall %s failed: %v", wallID, err)
		return
	}
	c.AcceptWall(*fresh)
}

// ============================================================
// Reconciliation
// ============================================================

// AcceptWall принимает свежую стену от приложения и сверяет ее с ожидающими правками.
//
// Подтвержденная правка сверяется, если стена отличается от снимка на момент запроса:
// позиция в пределах ReconcileTolerance, берется свежая стена с точными локальными
// значениями этой фикстуры; иначе (или фикстура пропала) свежая стена целиком.
// Неподтвержденные правки накладываются поверх.
func (c *Controller) AcceptWall(fresh models.WallWithFixtures) {
	c.mu.Lock()

	adopted := fresh.Clone()
	if err := adopted.Validate(); err == nil {
		c.dims = scale.CalculateCanvasDimensions(adopted.Wall, c.targetWidth)
	}

	var outcomes []Outcome
	for _, id := range c.pendingIDsLocked() {
		p := c.pending[id]
		if !p.Confirmed || fresh.Equal(p.Snapshot) {
			outcomes = append(outcomes, OutcomeDeferred)
			continue
		}

		idx := adopted.FindFixture(id)
		if idx >= 0 && withinTolerance(adopted.Fixtures[idx], p) {
			adopted.Fixtures[idx].PositionX = p.PositionX
			adopted.Fixtures[idx].PositionY = p.PositionY
			outcomes = append(outcomes, OutcomeOverride)
		} else {
			log.Warnf("[DRAG] server disagrees on %s, taking server state", id)
			outcomes = append(outcomes, OutcomeFallback)
		}
		delete(c.pending, id)
	}
	if len(outcomes) == 0 {
		outcomes = append(outcomes, OutcomeAdopted)
	}

	c.canonical = adopted
	if c.drag != nil && c.canonical.FindFixture(c.drag.FixtureID) < 0 {
		log.Infof("[DRAG] fixture %s disappeared mid-drag", c.drag.FixtureID)
		c.drag = nil
	}
	c.rebuildLocked()
	visible := c.visibleLocked()
	for _, o := range outcomes {
		c.observer.Reconciled(o)
	}
	c.mu.Unlock()

	c.notify(visible)
}

func withinTolerance(f models.Fixture, p *PendingUpdate) bool {
	return scalar.EqualWithinAbs(f.PositionX, p.PositionX, ReconcileTolerance) &&
		scalar.EqualWithinAbs(f.PositionY, p.PositionY, ReconcileTolerance)
}

// ============================================================
// Queries
// ============================================================

// VisibleWall возвращает то, что нужно рисовать: рабочую копию или подтвержденную стену.
func (c *Controller) VisibleWall() models.WallWithFixtures {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleLocked()
}

// CanonicalWall возвращает последнюю подтвержденную стену.
func (c *Controller) CanonicalWall() models.WallWithFixtures {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canonical.Clone()
}

func (c *Controller) Dimensions() models.DrawingDimensions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dims
}

func (c *Controller) TargetWidth() float64 {
	return c.targetWidth
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) HoverID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hoverID
}

// Snapshot собирает состояние для ответа клиенту.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:      c.stateLocked(),
		Wall:       c.visibleLocked(),
		Dimensions: c.dims,
		Pending:    make([]PendingUpdate, 0, len(c.pending)),
	}
	if c.drag != nil {
		d := *c.drag
		snap.Drag = &d
	}
	for _, id := range c.pendingIDsLocked() {
		snap.Pending = append(snap.Pending, *c.pending[id])
	}
	return snap
}

// Wait блокируется, пока не завершатся все сохранения в полете.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// ============================================================
// Internals (вызываются под c.mu)
// ============================================================

func (c *Controller) stateLocked() State {
	switch {
	case c.drag != nil:
		return Dragging
	case len(c.pending) > 0:
		return Saving
	default:
		return Idle
	}
}

func (c *Controller) visibleLocked() models.WallWithFixtures {
	if c.working != nil {
		return c.working.Clone()
	}
	return c.canonical.Clone()
}

// toCanvas переводит CSS-координаты в координаты буфера холста.
func (c *Controller) toCanvas(ev PointerEvent) (float64, float64) {
	backingWidth := float64(c.dims.Width)
	backingHeight := float64(c.dims.Height + render.LabelBand)

	scaleX, scaleY := 1.0, 1.0
	if ev.ClientWidth > 0 {
		scaleX = backingWidth / ev.ClientWidth
	}
	if ev.ClientHeight > 0 {
		scaleY = backingHeight / ev.ClientHeight
	}
	return ev.X * scaleX, ev.Y * scaleY
}

// dragPositionLocked считает новую позицию перетаскиваемой фикстуры в дюймах.
// Отрицательные значения обрезаются до 0, верхней границы нет.
func (c *Controller) dragPositionLocked(ev PointerEvent) (float64, float64, bool) {
	visible := c.working
	if visible == nil {
		visible = &c.canonical
	}
	idx := visible.FindFixture(c.drag.FixtureID)
	if idx < 0 {
		return 0, 0, false
	}
	fixture := visible.Fixtures[idx]
	ppi := c.dims.PixelsPerInch

	px, py := c.toCanvas(ev)
	newTopX := px - c.drag.OffsetX
	newTopY := py - c.drag.OffsetY

	fixtureHeightPx := scale.InchesToPixels(fixture.HeightInches, ppi)
	wallHeightPx := scale.WallHeightPixels(visible.HeightFeet, ppi)

	x := math.Max(0, scale.PixelsToInches(newTopX, ppi))
	y := math.Max(0, scale.PixelsToInches(wallHeightPx-newTopY-fixtureHeightPx, ppi))
	return x, y, true
}

func (c *Controller) applyLocalLocked(id string, x, y float64) {
	if c.working == nil {
		w := c.canonical.Clone()
		c.working = &w
	}
	if idx := c.working.FindFixture(id); idx >= 0 {
		c.working.Fixtures[idx].PositionX = x
		c.working.Fixtures[idx].PositionY = y
	}
}

// rebuildLocked собирает рабочую копию заново из canonical: ожидающие правки и
// текущее перетаскивание накладываются поверх. Без наложений копия не нужна.
func (c *Controller) rebuildLocked() {
	c.working = nil
	for _, id := range c.pendingIDsLocked() {
		p := c.pending[id]
		c.applyLocalLocked(id, p.PositionX, p.PositionY)
	}
	if c.drag != nil {
		c.applyLocalLocked(c.drag.FixtureID, c.drag.LastX, c.drag.LastY)
	}
}

func (c *Controller) pendingIDsLocked() []string {
	ids := make([]string, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Controller) setHover(id string) {
	c.mu.Lock()
	c.hoverID = id
	c.mu.Unlock()
}

func (c *Controller) notify(wall models.WallWithFixtures) {
	if c.onChange != nil {
		c.onChange(wall)
	}
}
