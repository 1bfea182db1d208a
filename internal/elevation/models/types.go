package models

import (
	"errors"
	"time"
)

// ============================================================
// Errors
// ============================================================

var (
	ErrInvalidWall    = errors.New("invalid wall")
	ErrInvalidFixture = errors.New("invalid fixture")
)

// ============================================================
// Wall
// ============================================================

type Wall struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	WidthFeet  float64   `json:"widthFeet"`
	HeightFeet float64   `json:"heightFeet"`
	RoomID     string    `json:"roomId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Validate проверяет, что размеры стены положительные.
func (w Wall) Validate() error {
	if w.WidthFeet <= 0 || w.HeightFeet <= 0 {
		return ErrInvalidWall
	}
	return nil
}

// WallWithFixtures: фикстуры идут в порядке создания, он же порядок отрисовки.
type WallWithFixtures struct {
	Wall
	Fixtures []Fixture `json:"fixtures"`
}

// Clone возвращает глубокую копию, которую можно безопасно мутировать.
func (w WallWithFixtures) Clone() WallWithFixtures {
	out := w
	out.Fixtures = make([]Fixture, len(w.Fixtures))
	for i, f := range w.Fixtures {
		out.Fixtures[i] = f.Clone()
	}
	return out
}

// FindFixture возвращает индекс фикстуры по id или -1.
func (w WallWithFixtures) FindFixture(id string) int {
	for i := range w.Fixtures {
		if w.Fixtures[i].ID == id {
			return i
		}
	}
	return -1
}

// Equal сравнивает стены по значению.
func (w WallWithFixtures) Equal(other WallWithFixtures) bool {
	if w.ID != other.ID || w.Name != other.Name || w.RoomID != other.RoomID ||
		w.WidthFeet != other.WidthFeet || w.HeightFeet != other.HeightFeet ||
		!w.CreatedAt.Equal(other.CreatedAt) || !w.UpdatedAt.Equal(other.UpdatedAt) {
		return false
	}
	if len(w.Fixtures) != len(other.Fixtures) {
		return false
	}
	for i := range w.Fixtures {
		if !w.Fixtures[i].Equal(other.Fixtures[i]) {
			return false
		}
	}
	return true
}

// ============================================================
// Fixture
// ============================================================

type Fixture struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"` // sink, mirror, light, outlet, window, cabinet, door, ...
	Name         string    `json:"name"`
	WidthInches  float64   `json:"widthInches"`
	HeightInches float64   `json:"heightInches"`
	PositionX    float64   `json:"positionX"` // от левого края стены
	PositionY    float64   `json:"positionY"` // от пола до нижнего края
	WallID       string    `json:"wallId"`
	ProductURL   *string   `json:"productUrl,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate проверяет инварианты размеров и позиции.
// Пересечения и выход за границы стены допустимы.
func (f Fixture) Validate() error {
	if f.Type == "" || f.Name == "" || f.WallID == "" {
		return ErrInvalidFixture
	}
	if f.WidthInches <= 0 || f.HeightInches <= 0 {
		return ErrInvalidFixture
	}
	if f.PositionX < 0 || f.PositionY < 0 {
		return ErrInvalidFixture
	}
	return nil
}

func (f Fixture) Clone() Fixture {
	out := f
	if f.ProductURL != nil {
		v := *f.ProductURL
		out.ProductURL = &v
	}
	if f.Notes != nil {
		v := *f.Notes
		out.Notes = &v
	}
	return out
}

func (f Fixture) Equal(other Fixture) bool {
	return f.ID == other.ID &&
		f.Type == other.Type &&
		f.Name == other.Name &&
		f.WidthInches == other.WidthInches &&
		f.HeightInches == other.HeightInches &&
		f.PositionX == other.PositionX &&
		f.PositionY == other.PositionY &&
		f.WallID == other.WallID &&
		equalOptional(f.ProductURL, other.ProductURL) &&
		equalOptional(f.Notes, other.Notes) &&
		f.CreatedAt.Equal(other.CreatedAt) &&
		f.UpdatedAt.Equal(other.UpdatedAt)
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ============================================================
// Requests
// ============================================================

// FixtureDraft: данные для создания фикстуры, без id и временных меток.
type FixtureDraft struct {
	Type         string  `json:"type"`
	Name         string  `json:"name"`
	WidthInches  float64 `json:"widthInches"`
	HeightInches float64 `json:"heightInches"`
	PositionX    float64 `json:"positionX"`
	PositionY    float64 `json:"positionY"`
	WallID       string  `json:"wallId"`
	ProductURL   *string `json:"productUrl,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// Fixture собирает фикстуру из черновика. ID и временные метки выставляет хранилище.
func (d FixtureDraft) Fixture() Fixture {
	f := Fixture{
		Type:         d.Type,
		Name:         d.Name,
		WidthInches:  d.WidthInches,
		HeightInches: d.HeightInches,
		PositionX:    d.PositionX,
		PositionY:    d.PositionY,
		WallID:       d.WallID,
		ProductURL:   d.ProductURL,
		Notes:        d.Notes,
	}
	return f.Clone()
}

// FixturePatch: частичное обновление (PATCH). WallID не меняется.
type FixturePatch struct {
	Type         *string  `json:"type,omitempty"`
	Name         *string  `json:"name,omitempty"`
	WidthInches  *float64 `json:"widthInches,omitempty"`
	HeightInches *float64 `json:"heightInches,omitempty"`
	PositionX    *float64 `json:"positionX,omitempty"`
	PositionY    *float64 `json:"positionY,omitempty"`
	ProductURL   *string  `json:"productUrl,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

// PositionPatch собирает патч только с координатами.
func PositionPatch(x, y float64) FixturePatch {
	return FixturePatch{PositionX: &x, PositionY: &y}
}

// Apply применяет патч к копии фикстуры.
func (p FixturePatch) Apply(f Fixture) Fixture {
	out := f.Clone()
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.WidthInches != nil {
		out.WidthInches = *p.WidthInches
	}
	if p.HeightInches != nil {
		out.HeightInches = *p.HeightInches
	}
	if p.PositionX != nil {
		out.PositionX = *p.PositionX
	}
	if p.PositionY != nil {
		out.PositionY = *p.PositionY
	}
	if p.ProductURL != nil {
		v := *p.ProductURL
		out.ProductURL = &v
	}
	if p.Notes != nil {
		v := *p.Notes
		out.Notes = &v
	}
	return out
}

// ============================================================
// Drawing
// ============================================================

// DrawingDimensions вычисляются из стены и никогда не сохраняются.
type DrawingDimensions struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	PixelsPerInch float64 `json:"pixelsPerInch"`
}
