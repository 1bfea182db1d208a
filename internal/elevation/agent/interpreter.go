package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"wall-elevation/internal/elevation/models"
)

// ============================================================
// Interpreter
// ============================================================

type Action string

const (
	ActionAddFixture Action = "add_fixture"
	ActionClarify    Action = "clarify"
	ActionError      Action = "error"
)

// Response: разобранная инструкция. Fixtures заполнены только для add_fixture.
type Response struct {
	Action   Action                `json:"action"`
	Fixtures []models.FixtureDraft `json:"fixtures,omitempty"`
	Message  string                `json:"message"`
}

// Interpreter переводит текстовую инструкцию дизайнера в черновики фикстур.
// Фикстуры в хранилище создает вызывающий.
type Interpreter interface {
	Interpret(ctx context.Context, instruction string, wall models.WallWithFixtures) (*Response, error)
}

// ============================================================
// Keyword Interpreter
// ============================================================

type fixtureDefaults struct {
	name      string
	width     float64
	height    float64
	positionY float64
}

// порядок важен: первый найденный тип побеждает
var fixtureKeywords = []struct {
	keyword  string
	defaults fixtureDefaults
}{
	{"sink", fixtureDefaults{name: "Sink", width: 24, height: 8, positionY: 32}},
	{"mirror", fixtureDefaults{name: "Mirror", width: 30, height: 36, positionY: 48}},
	{"light", fixtureDefaults{name: "Light Fixture", width: 24, height: 6, positionY: 78}},
	{"outlet", fixtureDefaults{name: "Outlet", width: 4, height: 6, positionY: 15}},
	{"window", fixtureDefaults{name: "Window", width: 36, height: 48, positionY: 42}},
}

var unknownDefaults = fixtureDefaults{name: "New Fixture", width: 24, height: 24, positionY: 36}

var (
	dimensionRe = regexp.MustCompile(`(?i)(\d+)\s*(?:inches|inch|in|")?\s*(?:by|x|×)\s*(\d+)\s*(?:inches|inch|in|")?`)
	positionRe  = regexp.MustCompile(`(?i)(?:at|position)\s*\(?(\d+)\s*(?:inches|inch|in|")?\s*(?:,|and)\s*(\d+)\s*(?:inches|inch|in|")?\)?`)
)

const usageMessage = "To use the AI agent, configure an instruction model for the service.\n\n" +
	"For manual entry, use this format:\n" +
	`"Add a [fixture type] that is [width] by [height] inches at position [x], [y]"` + "\n\n" +
	`Example: "Add a sink that is 24 by 8 inches at position 30, 36"`

// KeywordInterpreter разбирает инструкции по ключевым словам, без внешней модели.
type KeywordInterpreter struct{}

func NewKeywordInterpreter() *KeywordInterpreter {
	return &KeywordInterpreter{}
}

func (KeywordInterpreter) Interpret(_ context.Context, instruction string, wall models.WallWithFixtures) (*Response, error) {
	lower := strings.ToLower(instruction)

	if !containsAny(lower, "add", "place", "put") {
		return &Response{Action: ActionClarify, Message: usageMessage}, nil
	}

	fixtureType := "unknown"
	defaults := unknownDefaults
	for _, kw := range fixtureKeywords {
		if strings.Contains(lower, kw.keyword) {
			fixtureType = kw.keyword
			defaults = kw.defaults
			break
		}
	}

	width, height := defaults.width, defaults.height
	if m := dimensionRe.FindStringSubmatch(instruction); m != nil {
		width, height = atof(m[1]), atof(m[2])
	}

	// по умолчанию по центру стены: widthFeet * 12 / 2
	posX, posY := wall.WidthFeet*6, defaults.positionY
	if m := positionRe.FindStringSubmatch(instruction); m != nil {
		posX, posY = atof(m[1]), atof(m[2])
	}

	if width <= 0 || height <= 0 {
		return &Response{
			Action:  ActionError,
			Message: fmt.Sprintf("Fixture size must be positive, got %s\" × %s\"", formatNumber(width), formatNumber(height)),
		}, nil
	}

	draft := models.FixtureDraft{
		Type:         fixtureType,
		Name:         defaults.name,
		WidthInches:  width,
		HeightInches: height,
		PositionX:    posX,
		PositionY:    posY,
		WallID:       wall.ID,
	}

	return &Response{
		Action:   ActionAddFixture,
		Fixtures: []models.FixtureDraft{draft},
		Message: fmt.Sprintf("Added %s (%s\" × %s\") at position (%s\", %s\")",
			draft.Name, formatNumber(width), formatNumber(height), formatNumber(posX), formatNumber(posY)),
	}, nil
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// atof получает только цифры из регулярки
func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
