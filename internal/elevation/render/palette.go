package render

import "strings"

// ============================================================
// Fixture palette
// ============================================================

// DefaultColor для типов, которых нет в таблице.
const DefaultColor = "#9B9B9B"

// 25% непрозрачности заливки
const fillAlpha = "40"

var fixtureColors = map[string]string{
	"sink":    "#4A90E2",
	"mirror":  "#50E3C2",
	"light":   "#F5A623",
	"outlet":  "#D0021B",
	"window":  "#7ED321",
	"cabinet": "#8B572A",
	"door":    "#BD10E0",
}

// ColorFor возвращает цвет обводки для типа фикстуры.
// Тип это свободная строка (в том числе от LLM), неизвестные типы получают DefaultColor.
func ColorFor(fixtureType string) string {
	if c, ok := fixtureColors[strings.ToLower(fixtureType)]; ok {
		return c
	}
	return DefaultColor
}

// FillColorFor: тот же цвет с прозрачностью 25%.
func FillColorFor(fixtureType string) string {
	return ColorFor(fixtureType) + fillAlpha
}
