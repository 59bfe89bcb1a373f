package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
)

// ANSI color codes for terminal maps.
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

var playerColors = []string{ColorBlue, ColorRed, ColorGreen, ColorPurple, ColorYellow, ColorCyan}

const (
	waterSymbol  = "~~"
	alpineSymbol = " ▲"
	hillSymbol   = " ^"
	marshSymbol  = " ,"
	plainSymbol  = " ·"
	citySymbol   = "⬢"

	playerSymbols = "ABCDEFGH"
)

// RenderMap draws a snapshot as text, two columns per tile. Cities show
// their owner's letter and a hexagon, tiles holding units show the owner's
// letter and the unit count. With color set, owned tiles are tinted with
// ANSI codes.
func RenderMap(snap Snapshot, color bool) string {
	var sb strings.Builder
	sb.Grow((snap.Width*12 + 8) * (snap.Height + 4))

	fmt.Fprintf(&sb, "Turn %d, %s\n", snap.Turn, snap.Phase)
	sb.WriteString("   ")
	for x := 0; x < snap.Width; x++ {
		fmt.Fprintf(&sb, "%2d", x%100)
	}
	sb.WriteString("\n")

	for y := 0; y < snap.Height; y++ {
		fmt.Fprintf(&sb, "%2d ", y%100)
		for x := 0; x < snap.Width; x++ {
			writeTile(&sb, snap.Tiles[y*snap.Width+x], color)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(waterSymbol + "=water " + alpineSymbol[1:] + "=alpine " + hillSymbol[1:] + "=hill " +
		marshSymbol[1:] + "=marsh " + citySymbol + "=city")
	for _, p := range snap.Players {
		fmt.Fprintf(&sb, " %c=%s", playerLetter(p.ID), p.Name)
	}
	sb.WriteString("\n")
	return sb.String()
}

func writeTile(sb *strings.Builder, t TileSnapshot, color bool) {
	symbol := terrainSymbol(t.Terrain)
	switch {
	case t.City != 0:
		symbol = string(playerLetter(t.Owner)) + citySymbol
	case t.Units > 9:
		symbol = string(playerLetter(t.Owner)) + "+"
	case t.Units > 0:
		symbol = fmt.Sprintf("%c%d", playerLetter(t.Owner), t.Units)
	}

	if !color {
		sb.WriteString(symbol)
		return
	}
	sb.WriteString(tileColor(t))
	sb.WriteString(symbol)
	sb.WriteString(ColorReset)
}

func terrainSymbol(name string) string {
	switch name {
	case core.Ocean.String(), core.Sea.String(), core.Lake.String():
		return waterSymbol
	case core.Alpine.String():
		return alpineSymbol
	case core.Hill.String(), core.HillPlain.String():
		return hillSymbol
	case core.Marsh.String():
		return marshSymbol
	}
	return plainSymbol
}

func tileColor(t TileSnapshot) string {
	if t.Owner >= 0 {
		return getPlayerColor(t.Owner)
	}
	if t.Terrain == core.Ocean.String() || t.Terrain == core.Sea.String() || t.Terrain == core.Lake.String() {
		return ColorCyan
	}
	return ColorGray
}

func playerLetter(playerID int) byte {
	if playerID < 0 {
		return '?'
	}
	return playerSymbols[playerID%len(playerSymbols)]
}

// getPlayerColor returns the color for the given player ID
func getPlayerColor(playerID int) string {
	if playerID < 0 || playerID >= len(playerColors) {
		return ColorWhite
	}
	return playerColors[playerID]
}
