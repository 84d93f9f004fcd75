package main

import (
	"fmt"
	"time"

	"github.com/taigrr/pinhole/pkg/scene"
)

// statusTimeout is how long the last command stays on the bottom row.
const statusTimeout = 2 * time.Second

// HUD renders an overlay with scene info and toggles
type HUD struct {
	Visible bool

	name      string
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	status    string
	statusAt  time.Time
}

// NewHUD creates a new HUD
func NewHUD(name string) *HUD {
	return &HUD{
		Visible: true,
		name:    name,
		fpsTime: time.Now(),
	}
}

// SetStatus shows msg on the bottom row for a moment.
func (h *HUD) SetStatus(msg string) {
	h.status = msg
	h.statusAt = time.Now()
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func check(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, sc *scene.Scene, stats scene.Stats) {
	// ANSI escape codes for positioning and styling
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if !h.Visible {
		return
	}

	// Top left: FPS and frame time
	fmt.Printf("%s%s%s %.0f FPS %s%s %v %s", moveTo(1, 1), bgBlack, fgGreen, h.fps,
		dim, fgWhite, stats.Duration.Round(time.Microsecond), reset)

	// Top middle: scene name
	titleCol := max((width-len(h.name)-2)/2, 1)
	fmt.Print(moveTo(1, titleCol) + fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.name, reset))

	// Top right: triangle counts
	tris := fmt.Sprintf(" %d tris %d culled %d shadowed ", stats.Triangles, stats.Culled, stats.ShadowedVertices)
	fmt.Print(moveTo(1, max(width-len(tris), 1)) + bgBlack + fgCyan + tris + reset)

	// Bottom: mode and toggles
	cfg := sc.Config()
	modes := fmt.Sprintf("%s%s %s  %s shadows  %s guides  %s normals  %s projector %s",
		bgBlack, fgWhite, sc.Mode,
		check(cfg.Shadows), check(sc.ShowGuides), check(sc.ShowNormals), check(sc.Projector != nil),
		reset)
	fmt.Print(moveTo(height, 1) + modes)

	// Bottom right: last command
	if h.status != "" && time.Since(h.statusAt) < statusTimeout {
		fmt.Print(moveTo(height, max(width-len(h.status)-2, 1)) +
			fmt.Sprintf("%s%s %s %s", bgBlack, fgYellow, h.status, reset))
	}
}
