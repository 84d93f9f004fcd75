// pinhole - Terminal software renderer
// Renders a lit, shadowed scene into a framebuffer and shows it in the
// terminal with half-block cells.
//
// Controls:
//
//	W/S, Up/Down - Move forward/back
//	A/D          - Move left/right
//	R/F          - Move up/down
//	Left/Right   - Pan
//	I/K          - Tilt
//	Q/E          - Roll
//	+/-, Scroll  - Zoom
//	Mouse drag   - Pan and tilt
//	0            - Reset camera
//	X            - Cycle shaded/wireframe/points
//	H            - Toggle shadows
//	G            - Toggle axes and ground grid
//	N            - Toggle normals
//	T            - Toggle texture projector
//	1-5          - Demo drawings (5 animates), Backspace clears
//	P            - Save snapshot
//	C/V          - Save/load camera
//	?            - Toggle HUD overlay
//	Esc          - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/pinhole/pkg/logging"
	"github.com/taigrr/pinhole/pkg/render"
	"github.com/taigrr/pinhole/pkg/scene"
)

var (
	cfg = scene.DefaultConfig()

	renderOut = flag.String("render", "", "Render one frame to this image and exit")
	verbose   = flag.Bool("v", false, "Enable debug logging")
	logFile   = flag.String("log", "", "Write logs to this file (default stderr)")
)

func init() {
	cfg.Inertia = true
	cfg.RegisterFlags(flag.CommandLine)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pinhole - Terminal software renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pinhole [options] [model.glb|model.gltf|model.mesh]\n\n")
		fmt.Fprintf(os.Stderr, "Without a model a demo scene is shown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		for _, b := range scene.Bindings(nil, 0, 0) {
			fmt.Fprintf(os.Stderr, "  %-14s - %s\n", strings.Join(b.Keys, "/"), b.Help)
		}
		fmt.Fprintf(os.Stderr, "  %-14s - %s\n", "drag/scroll", "pan, tilt and zoom")
		fmt.Fprintf(os.Stderr, "  %-14s - %s\n", "?", "toggle HUD")
		fmt.Fprintf(os.Stderr, "  %-14s - %s\n", "esc", "quit")
	}
	flag.Parse()

	closeLog := func() error { return nil }
	if *verbose || *logFile != "" {
		var err error
		if closeLog, err = logging.Setup(*logFile, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	defer closeLog()

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// renderOnce renders a single frame without a terminal.
func renderOnce(modelPath, out string) error {
	sc, err := scene.Load(cfg, modelPath)
	if err != nil {
		return err
	}
	stats := sc.Render()
	if err := sc.Framebuffer.SaveImage(out); err != nil {
		return err
	}
	fmt.Printf("Rendered %s: %d triangles, %d culled, %d shadowed vertices in %v\n",
		out, stats.Triangles, stats.Culled, stats.ShadowedVertices, stats.Duration.Round(time.Microsecond))
	return nil
}

func run(modelPath string) error {
	if *renderOut != "" {
		return renderOnce(modelPath, *renderOut)
	}

	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	cfg.Width, cfg.Height = render.CellSize(cols, rows)
	sc, err := scene.Load(cfg, modelPath)
	if err != nil {
		return err
	}
	presenter := render.NewTerminalRenderer(sc.Framebuffer)

	name := "demo"
	if modelPath != "" {
		name = filepath.Base(modelPath)
	}
	hud := NewHUD(name)

	step, angle := 2.0, 0.05
	if cfg.Inertia {
		step, angle = 0.25, 0.008
	}
	bindings := scene.Bindings(sc, step, angle)

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Events are handled on the frame loop so the scene is never touched
	// while it renders.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	var mouseDown bool
	var lastMouseX, lastMouseY int

	handle := func(ev uv.Event) {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			cols, rows = ev.Width, ev.Height
			term.Erase()
			term.Resize(cols, rows)
			sc.Resize(render.CellSize(cols, rows))

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape", "ctrl+c"):
				cancel()
			case ev.MatchString("?", "shift+/"):
				hud.Visible = !hud.Visible
			default:
				for _, b := range bindings {
					if !ev.MatchString(b.Keys...) {
						continue
					}
					if err := b.Action(); err != nil {
						logging.Logger().Error("command failed", "command", b.Help, "err", err)
						hud.SetStatus(err.Error())
					} else {
						hud.SetStatus(b.Help)
					}
					break
				}
			}

		case uv.MouseClickEvent:
			mouseDown = true
			lastMouseX, lastMouseY = ev.X, ev.Y

		case uv.MouseReleaseEvent:
			mouseDown = false

		case uv.MouseMotionEvent:
			if mouseDown {
				dx := ev.X - lastMouseX
				dy := ev.Y - lastMouseY
				sc.RotateCamera(-float64(dx)*angle, -float64(dy)*angle, 0)
				lastMouseX, lastMouseY = ev.X, ev.Y
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				sc.ZoomCamera(1.1)
			case uv.MouseWheelDown:
				sc.ZoomCamera(1 / 1.1)
			}
		}
	}

	// Main loop
	targetDuration := time.Second / time.Duration(max(cfg.FPS, 1))

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()

	drain:
		for {
			select {
			case ev := <-events:
				handle(ev)
			default:
				break drain
			}
		}

		sc.Update()
		stats := sc.Render()

		// Display
		presenter.Draw(term, term.Bounds())
		if err := term.Display(); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}

		hud.UpdateFPS()
		hud.Render(cols, rows, sc, stats)

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
