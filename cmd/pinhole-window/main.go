// pinhole-window shows the pinhole renderer in a desktop window. It takes the
// same options and keys as the terminal viewer.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/pinhole/pkg/logging"
	"github.com/taigrr/pinhole/pkg/scene"
)

var (
	cfg = scene.DefaultConfig()

	scale   = flag.Int("scale", 2, "Window pixels per framebuffer pixel")
	verbose = flag.Bool("v", false, "Enable debug logging")
	logFile = flag.String("log", "", "Write logs to this file (default stderr)")
)

func init() {
	cfg.Inertia = true
	cfg.RegisterFlags(flag.CommandLine)
}

// keyName maps an ebiten key to its binding name. Held keys repeat every tick.
type keyName struct {
	key  ebiten.Key
	name string
	hold bool
}

var keys = []keyName{
	{ebiten.KeyW, "w", true},
	{ebiten.KeyS, "s", true},
	{ebiten.KeyA, "a", true},
	{ebiten.KeyD, "d", true},
	{ebiten.KeyR, "r", true},
	{ebiten.KeyF, "f", true},
	{ebiten.KeyArrowUp, "up", true},
	{ebiten.KeyArrowDown, "down", true},
	{ebiten.KeyArrowLeft, "left", true},
	{ebiten.KeyArrowRight, "right", true},
	{ebiten.KeyI, "i", true},
	{ebiten.KeyK, "k", true},
	{ebiten.KeyQ, "q", true},
	{ebiten.KeyE, "e", true},
	{ebiten.KeyEqual, "=", true},
	{ebiten.KeyMinus, "-", true},
	{ebiten.KeyDigit0, "0", false},
	{ebiten.KeyX, "x", false},
	{ebiten.KeyH, "h", false},
	{ebiten.KeyG, "g", false},
	{ebiten.KeyN, "n", false},
	{ebiten.KeyT, "t", false},
	{ebiten.KeyDigit1, "1", false},
	{ebiten.KeyDigit2, "2", false},
	{ebiten.KeyDigit3, "3", false},
	{ebiten.KeyDigit4, "4", false},
	{ebiten.KeyDigit5, "5", false},
	{ebiten.KeyBackspace, "backspace", false},
	{ebiten.KeyP, "p", false},
	{ebiten.KeyC, "c", false},
	{ebiten.KeyV, "v", false},
}

type viewer struct {
	sc       *scene.Scene
	bindings []scene.Binding
	angle    float64

	screen  *ebiten.Image
	stats   scene.Stats
	status  string
	showHUD bool

	dragging     bool
	lastX, lastY int
}

func newViewer(sc *scene.Scene) *viewer {
	step, angle := 2.0, 0.05
	if sc.Config().Inertia {
		step, angle = 0.25, 0.008
	}
	return &viewer{
		sc:       sc,
		bindings: scene.Bindings(sc, step, angle),
		angle:    angle,
		showHUD:  true,
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySlash) {
		v.showHUD = !v.showHUD
	}

	for _, k := range keys {
		pressed := inpututil.IsKeyJustPressed(k.key)
		if k.hold {
			pressed = ebiten.IsKeyPressed(k.key)
		}
		if !pressed {
			continue
		}
		b, ok := scene.Lookup(v.bindings, k.name)
		if !ok {
			continue
		}
		if err := b.Action(); err != nil {
			logging.Logger().Error("command failed", "command", b.Help, "err", err)
			v.status = err.Error()
		} else if !k.hold {
			v.status = b.Help
		}
	}

	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if v.dragging {
			v.sc.RotateCamera(-float64(x-v.lastX)*v.angle, float64(y-v.lastY)*v.angle, 0)
		}
		v.dragging = true
	} else {
		v.dragging = false
	}
	v.lastX, v.lastY = x, y

	if _, dy := ebiten.Wheel(); dy > 0 {
		v.sc.ZoomCamera(1.1)
	} else if dy < 0 {
		v.sc.ZoomCamera(1 / 1.1)
	}

	v.sc.Update()
	v.stats = v.sc.Render()
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	fb := v.sc.Framebuffer
	if v.screen == nil || v.screen.Bounds().Dx() != fb.Width || v.screen.Bounds().Dy() != fb.Height {
		if v.screen != nil {
			v.screen.Deallocate()
		}
		v.screen = ebiten.NewImage(fb.Width, fb.Height)
	}
	// Framebuffer pixels are opaque, so NRGBA and premultiplied RGBA agree.
	v.screen.WritePixels(fb.ToImage().Pix)
	screen.DrawImage(v.screen, nil)

	if v.showHUD {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("%.0f FPS %s\n%d tris %d culled %d shadowed\n%s",
			ebiten.ActualFPS(), v.sc.Mode, v.stats.Triangles, v.stats.Culled, v.stats.ShadowedVertices, v.status))
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.sc.Framebuffer.Width, v.sc.Framebuffer.Height
}

func run(modelPath string) error {
	sc, err := scene.Load(cfg, modelPath)
	if err != nil {
		return err
	}

	title := "pinhole"
	if modelPath != "" {
		title += " - " + filepath.Base(modelPath)
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(cfg.Width*max(*scale, 1), cfg.Height*max(*scale, 1))
	ebiten.SetTPS(max(cfg.FPS, 1))
	logging.Logger().Info("window opened", "width", cfg.Width, "height", cfg.Height)
	return ebiten.RunGame(newViewer(sc))
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pinhole-window - Desktop software renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pinhole-window [options] [model.glb|model.gltf|model.mesh]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
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

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
	closeLog()
}
