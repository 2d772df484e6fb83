package visualization

import (
	"fmt"
	"image/color"
	"math"
	"robot-sim/internal/common"
	"robot-sim/internal/config"
	"robot-sim/internal/editor"
	"robot-sim/internal/simulation"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	backgroundColor = color.RGBA{230, 230, 230, 255}
	roomColor       = color.RGBA{250, 250, 250, 255}
	obstacleColor   = color.RGBA{200, 40, 40, 255}
	selectionColor  = color.RGBA{255, 200, 0, 255}
	statusColor     = color.RGBA{40, 40, 40, 255}

	// Outline colours by robot kind; the body is drawn as a lighter fill.
	kindColors = map[simulation.Kind]color.RGBA{
		simulation.KindRobot:   {60, 60, 60, 255},
		simulation.KindAuto:    {0, 90, 200, 255},
		simulation.KindControl: {0, 150, 70, 255},
	}
	bodyColor = color.RGBA{245, 245, 245, 255}
	eyeColor  = color.RGBA{20, 20, 20, 255}
)

var convertKeys = map[ebiten.Key]simulation.Kind{
	ebiten.KeyDigit1: simulation.KindRobot,
	ebiten.KeyDigit2: simulation.KindAuto,
	ebiten.KeyDigit3: simulation.KindControl,
}

var driveKeys = map[ebiten.Key]editor.DriveKey{
	ebiten.KeyArrowUp:    editor.DriveForward,
	ebiten.KeyArrowLeft:  editor.DriveLeft,
	ebiten.KeyArrowRight: editor.DriveRight,
}

// Renderer implements ebiten.Game: every Update handles the input of the
// frame and advances the simulation by one tick.
type Renderer struct {
	sim        *simulation.Simulation
	editor     *editor.Editor
	delta      float64 // seconds per tick
	resizeRoom bool    // the room follows the window size

	screenWidth  int
	screenHeight int
	viewport     Viewport
}

// NewRenderer creates a new Ebiten renderer. Ebiten must run at the tick rate
// of cfg for the simulated time to match the wall clock.
func NewRenderer(sim *simulation.Simulation, ed *editor.Editor, cfg config.Config) *Renderer {
	return &Renderer{
		sim:        sim,
		editor:     ed,
		delta:      cfg.Simulation.Tick.Seconds(),
		resizeRoom: cfg.Window.ResizeRoom,
	}
}

// Update is called every tick.
func (r *Renderer) Update() error {
	cursor := r.viewport.ToWorld(ebiten.CursorPosition())
	r.handleKeys(cursor)
	r.handleMouse(cursor)
	r.sim.Update(r.delta)
	return nil
}

func (r *Renderer) handleKeys(cursor common.Vector) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		r.editor.TogglePlaying()
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		r.editor.CycleSelection()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		r.sim.Deselect()
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete), inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		r.editor.RemoveSelected()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		// The editor reports the outcome in the status bar.
		_ = r.editor.Save()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		r.editor.AddRobot(cursor)
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		r.editor.AddObstacle(cursor)
	}

	for key, kind := range convertKeys {
		if inpututil.IsKeyJustPressed(key) {
			r.editor.ConvertSelected(kind)
		}
	}

	for key, drive := range driveKeys {
		if inpututil.IsKeyJustPressed(key) {
			r.editor.Drive(drive, true)
		}
		if inpututil.IsKeyJustReleased(key) {
			r.editor.Drive(drive, false)
		}
	}
}

func (r *Renderer) handleMouse(cursor common.Vector) {
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		r.editor.Grab(cursor)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		r.editor.Release()
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		r.editor.DragTo(cursor)
	}
}

// Draw is called every frame to render the simulation.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	x, y, w, h := r.viewport.RectToScreen(r.sim.Bounds())
	vector.DrawFilledRect(screen, x, y, w, h, roomColor, false)

	selected := r.sim.Selected()

	for _, o := range r.sim.Obstacles() {
		x, y, w, h := r.viewport.RectToScreen(o.Hitbox())
		vector.DrawFilledRect(screen, x, y, w, h, fade(obstacleColor, o.IsGrabbed()), false)
		if selected == simulation.SimulationObject(o) {
			vector.StrokeRect(screen, x, y, w, h, 2, selectionColor, false)
		}
	}

	for _, a := range r.sim.Agents() {
		r.drawRobot(screen, a, selected == simulation.SimulationObject(a))
	}

	r.drawStatus(screen)
}

func (r *Renderer) drawRobot(screen *ebiten.Image, a simulation.Agent, selected bool) {
	base := a.Base()
	cx, cy := r.viewport.ToScreen(base.Center())
	outline := fade(kindColors[a.Kind()], a.IsGrabbed())

	// The outline is centred on the circle inset by half its thickness so it
	// stays inside the collision circle.
	inner := base.Radius() - simulation.BorderThickness/2
	vector.DrawFilledCircle(screen, cx, cy, r.viewport.Length(inner), bodyColor, true)
	vector.StrokeCircle(screen, cx, cy, r.viewport.Length(inner), r.viewport.Length(simulation.BorderThickness), outline, true)

	eye, eyeRadius := base.Eye()
	ex, ey := r.viewport.ToScreen(eye)
	vector.DrawFilledCircle(screen, ex, ey, r.viewport.Length(eyeRadius), eyeColor, true)

	if selected {
		vector.StrokeCircle(screen, cx, cy, r.viewport.Length(base.Radius()+2), 2, selectionColor, true)
	}
}

func (r *Renderer) drawStatus(screen *ebiten.Image) {
	top := r.screenHeight - config.StatusBarHeight
	vector.DrawFilledRect(screen, 0, float32(top), float32(r.screenWidth), config.StatusBarHeight, statusColor, false)

	state := "running"
	if !r.sim.IsPlaying() {
		state = "paused"
	}
	msg := fmt.Sprintf("Time: %.2fs (%s)  TPS: %.1f  FPS: %.1f\n", r.sim.GetCurrentTime(), state, ebiten.ActualTPS(), ebiten.ActualFPS())
	msg += describeSelection(r.sim, r.sim.Selected()) + "\n"
	msg += r.editor.Status() + "\n"
	msg += "space play/pause  tab select  r/o add robot/obstacle  1/2/3 convert  arrows drive  del remove  s save"

	ebitenutil.DebugPrintAt(screen, msg, 8, top+4)
}

func describeSelection(sim *simulation.Simulation, obj simulation.SimulationObject) string {
	switch o := obj.(type) {
	case nil:
		return "Nothing selected"
	case simulation.Agent:
		deg := math.Mod(-o.Base().Orientation()*180/math.Pi, 360)
		return fmt.Sprintf("%s %s  speed %.1f  angle %.1f  clearance %.1f",
			o.Kind(), o.GetID(), o.Speed(), deg, sim.ObstacleDistance(o))
	default:
		return fmt.Sprintf("obstacle %s  %s", obj.GetID(), obj.Hitbox())
	}
}

func fade(c color.RGBA, faded bool) color.RGBA {
	if !faded {
		return c
	}
	return color.RGBA{c.R / 2, c.G / 2, c.B / 2, c.A / 2}
}

// Layout is called when the window size changes.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	r.screenWidth = outsideWidth
	r.screenHeight = outsideHeight
	if r.resizeRoom {
		// A window too small for a room keeps the previous size.
		_ = r.sim.Resize(float64(outsideWidth), float64(outsideHeight-config.StatusBarHeight))
	}
	r.viewport = FitViewport(r.sim.Bounds(), float64(outsideWidth), float64(outsideHeight-config.StatusBarHeight), 0)
	return r.screenWidth, r.screenHeight
}

// WindowSize returns the window size that shows the room at scale 1.
func WindowSize(sim *simulation.Simulation) (int, int) {
	b := sim.Bounds()
	return int(math.Ceil(b.Width)), int(math.Ceil(b.Height)) + config.StatusBarHeight
}

var _ ebiten.Game = (*Renderer)(nil)
