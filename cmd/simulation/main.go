package main

import (
	"fmt"
	"log"
	"os"

	"robot-sim/internal/config"
	"robot-sim/internal/editor"
	"robot-sim/internal/roomfile"
	"robot-sim/internal/simulation"
	"robot-sim/internal/visualization"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ttacon/chalk"
	"github.com/urfave/cli"
)

func main() {
	app := makeapp()
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Name = "robot-sim"
	app.Usage = "Robots and obstacles in a rectangular room"

	configFlag := cli.StringFlag{Name: "config", Value: "", Usage: "YAML settings file"}
	roomFlag := cli.StringFlag{Name: "room", Value: "", Usage: "Room file; overrides the config"}

	app.Commands = []cli.Command{
		{
			Name:  "view",
			Usage: "Open the room in a window",
			Flags: []cli.Flag{configFlag, roomFlag},
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c.String("config"))
				if err != nil {
					return fail(err)
				}
				return fail(viewAction(cfg, roomPath(c, cfg)))
			},
		},
		{
			Name:  "run",
			Usage: "Run the room without a window and print the final state",
			Flags: []cli.Flag{
				configFlag,
				roomFlag,
				cli.IntFlag{Name: "ticks", Value: -1, Usage: "Number of ticks to run (default from config)"},
			},
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c.String("config"))
				if err != nil {
					return fail(err)
				}
				ticks := c.Int("ticks")
				if ticks < 0 {
					ticks = cfg.Simulation.Steps
				}
				return fail(runAction(cfg, roomPath(c, cfg), ticks))
			},
		},
		{
			Name:      "check",
			Usage:     "Validate a room file",
			ArgsUsage: "<room file>",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return fail(fmt.Errorf("expected exactly one room file"))
				}
				return fail(checkAction(c.Args().First()))
			},
		},
	}

	return app
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func roomPath(c *cli.Context, cfg config.Config) string {
	if path := c.String("room"); path != "" {
		return path
	}
	return cfg.Room
}

// buildSimulation loads the room file, or creates an empty room of the
// configured window size when path is empty.
func buildSimulation(cfg config.Config, path string) (*simulation.Simulation, error) {
	room := &roomfile.Room{
		Width:  float64(cfg.Window.Width),
		Height: float64(cfg.Window.Height),
	}
	if path != "" {
		var err error
		if room, err = roomfile.Load(path); err != nil {
			return nil, err
		}
	}

	sim, err := room.Build()
	if err != nil {
		return nil, err
	}
	sim.RunSimulation(cfg.Simulation.Playing)
	return sim, nil
}

func viewAction(cfg config.Config, path string) error {
	sim, err := buildSimulation(cfg, path)
	if err != nil {
		return err
	}

	ed := editor.New(sim, cfg.SavePath, log.New(os.Stderr, "editor: ", log.LstdFlags))
	renderer := visualization.NewRenderer(sim, ed, cfg)

	ebiten.SetWindowSize(visualization.WindowSize(sim))
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Simulation.TPS())

	return ebiten.RunGame(renderer)
}

func runAction(cfg config.Config, path string, ticks int) error {
	sim, err := buildSimulation(cfg, path)
	if err != nil {
		return err
	}

	fmt.Println(chalk.Blue.Color(fmt.Sprintf("=== running %d ticks of %s", ticks, cfg.Simulation.Tick)))
	sim.Run(ticks, cfg.Simulation.Tick.Seconds())

	sim.WriteState(os.Stdout)
	fmt.Println(chalk.Green.Color("=== " + sim.Report().String()))
	return nil
}

func checkAction(path string) error {
	room, err := roomfile.Load(path)
	if err != nil {
		return err
	}
	fmt.Println(chalk.Green.Color(fmt.Sprintf("=== %s: %vx%v room, %d obstacles, %d robots",
		path, room.Width, room.Height, len(room.Obstacles), len(room.Robots))))
	return nil
}

// fail turns an error into a coloured exit error, passing nil through.
func fail(err error) error {
	if err == nil {
		return nil
	}
	return cli.NewExitError(chalk.Red.Color("=== "+err.Error()), 1)
}
