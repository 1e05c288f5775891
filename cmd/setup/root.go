package main

import (
	"fmt"
	"io"
	"os"

	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/entity"
	"github.com/milk9111/planetbowl/logging"
	"github.com/milk9111/planetbowl/scenes"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.design/x/clipboard"
)

type setupFlags struct {
	out     string
	copy    bool
	verbose bool
	opts    entity.SetupOptions
}

// dropFunc repositions the planet after setup; nil leaves it where the scene put it.
type dropFunc func(w *ecs.World, opts entity.SetupOptions, log zerolog.Logger) error

func newRootCmd() *cobra.Command {
	flags := &setupFlags{opts: entity.DefaultSetupOptions()}

	root := &cobra.Command{
		Use:   "planetbowl-setup [scene]",
		Short: "Wire physics onto a planet and bowl scene",
		Long: `planetbowl-setup loads a scene, gives the planet a dynamic body tethered to
the bowl, makes the bowl a tiltable body and prints the resulting scene.
Scenes are looked up on disk first, then among the built-in scenes.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, flags, args, nil)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.out, "out", "o", "", "write the scene to a file instead of stdout")
	pf.BoolVar(&flags.copy, "copy", false, "also copy the scene to the clipboard")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&flags.opts.PlanetName, "planet", flags.opts.PlanetName, "name of the planet entity")
	pf.StringVar(&flags.opts.BowlName, "bowl", flags.opts.BowlName, "name of the bowl entity")
	pf.Float64Var(&flags.opts.PlanetMass, "mass", flags.opts.PlanetMass, "planet mass")
	pf.Float64Var(&flags.opts.PlanetDrag, "drag", flags.opts.PlanetDrag, "planet linear drag")
	pf.Float64Var(&flags.opts.PlanetAngularDrag, "angular-drag", flags.opts.PlanetAngularDrag, "planet angular drag")
	pf.BoolVar(&flags.opts.MakeBowlStatic, "static-bowl", flags.opts.MakeBowlStatic, "make the bowl kinematic instead of dynamic")

	root.AddCommand(
		&cobra.Command{
			Use:   "reset [scene]",
			Short: "Set up the scene and rest the planet just above the bowl",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSetup(cmd, flags, args, entity.ResetPlanetPosition)
			},
		},
		&cobra.Command{
			Use:   "drop [scene]",
			Short: "Set up the scene and lift the planet high above the bowl for a test drop",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSetup(cmd, flags, args, entity.TestCollision)
			},
		},
	)
	return root
}

func runSetup(cmd *cobra.Command, flags *setupFlags, args []string, drop dropFunc) error {
	log := logging.Component(logging.NewWithWriter(cmd.ErrOrStderr(), flags.verbose), "setup")

	name := scenes.DefaultScene
	if len(args) == 1 {
		name = args[0]
	}
	scene, err := loadScene(name)
	if err != nil {
		return err
	}

	data, err := setupScene(scene, flags.opts, drop, log)
	if err != nil {
		return err
	}

	if err := writeScene(cmd.OutOrStdout(), flags.out, data); err != nil {
		return err
	}
	if flags.copy {
		if err := clipboard.Init(); err != nil {
			return fmt.Errorf("clipboard unavailable: %w", err)
		}
		clipboard.Write(clipboard.FmtText, data)
		log.Info().Int("bytes", len(data)).Msg("scene copied to clipboard")
	}
	return nil
}

func loadScene(name string) (*scenes.Scene, error) {
	if _, err := os.Stat(name); err == nil {
		return scenes.LoadSceneFile(name)
	}
	return scenes.LoadSceneFromFS(name)
}

// setupScene builds the scene into a fresh world, runs the planet and bowl
// setup and exports the world back to YAML.
func setupScene(scene *scenes.Scene, opts entity.SetupOptions, drop dropFunc, log zerolog.Logger) ([]byte, error) {
	w := ecs.NewWorld()
	if _, err := entity.LoadSceneToWorld(w, scene); err != nil {
		return nil, err
	}
	if _, err := entity.SetupPlanetAndBowl(w, opts, log); err != nil {
		return nil, err
	}
	if drop != nil {
		if err := drop(w, opts, log); err != nil {
			return nil, err
		}
	}

	exported, err := entity.ExportScene(w, scene.Name)
	if err != nil {
		return nil, err
	}
	data, err := exported.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	return data, nil
}

func writeScene(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}
