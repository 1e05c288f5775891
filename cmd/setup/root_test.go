package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/ecs/entity"
	"github.com/milk9111/planetbowl/scenes"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func loadOutput(t *testing.T, data []byte) *ecs.World {
	t.Helper()
	scene, err := scenes.ParseScene(data)
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	w := ecs.NewWorld()
	if _, err := entity.LoadSceneToWorld(w, scene); err != nil {
		t.Fatalf("load output: %v", err)
	}
	return w
}

func mustFind(t *testing.T, w *ecs.World, name string) ecs.Entity {
	t.Helper()
	e, ok := entity.FindByName(w, name)
	if !ok {
		t.Fatalf("%s missing from output", name)
	}
	return e
}

func TestSetupCommandWiresScene(t *testing.T) {
	out, err := execute(t, "--mass", "3", "--drag", "0.25")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	w := loadOutput(t, []byte(out))
	planet := mustFind(t, w, "Planet_69")
	bowl := mustFind(t, w, "bowl_03")

	body, ok := ecs.Get(w, planet, component.PhysicsBodyComponent.Kind())
	if !ok {
		t.Fatalf("planet should have a physics body")
	}
	if body.Mode != component.BodyDynamic || body.Mass != 3 || body.Drag != 0.25 {
		t.Fatalf("unexpected planet body %+v", body)
	}
	tether, ok := ecs.Get(w, planet, component.BowlTetherComponent.Kind())
	if !ok || tether.BowlName != "bowl_03" {
		t.Fatalf("planet should be tethered to bowl_03, got %+v", tether)
	}

	bowlBody, ok := ecs.Get(w, bowl, component.PhysicsBodyComponent.Kind())
	if !ok || bowlBody.Mode != component.BodyKinematic {
		t.Fatalf("bowl should be kinematic, got %+v", bowlBody)
	}
	if !ecs.Has(w, bowl, component.BowlTiltComponent.Kind()) {
		t.Fatalf("bowl should have a tilt")
	}
}

func TestSetupCommandDynamicBowl(t *testing.T) {
	out, err := execute(t, "--static-bowl=false")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	w := loadOutput(t, []byte(out))
	body, ok := ecs.Get(w, mustFind(t, w, "bowl_03"), component.PhysicsBodyComponent.Kind())
	if !ok || body.Mode != component.BodyDynamic {
		t.Fatalf("bowl should be dynamic, got %+v", body)
	}
}

func TestSetupCommandDrops(t *testing.T) {
	tests := []struct {
		cmd    string
		height float64
	}{
		{"reset", 2},
		{"drop", 5},
	}
	for _, tc := range tests {
		t.Run(tc.cmd, func(t *testing.T) {
			out, err := execute(t, tc.cmd, scenes.DefaultScene)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			w := loadOutput(t, []byte(out))
			planetTf, _ := ecs.Get(w, mustFind(t, w, "Planet_69"), component.TransformComponent.Kind())
			bowlTf, _ := ecs.Get(w, mustFind(t, w, "bowl_03"), component.TransformComponent.Kind())
			if planetTf.X != bowlTf.X || planetTf.Y != bowlTf.Y-tc.height {
				t.Fatalf("planet at %v,%v, bowl at %v,%v", planetTf.X, planetTf.Y, bowlTf.X, bowlTf.Y)
			}
		})
	}
}

func TestSetupCommandWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wired.yaml")
	out, err := execute(t, "--out", path)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "" {
		t.Fatalf("stdout should be empty when writing a file, got %d bytes", len(out))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	w := loadOutput(t, data)
	mustFind(t, w, "Planet_69")

	// The written file is itself a loadable scene argument.
	if _, err := execute(t, path); err != nil {
		t.Fatalf("re-run on written scene: %v", err)
	}
}

func TestSetupCommandErrors(t *testing.T) {
	if _, err := execute(t, "--planet", "Nope"); !errors.Is(err, entity.ErrPlanetNotFound) {
		t.Fatalf("expected ErrPlanetNotFound, got %v", err)
	}
	if _, err := execute(t, "--bowl", "Nope"); !errors.Is(err, entity.ErrBowlNotFound) {
		t.Fatalf("expected ErrBowlNotFound, got %v", err)
	}
	if _, err := execute(t, "no_such_scene"); err == nil {
		t.Fatalf("expected an error for a missing scene")
	}
}
