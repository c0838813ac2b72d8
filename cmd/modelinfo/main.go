// modelinfo is a CLI utility for inspecting pet model definitions.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kurisu-dev/parapet/internal/assets"
	"github.com/kurisu-dev/parapet/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "parts":
		cmdParts(args)
	case "motions":
		cmdMotions(args)
	case "params":
		cmdParams(args)
	case "physics":
		cmdPhysics(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`modelinfo - pet model definition inspector

Usage:
  modelinfo <command> <model>

A model is a .model3.json file or a directory containing one.

Commands:
  info <model>     Show a model summary
  parts <model>    List drawable parts
  motions <model>  List motions by group with their timing
  params <model>   List parameter definitions
  physics <model>  Show the physics setup

Examples:
  modelinfo info models/hiyori
  modelinfo motions models/hiyori/hiyori.model3.json`)
}

// loadModel resolves and parses the model argument or exits.
func loadModel(args []string, usage string) *formats.Model {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: modelinfo %s\n", usage)
		os.Exit(1)
	}

	model, err := assets.NewLoader().Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return model
}

func cmdInfo(args []string) {
	model := loadModel(args, "info <model>")

	motionCount := 0
	for _, refs := range model.FileReferences.Motions {
		motionCount += len(refs)
	}

	fmt.Printf("Model:      %s\n", args[0])
	fmt.Printf("Version:    %d\n", model.Version)
	if model.FileReferences.Moc != "" {
		fmt.Printf("Moc:        %s\n", filepath.Base(model.FileReferences.Moc))
	}
	fmt.Printf("Parts:      %d\n", len(model.Parts))
	fmt.Printf("Parameters: %d\n", len(model.Parameters))
	fmt.Printf("Textures:   %d\n", len(model.FileReferences.Textures))
	fmt.Printf("Motions:    %d in %d groups\n", motionCount, len(model.FileReferences.Motions))
	if model.FileReferences.Physics != "" {
		fmt.Printf("Physics:    %s\n", filepath.Base(model.FileReferences.Physics))
	} else {
		fmt.Printf("Physics:    (default chain)\n")
	}
}

func cmdParts(args []string) {
	model := loadModel(args, "parts <model>")

	fmt.Printf("%-20s %-20s %6s %8s %8s\n", "ID", "NAME", "DEPTH", "OPACITY", "VISIBLE")
	for _, part := range model.Parts {
		fmt.Printf("%-20s %-20s %6d %8.2f %8v\n",
			part.ID, part.Name, part.Depth, part.Opacity, part.Visible)
		if part.TexturePath != "" {
			fmt.Printf("  texture: %s\n", part.TexturePath)
		}
		for _, d := range part.Deformers {
			fmt.Printf("  deformer: %s %s x%.2f\n", d.Kind, d.Parameter, d.Scale)
		}
	}
}

func cmdMotions(args []string) {
	model := loadModel(args, "motions <model>")

	groups := make([]string, 0, len(model.FileReferences.Motions))
	for group := range model.FileReferences.Motions {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	for _, group := range groups {
		fmt.Printf("%s:\n", group)
		for _, ref := range model.FileReferences.Motions[group] {
			m, err := formats.ParseMotionFile(ref.File)
			if err != nil {
				fmt.Printf("  %-20s (unreadable: %v)\n", filepath.Base(ref.File), err)
				continue
			}
			loop := " "
			if m.Loop {
				loop = "loop"
			}
			fmt.Printf("  %-20s %5.2fs %3.0ffps %4s fade %.1f/%.1f curves %d\n",
				m.ID, m.Duration, m.FPS, loop, m.FadeIn, m.FadeOut, len(m.Curves))
		}
	}
}

func cmdParams(args []string) {
	model := loadModel(args, "params <model>")

	fmt.Printf("%-24s %8s %8s %8s\n", "ID", "DEFAULT", "MIN", "MAX")
	for _, p := range model.Parameters {
		fmt.Printf("%-24s %8.2f %8.2f %8.2f\n", p.ID, p.Default, p.Min, p.Max)
	}
}

func cmdPhysics(args []string) {
	model := loadModel(args, "physics <model>")

	if model.FileReferences.Physics == "" {
		fmt.Println("No physics file; the engine would install the default hair chain.")
		return
	}

	doc, err := assets.NewLoader().LoadPhysics(model.FileReferences.Physics)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Physics: %s (version %d)\n", filepath.Base(model.FileReferences.Physics), doc.Version)
	for _, s := range doc.Settings {
		fmt.Printf("\n%s: %s -> %s\n", s.ID, s.Input, s.Output)
		for i, p := range s.Points {
			fixed := ""
			if p.Fixed {
				fixed = " fixed"
			}
			fmt.Printf("  point %d (%.1f, %.1f) mass %.1f%s\n", i, p.Position[0], p.Position[1], p.Mass, fixed)
		}
		for _, sp := range s.Springs {
			fmt.Printf("  spring %d-%d length %.1f stiffness %.2f\n", sp.A, sp.B, sp.Length, sp.Stiffness)
		}
	}
}
