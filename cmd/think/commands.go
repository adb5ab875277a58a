package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/thought"
	"github.com/ha1tch/thinkmap/pkg/thoughtfile"
)

func newCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create a thought with a single central node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			t := thought.New(name)
			t.AddNode(thought.NewNode(0, 0, name, ""))
			if err := thoughtfile.WriteFile(path, t); err != nil {
				return err
			}
			fmt.Printf("%s created %s\n", good.Sprint("✓"), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "thought name (default: file name)")
	return cmd
}

func infoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show thought information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := thoughtfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			e, err := a.engine()
			if err != nil {
				return err
			}

			fmt.Printf("  %s %s\n\n", brand.Sprint(t.Name), subtle.Sprintf("(%s)", t.ID))
			fmt.Printf("  Nodes:        %d\n", len(t.Nodes))
			fmt.Printf("  Connections:  %d\n", len(t.Connections))
			fmt.Printf("  Modifiable:   %v\n", t.Modifiable)
			fmt.Printf("  Public:       %v\n", t.IsPublic)
			fmt.Printf("  Theme:        %s\n", t.ThemeOrDefault().Name)
			if box, ok := t.BoundingBox(e, a.opts.Editor.ExportPadding); ok {
				fmt.Printf("  Size:         %.0f x %.0f\n", box.W, box.H)
			}

			if len(t.Nodes) > 0 {
				fmt.Println()
				for _, n := range t.Nodes {
					label := strings.Join(n.Lines(e), " / ")
					if label == "" {
						label = subtle.Sprint("(empty)")
					}
					fmt.Printf("  %-36s %8.1f %8.1f  r=%-6.1f %s\n", n.ID, n.X, n.Y, n.Radius(e), label)
				}
			}
			return nil
		},
	}
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check thought files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				t, err := thoughtfile.ReadFile(path)
				if err == nil {
					err = t.Validate()
				}
				if err != nil {
					failed++
					fmt.Printf("%s %s: %v\n", bad.Sprint("✗"), path, err)
					continue
				}
				fmt.Printf("%s %s\n", good.Sprint("✓"), path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}

func convertCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert between formats (json, yaml)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			t, err := thoughtfile.ReadFile(input)
			if err != nil {
				return err
			}
			if output == "" {
				// Default: switch format
				ext := filepath.Ext(input)
				base := strings.TrimSuffix(input, ext)
				if ext == ".json" {
					output = base + ".yaml"
				} else {
					output = base + ".json"
				}
			}
			if err := thoughtfile.WriteFile(output, t); err != nil {
				return err
			}
			fmt.Printf("%s wrote %s\n", good.Sprint("✓"), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var (
		output string
		scale  float64
	)
	cmd := &cobra.Command{
		Use:   "export <input>",
		Short: "Render a thought as PNG, SVG or Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			t, err := thoughtfile.ReadFile(input)
			if err != nil {
				return err
			}
			e, err := a.engine()
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
			}
			opts := a.opts.Image()
			opts.Scale = scale

			var data []byte
			switch strings.ToLower(filepath.Ext(output)) {
			case ".png":
				var buf bytes.Buffer
				if err := thoughtfile.RenderPNG(t, e, &buf, opts); err != nil {
					return err
				}
				data = buf.Bytes()
			case ".svg":
				svg, err := thoughtfile.GenerateSVG(t, e, opts)
				if err != nil {
					return err
				}
				data = []byte(svg)
			case ".dot", ".gv":
				data = []byte(thoughtfile.GenerateDOT(t, e))
			default:
				return fmt.Errorf("unsupported export format %q", filepath.Ext(output))
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return err
			}
			fmt.Printf("%s wrote %s\n", good.Sprint("✓"), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.png, .svg or .dot)")
	cmd.Flags().Float64Var(&scale, "scale", 1, "pixels per diagram unit")
	return cmd
}

func layoutCmd(a *app) *cobra.Command {
	var greedy, nowrap bool
	cmd := &cobra.Command{
		Use:   "layout <text>",
		Short: "Show how a node label is wrapped",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			m, err := textlayout.NewFaceMeasurer(nil)
			if err != nil {
				return err
			}
			opts := a.opts.Layout()
			if cmd.Flags().Changed("greedy") {
				opts.Strategy = textlayout.StrategyAveraging
				if greedy {
					opts.Strategy = textlayout.StrategyGreedy
				}
			}
			if nowrap {
				opts.Wrap = false
			}
			e := textlayout.NewEngine(m, opts)
			lines := e.Lines(text)

			fmt.Printf("  %s %s\n\n", brand.Sprint("strategy"), opts.Strategy)
			for _, line := range lines {
				fmt.Printf("  %s %s\n", subtle.Sprintf("%6.1f", e.Measure(line)), line)
			}
			fmt.Printf("\n  radius %.2f\n", e.Radius(text, lines))
			return nil
		},
	}
	cmd.Flags().BoolVar(&greedy, "greedy", false, "search every line split")
	cmd.Flags().BoolVar(&nowrap, "no-wrap", false, "keep the label on one line")
	return cmd
}
