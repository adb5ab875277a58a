// Package config loads the editor's tunables from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ha1tch/thinkmap/pkg/logging"
	"github.com/ha1tch/thinkmap/pkg/mouse"
	"github.com/ha1tch/thinkmap/pkg/shape"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/think"
	"github.com/ha1tch/thinkmap/pkg/thoughtfile"
	"github.com/ha1tch/thinkmap/pkg/validation"
)

// Options holds every tunable, one TOML table per concern.
type Options struct {
	Animation  AnimationOptions  `toml:"animation"`
	Node       NodeOptions       `toml:"node"`
	Connection ConnectionOptions `toml:"connection"`
	Action     ActionOptions     `toml:"action"`
	Selection  SelectionOptions  `toml:"selection"`
	Menu       MenuOptions       `toml:"menu"`
	ZOrder     ZOrderOptions     `toml:"zorder"`
	Editor     EditorOptions     `toml:"editor"`
	Log        LogOptions        `toml:"log"`
}

type AnimationOptions struct {
	FPS      int `toml:"fps" validate:"gt=0,lte=240"`
	LengthMS int `toml:"length_ms" validate:"gt=0"` // One sweep of the selection pulse
}

type NodeOptions struct {
	FontFamily       string  `toml:"font_family" validate:"required"`
	FontSize         float64 `toml:"font_size" validate:"gt=0"`
	Padding          float64 `toml:"padding" validate:"gte=0"`
	MinimumTextWidth float64 `toml:"minimum_text_width" validate:"gt=0"` // Radius of an empty node
	Wrap             bool    `toml:"wrap"`
	Greedy           bool    `toml:"greedy"`
	MaxGreedyWords   int     `toml:"max_greedy_words" validate:"gt=0,lte=16"`
	CreatedDistance  float64 `toml:"created_distance" validate:"gte=0"`
}

type ConnectionOptions struct {
	ControlPointConstant float64 `toml:"control_point_constant"`
}

type ActionOptions struct {
	Radius float64 `toml:"radius" validate:"gt=0"`
	Margin float64 `toml:"margin" validate:"gte=0"`
}

type SelectionOptions struct {
	Padding float64 `toml:"padding" validate:"gte=0"`
	Pulse   float64 `toml:"pulse" validate:"gte=0"` // Width of the pulse sweep
}

type MenuOptions struct {
	ItemRadius float64 `toml:"item_radius" validate:"gt=0"`
	ItemMargin float64 `toml:"item_margin" validate:"gte=0"`
	Padding    float64 `toml:"padding" validate:"gte=0"`
	MarginTop  float64 `toml:"margin_top" validate:"gte=0"`
	MarginLeft float64 `toml:"margin_left" validate:"gte=0"`
}

type ZOrderOptions struct {
	Dragging   int `toml:"dragging"`
	MenuItem   int `toml:"menu_item"`
	Action     int `toml:"action"`
	Node       int `toml:"node"`
	Connection int `toml:"connection"`
	Viewport   int `toml:"viewport"`
}

type EditorOptions struct {
	DoubleClickMS int     `toml:"double_click_ms" validate:"gt=0"`
	ClickSlop     float64 `toml:"click_slop" validate:"gte=0"`
	CellWidth     float64 `toml:"cell_width" validate:"gt=0"`
	CellHeight    float64 `toml:"cell_height" validate:"gt=0"`
	ExportPadding float64 `toml:"export_padding" validate:"gte=0"`
	SaveStatusMS  int     `toml:"save_status_ms" validate:"gte=0"`
	Store         string  `toml:"store" validate:"oneof=dir sqlite"`
	StorePath     string  `toml:"store_path"` // Empty selects DataDir
	Format        string  `toml:"format" validate:"oneof=json yaml"`
}

type LogOptions struct {
	Level       string `toml:"level" validate:"oneof=debug info warn error"`
	File        string `toml:"file"`
	Development bool   `toml:"development"`
}

// Default returns the stock configuration.
func Default() *Options {
	return &Options{
		Animation: AnimationOptions{FPS: 25, LengthMS: 1000},
		Node: NodeOptions{
			FontFamily:       "sans-serif",
			FontSize:         14,
			Padding:          15,
			MinimumTextWidth: 10,
			Wrap:             true,
			MaxGreedyWords:   textlayout.DefaultMaxGreedyWords,
			CreatedDistance:  30,
		},
		Connection: ConnectionOptions{ControlPointConstant: 550},
		Action:     ActionOptions{Radius: 15, Margin: 7},
		Selection:  SelectionOptions{Padding: 5, Pulse: 10},
		Menu:       MenuOptions{ItemRadius: 15, ItemMargin: 3, Padding: 2, MarginTop: 5, MarginLeft: 5},
		ZOrder:     ZOrderOptions{Dragging: 5, MenuItem: 4, Action: 3, Node: 2, Connection: 1, Viewport: 0},
		Editor: EditorOptions{
			DoubleClickMS: int(mouse.DefaultDoubleClick / time.Millisecond),
			ClickSlop:     mouse.DefaultClickSlop,
			CellWidth:     8,
			CellHeight:    16,
			ExportPadding: 10,
			SaveStatusMS:  3000,
			Store:         "dir",
			Format:        "json",
		},
		Log: LogOptions{Level: "info"},
	}
}

// Dir returns the thinkmap config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "thinkmap")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns where thoughts are stored by default.
func DataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "thinkmap")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Options, error) {
	o := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return o, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := toml.Decode(string(data), o); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// Save writes o to path, creating its directory.
func Save(path string, o *Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(o)
}

// Validate checks every field's range.
func (o *Options) Validate() error {
	return validation.Struct(o)
}

// Layout returns the text layout options.
func (o *Options) Layout() textlayout.Options {
	strategy := textlayout.StrategyAveraging
	if o.Node.Greedy {
		strategy = textlayout.StrategyGreedy
	}
	return textlayout.Options{
		Font:             textlayout.FontStyle{Family: o.Node.FontFamily, Size: o.Node.FontSize},
		Wrap:             o.Node.Wrap,
		Strategy:         strategy,
		MinimumTextWidth: o.Node.MinimumTextWidth,
		Padding:          o.Node.Padding,
		MaxGreedyWords:   o.Node.MaxGreedyWords,
	}
}

// Shape returns the geometry options.
func (o *Options) Shape() shape.Options {
	s := shape.DefaultOptions()
	s.ControlPointConstant = o.Connection.ControlPointConstant
	s.ActionRadius = o.Action.Radius
	s.ActionMargin = o.Action.Margin
	s.MenuItemRadius = o.Menu.ItemRadius
	s.MenuItemMargin = o.Menu.ItemMargin
	s.MenuPadding = o.Menu.Padding
	s.MenuMarginTop = o.Menu.MarginTop
	s.MenuMarginLeft = o.Menu.MarginLeft
	return s
}

// Think returns the context options. The pulse starts just outside the
// action ring.
func (o *Options) Think() think.Options {
	diffMin := (o.Action.Radius+o.Action.Margin)*2 + o.Selection.Padding
	return think.Options{
		Layout: o.Layout(),
		Shape:  o.Shape(),
		ZOrder: think.ZOrders{
			Dragging:   o.ZOrder.Dragging,
			MenuItem:   o.ZOrder.MenuItem,
			Action:     o.ZOrder.Action,
			Node:       o.ZOrder.Node,
			Connection: o.ZOrder.Connection,
			Viewport:   o.ZOrder.Viewport,
		},
		FPS:                 o.Animation.FPS,
		AnimationLength:     time.Duration(o.Animation.LengthMS) * time.Millisecond,
		SelectionPadding:    o.Selection.Padding,
		SelectionDiffMin:    diffMin,
		SelectionDiffMax:    diffMin + o.Selection.Pulse,
		CreatedNodeDistance: o.Node.CreatedDistance,
		ExportPadding:       o.Editor.ExportPadding,
		SaveStatusDuration:  time.Duration(o.Editor.SaveStatusMS) * time.Millisecond,
	}
}

// Image returns the export options.
func (o *Options) Image() thoughtfile.ImageOptions {
	img := thoughtfile.DefaultImageOptions()
	img.Padding = o.Editor.ExportPadding
	img.Shape = o.Shape()
	return img
}

// DoubleClick returns the double-click window.
func (o *Options) DoubleClick() time.Duration {
	return time.Duration(o.Editor.DoubleClickMS) * time.Millisecond
}

// StorePath returns the configured store location.
func (o *Options) StorePath() string {
	if o.Editor.StorePath != "" {
		return o.Editor.StorePath
	}
	if o.Editor.Store == "sqlite" {
		return filepath.Join(DataDir(), "thoughts.db")
	}
	return filepath.Join(DataDir(), "thoughts")
}

// Logging returns the logger options.
func (o *Options) Logging() logging.Options {
	return logging.Options{Level: o.Log.Level, File: o.Log.File, Development: o.Log.Development}
}
