// Command think is a CLI tool for working with thought files.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ha1tch/thinkmap/pkg/config"
	"github.com/ha1tch/thinkmap/pkg/logging"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
)

var version = "0.3.0"

// Output colours
var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

// app holds what every command needs once flags are parsed.
type app struct {
	configPath string
	opts       *config.Options
	log        *zap.Logger
}

func (a *app) load() error {
	opts, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(opts.Logging())
	if err != nil {
		return err
	}
	a.opts, a.log = opts, log
	return nil
}

// engine returns a layout engine measuring with Go Regular.
func (a *app) engine() (*textlayout.Engine, error) {
	m, err := textlayout.NewFaceMeasurer(nil)
	if err != nil {
		return nil, err
	}
	return textlayout.NewEngine(m, a.opts.Layout()), nil
}

func rootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "think",
		Short:         "think - mind map toolkit",
		Long:          brand.Sprint("think") + " - create, inspect, convert and export thoughts",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", config.Path(), "config file")

	root.AddCommand(
		newCmd(a),
		infoCmd(a),
		validateCmd(a),
		convertCmd(a),
		exportCmd(a),
		layoutCmd(a),
		storeCmd(a),
	)
	return root
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", bad.Sprint("think:"), err)
		os.Exit(1)
	}
}
