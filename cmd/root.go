// Package cmd holds the flowdraw command line.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flowdraw/internal/config"
	"flowdraw/internal/diagram"
	"flowdraw/internal/fileio"
	"flowdraw/internal/logging"
	"flowdraw/internal/store"
	"flowdraw/internal/tui"
)

var version = "0.3.0"

var (
	configPath string
	logFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "flowdraw [file]",
	Short: "A terminal diagram editor",
	Long: Brand.Sprint("flowdraw") + " draws flowcharts and diagrams in the terminal\n" +
		Subtle.Sprint("Diagrams are saved as JSON or YAML and export to PNG or plain text"),
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		var path string
		if len(args) == 1 {
			path = args[0]
		}
		d, bound, err := openDiagram(path, cfg)
		if err != nil {
			return err
		}
		logger.Info("starting", zap.String("version", version), zap.String("file", bound))

		s := store.New(
			store.WithLogger(logger.Named("store")),
			store.WithMaxHistory(cfg.Editor.MaxHistory),
			store.WithDiagram(d),
		)
		return tui.Run(s,
			tui.WithConfig(cfg),
			tui.WithLogger(logger),
			tui.WithFilename(bound),
		)
	},
}

func init() {
	rootCmd.SetVersionTemplate("flowdraw {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(
		exportCmd(),
		importCmd(),
		infoCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		Bad.Fprintf(os.Stderr, "flowdraw: %v\n", err)
	}
	return err
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	file := cfg.Log.File
	if file != "" && !filepath.IsAbs(file) && filepath.Base(file) == file {
		file = filepath.Join(config.Dir(), file)
		if err := os.MkdirAll(config.Dir(), 0o755); err != nil {
			return nil, err
		}
	}
	return logging.New(cfg.Log.Level, file)
}

// openDiagram loads path for editing and returns the file later saves go to.
// A missing path starts a new diagram bound to it. Legacy FLOWCHART text files
// are imported and left unbound so they are never overwritten.
func openDiagram(path string, cfg *config.Config) (*diagram.Diagram, string, error) {
	newDiagram := func() *diagram.Diagram {
		d := diagram.Default(time.Now())
		d.Settings = cfg.Settings()
		return d
	}
	if path == "" {
		return newDiagram(), "", nil
	}
	if isLegacy(path) {
		d, err := fileio.ImportFlowchartFile(path, nil)
		return d, "", err
	}

	d, err := fileio.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		if _, ferr := fileio.FormatFor(path); ferr != nil {
			return nil, "", ferr
		}
		d = newDiagram()
		d.Metadata.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return d, path, nil
	}
	if err != nil {
		return nil, "", err
	}
	return d, path, nil
}

func isLegacy(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}
