package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/webshift/webshift/internal/config"
	"github.com/webshift/webshift/internal/debug"
	"github.com/webshift/webshift/internal/engine"
	"github.com/webshift/webshift/internal/export"
	"github.com/webshift/webshift/internal/frameworks"
	"github.com/webshift/webshift/internal/types"
	"github.com/webshift/webshift/internal/version"
	"github.com/webshift/webshift/pkg/pathutil"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")

	// If root is specified and config path is default, look for config in root directory
	if rootFlag := c.String("root"); rootFlag != "" && configPath == ".webshift.kdl" {
		configPath = filepath.Join(rootFlag, ".webshift.kdl")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if rootFlag := c.String("root"); rootFlag != "" {
		absRoot, err := filepath.Abs(rootFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", rootFlag, err)
		}
		cfg.Project.Root = absRoot
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEngine builds an Engine from the effective config, loading a custom
// framework catalog when one is configured.
func newEngine(cfg *config.Config) (*engine.Engine, error) {
	var catalog *frameworks.Catalog
	if cfg.FrameworksFile != "" {
		loaded, err := frameworks.Load(cfg.FrameworksFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load frameworks file %s: %w", cfg.FrameworksFile, err)
		}
		catalog = loaded
	}
	return engine.New(cfg, catalog), nil
}

// resolveTarget validates the analysis root and derives the project name.
func resolveTarget(c *cli.Context, cfg *config.Config) (root, name string, err error) {
	target := c.Args().First()
	if target == "" {
		target = cfg.Project.Root
	}
	if target == "" {
		target = "."
	}

	root, err = pathutil.ValidateRoot(target)
	if err != nil {
		return "", "", err
	}

	name = c.String("name")
	if name == "" {
		name = cfg.Project.Name
	}
	if name == "" {
		name = pathutil.ProjectName(root)
	}
	return root, name, nil
}

func runAnalysis(c *cli.Context) (*types.ProjectAnalysisResult, error) {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, err
	}

	root, name, err := resolveTarget(c, cfg)
	if err != nil {
		return nil, err
	}

	if workers := c.Int("workers"); workers > 0 {
		cfg.Scan.Workers = workers
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return eng.Analyze(ctx, root, name)
}

func writeOrPrint(c *cli.Context, data []byte, defaultName string) error {
	out := c.String("out")
	if out == "" {
		out = defaultName
	}
	if out == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	return nil
}

func analyzeCommand(c *cli.Context) error {
	result, err := runAnalysis(c)
	if err != nil {
		return err
	}

	switch {
	case c.Bool("json"):
		data, err := export.JSON(result)
		if err != nil {
			return err
		}
		return writeOrPrint(c, append(data, '\n'), "-")
	case c.Bool("csv"):
		data, err := export.CSV(result)
		if err != nil {
			return err
		}
		return writeOrPrint(c, data, "-")
	default:
		return writeOrPrint(c, []byte(export.Report(result)), "-")
	}
}

func exportCommand(c *cli.Context) error {
	result, err := runAnalysis(c)
	if err != nil {
		return err
	}

	data, err := export.PureFunctionZIP(result)
	if err != nil {
		return err
	}
	defaultName := result.ProjectName + "_pure_functions.zip"
	return writeOrPrint(c, data, defaultName)
}

func watchCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	root, name, err := resolveTarget(c, cfg)
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	asJSON := c.Bool("json")
	watcher := engine.NewWatcher(eng, root, name,
		func(result *types.ProjectAnalysisResult) {
			if asJSON {
				data, err := export.JSON(result)
				if err != nil {
					fmt.Fprintf(os.Stderr, "export error: %v\n", err)
					return
				}
				os.Stdout.Write(data)
				os.Stdout.Write([]byte{'\n'})
				return
			}
			fmt.Print(export.Report(result))
			fmt.Println("---")
		},
		func(err error) {
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		})

	fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", root)
	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func main() {
	if debug.IsDebugEnabled() {
		if path, err := debug.InitDebugLogFile(); err == nil {
			defer debug.CloseDebugLog()
			fmt.Fprintf(os.Stderr, "debug log: %s\n", path)
		}
	}

	app := &cli.App{
		Name:                   "webshift",
		Usage:                  "Classify desktop GUI Python code for web migration",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   ".webshift.kdl",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root to analyze (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (e.g., --include 'src/**/*.py')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/migrations/**')",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Aliases:   []string{"a"},
				Usage:     "Analyze a Python project or file",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Project name used in the report",
					},
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output full result as JSON",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output per-file summary as CSV",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Write output to file instead of stdout",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of parallel analysis workers",
					},
				},
				Action: analyzeCommand,
			},
			{
				Name:      "export",
				Usage:     "Export pure functions as a ZIP of migration stubs",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Project name used in the archive",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output path for the ZIP archive",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of parallel analysis workers",
					},
				},
				Action: exportCommand,
			},
			{
				Name:      "watch",
				Aliases:   []string{"w"},
				Usage:     "Re-run analysis when Python files change",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Project name used in the report",
					},
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output each result as JSON",
					},
				},
				Action: watchCommand,
			},
			{
				Name:  "version",
				Usage: "Print version details",
				Action: func(c *cli.Context) error {
					fmt.Println(version.FullInfo())
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
