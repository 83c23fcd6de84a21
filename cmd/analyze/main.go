// Command analyze runs the fixed Arrange3DDefinition analysis once and
// prints the report, without starting the server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/fusiondocs/internal"
	pkgconfig "github.com/starford/fusiondocs/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	svc, err := internal.NewService(cfg, logger, nil)
	if err != nil {
		return err
	}

	fmt.Println(svc.AnalyzeArrange3D(ctx))
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "analyze",
		Usage:  "Print the Arrange3DDefinition documentation analysis",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("analyze error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
