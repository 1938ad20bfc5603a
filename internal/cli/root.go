// Package cli wires the dbviz command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nacharyadev/db-schema-visualizer/internal/config"
	"github.com/nacharyadev/db-schema-visualizer/internal/diag"
	"github.com/nacharyadev/db-schema-visualizer/internal/dialect"
	"github.com/nacharyadev/db-schema-visualizer/internal/render"
	"github.com/nacharyadev/db-schema-visualizer/internal/replay"
)

const version = "0.1.0"

// defaultMermaidName is the file written next to the migrations when
// --output is not given.
const defaultMermaidName = "output_schema.mmd"

const imageTimeout = 30 * time.Second

// AppConfig holds the loaded configuration, set during PersistentPreRunE.
var AppConfig *config.Config //nolint:gochecknoglobals // standard Cobra pattern for shared config

// rootCmd is the base command for the dbviz CLI.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:     "dbviz [migrations-dir]",
	Version: version,
	Short:   "Reconstruct a database schema from versioned SQL migrations",
	Long: `dbviz replays Flyway-style versioned migration files in order using the
real PostgreSQL parser and reports the final schema state, either as a
plain-text summary or as a Mermaid entity-relationship diagram.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runRoot,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.PersistentFlags().String("config", "dbviz.yml", "path to configuration file")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")

	rootCmd.Flags().String("dialect", "", "SQL dialect of the migration files")
	rootCmd.Flags().String("format", "", "output format (text, mermaid)")
	rootCmd.Flags().String("output", "", "path for the generated diagram file")
	rootCmd.Flags().String("image", "", "also render the diagram to an image file via mermaid.ink")
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration with precedence: flag > env > file.
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	allowMissing := !cmd.Flags().Changed("config")

	cfg, err := config.Load(configPath, allowMissing)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	config.MergeEnv(cfg)
	mergeFlags(cmd, cfg)

	AppConfig = cfg

	return nil
}

// mergeFlags overrides config with explicitly-set CLI flags.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("dialect") {
		cfg.Dialect, _ = cmd.Flags().GetString("dialect")
	}

	if cmd.Flags().Changed("format") {
		cfg.Format, _ = cmd.Flags().GetString("format")
	}

	if cmd.Flags().Changed("output") {
		cfg.Output, _ = cmd.Flags().GetString("output")
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	dir := AppConfig.MigrationsDir
	if len(args) > 0 {
		dir = args[0]
	}

	if !config.ValidFormat(AppConfig.Format) {
		return fmt.Errorf("unknown output format %q (expected %s or %s)",
			AppConfig.Format, config.FormatText, config.FormatMermaid)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("migrations directory %s: %w", dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("migrations path %s is not a directory", dir)
	}

	rep := diag.New(cmd.ErrOrStderr(), AppConfig.Verbose)

	d, known := dialect.Normalize(AppConfig.Dialect)
	if !known {
		rep.Warnf("unknown dialect %q, falling back to %s (supported: %s)",
			AppConfig.Dialect, d, strings.Join(dialect.Supported(), ", "))
	}

	engine := replay.New(replay.WithDialect(d), replay.WithReporter(rep))

	model, err := engine.RunDir(dir)
	if err != nil {
		return err
	}

	// The text report always goes to stdout so the run is inspectable even
	// when a file is the primary output.
	report := render.Text(model)
	fmt.Fprintln(cmd.OutOrStdout(), report)

	if AppConfig.Format != config.FormatMermaid {
		if AppConfig.Output == "" {
			return nil
		}

		if err := os.WriteFile(AppConfig.Output, []byte(report+"\n"), 0o600); err != nil {
			return fmt.Errorf("writing report to %s: %w", AppConfig.Output, err)
		}

		return nil
	}

	markup := render.Mermaid(model, rep)

	outPath := AppConfig.Output
	if outPath == "" {
		outPath = filepath.Join(dir, defaultMermaidName)
	}

	if ext := strings.ToLower(filepath.Ext(outPath)); ext != ".mmd" && ext != ".md" {
		rep.Warnf("diagram file %s does not use a .mmd or .md extension; some viewers will not render it", outPath)
	}

	if err := os.WriteFile(outPath, []byte(markup), 0o600); err != nil {
		return fmt.Errorf("writing diagram to %s: %w", outPath, err)
	}

	rep.Infof("wrote Mermaid diagram to %s", outPath)

	if imagePath, _ := cmd.Flags().GetString("image"); imagePath != "" {
		renderImage(cmd.Context(), rep, markup, imagePath)
	}

	return nil
}

// renderImage asks mermaid.ink for a rendered image. The run already
// succeeded at this point, so a failed render only warns.
func renderImage(ctx context.Context, rep *diag.Reporter, markup, imagePath string) {
	ctx, cancel := context.WithTimeout(ctx, imageTimeout)
	defer cancel()

	client := render.NewInkClient()
	if err := client.RenderImage(ctx, markup, imagePath); err != nil {
		rep.Warnf("rendering diagram image: %v", err)

		return
	}

	rep.Infof("wrote diagram image to %s", imagePath)
}
