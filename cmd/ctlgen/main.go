// Package main provides the CLI entry point for ctlgen.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/ctlgen-go/internal/config"
	"github.com/ukaji3/ctlgen-go/internal/logging"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/output"
)

var (
	dataPath     string
	templatePath string
	configPath   string
	outDir       string
	separator    string
	workers      int
	backup       bool
	verbose      bool

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ctlgen",
		Short: "Generate control-system exports from configuration workbooks",
		Long: `ctlgen imports alarm, shutdown, I/O and timer tables from a configuration
workbook and renders them through the sheets of a template workbook into
flat text exports.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "ctlgen.yaml", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Render every template sheet into output files",
		Args:  cobra.NoArgs,
		RunE:  runConvert,
	}
	addInputFlags(convertCmd)
	convertCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from config)")
	convertCmd.Flags().StringVar(&separator, "separator", "", "Token separator (default from config)")
	convertCmd.Flags().IntVar(&workers, "workers", 0, "Sheets rendered concurrently (default from config)")
	convertCmd.Flags().BoolVar(&backup, "backup", false, "Back up existing output files before overwriting")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Import tables and parse templates without writing output",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
	addInputFlags(checkCmd)

	rootCmd.AddCommand(convertCmd, checkCmd)
	return rootCmd
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "Configuration data workbook (.xlsx)")
	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Template workbook (.xlsx)")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("template")
}

// setup loads the configuration, applies command line overrides and builds
// the run logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("separator") {
		cfg.Separator = separator
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("backup") {
		cfg.Output.Backup = backup
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	logger = logger.With(
		zap.String("run", uuid.NewString()),
		zap.String("command", cmd.Name()))

	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	res, err := ctlgen.Convert(cmd.Context(), dataPath, templatePath, cfg.ConversionOptions(logger))
	if res == nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	var result *multierror.Error
	if err != nil {
		result = multierror.Append(result, err)
	}

	w := &output.Writer{
		Dir:       cfg.Output.Dir,
		Extension: cfg.Output.Extension,
		Backup:    cfg.Output.Backup,
		Logger:    logger,
	}
	paths, err := w.Write(res.Outputs)
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("failed to write output: %w", err))
	}

	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}

	if err := result.ErrorOrNil(); err != nil {
		logger.Error("conversion finished with errors", zap.Error(err))
		return err
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	res, err := ctlgen.Check(dataPath, templatePath, cfg.ConversionOptions(logger))
	if res == nil {
		return fmt.Errorf("check failed: %w", err)
	}

	out := cmd.OutOrStdout()

	names := make([]string, 0, len(res.Tables))
	for name := range res.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "table %-18s %d rows\n", name, res.Tables[name])
	}
	for _, s := range res.Templates {
		status := "ok"
		if s.Ignore {
			status = "ignored"
		}
		fmt.Fprintf(out, "template %q -> %s (%s)\n", s.Name, outputName(s.Name, s.OutputName), status)
	}

	if err != nil {
		logger.Error("check found problems", zap.Error(err))
		return err
	}
	return nil
}

func outputName(sheet, name string) string {
	if name == "" {
		return sheet
	}
	return name
}
