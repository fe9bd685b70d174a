package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"texpack/pkg/config"
	"texpack/pkg/engine"
	"texpack/pkg/filesystem"
	"texpack/pkg/logging"
	"texpack/pkg/ui/output"
	"texpack/pkg/writer"
)

func newPackCmd() *cobra.Command {
	var (
		formatFlag  string
		showDetails bool
	)

	cmd := &cobra.Command{
		Use:   "pack [folder]",
		Short: "Pack texture sets into combined channel maps",
		Long: `Pack scans the given folder (default: input_folder from the config,
then the current directory), groups textures into sets and writes one
packed map per set and mode. Outputs land in the dest folder next to
the sources; used sources are backed up or deleted per configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.pack")

			var root string
			if len(args) == 1 {
				root = args[0]
			}
			cfg, err := config.Load(configPath, root)
			if err != nil {
				return err
			}
			if root == "" {
				root = cfg.InputFolder
			}
			if root == "" {
				root = "."
			}
			if _, err := os.Stat(root); err != nil {
				return fmt.Errorf("input folder %s: %w", root, err)
			}
			if len(cfg.ActiveModes()) == 0 {
				return fmt.Errorf("no packing modes configured; run 'texpack genconfig' in %s and edit the [[modes]] section", root)
			}

			logger.Info().Str("folder", root).Str("config", cfg.Describe()).Msg("Starting pack")

			fsys := filesystem.NewOS()
			eng := engine.New(fsys, cfg, writer.New(fsys, cfg, root))
			report, err := eng.Run(root)
			if err != nil {
				return err
			}

			format, err := output.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			if format == output.FormatAuto {
				format = output.DetectFormat(os.Stdout)
			}
			printer := output.NewPrinter(cmd.OutOrStdout(), format, showDetails || cfg.ShowDetails)
			if err := printer.Report(report); err != nil {
				return err
			}

			if _, _, failed := report.Tally(); failed > 0 {
				return fmt.Errorf("%d combination(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "auto", "Output format: auto, term, text, json")
	cmd.Flags().BoolVar(&showDetails, "details", false, "Also list skipped sets and modes")
	return cmd
}
