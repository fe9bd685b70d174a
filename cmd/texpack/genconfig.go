package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"texpack/pkg/config"
)

func newGenconfigCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "genconfig [folder]",
		Short: "Write a starter texpack.toml",
		Long: `Genconfig writes a commented texpack.toml into the given folder
(default: current directory). All defaults are listed commented out, so
the file documents every knob without changing any behavior until
edited.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			target := filepath.Join(dir, config.ConfigFileName)

			if !force {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", target)
				}
			}

			content, err := config.GenerateConfigContent()
			if err != nil {
				return err
			}
			if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
