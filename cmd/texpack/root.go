package main

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"texpack/internal/version"
	"texpack/pkg/cobrax/topics"
	"texpack/pkg/logging"
)

//go:embed docs
var docsFS embed.FS

var (
	verbosity  int
	configPath string
)

// NewRootCmd builds the texpack command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "texpack",
		Short: "Batch channel packer for texture sets",
		Long: `texpack scans a folder of source textures (roughness, metalness,
ambient occlusion, ...), groups them into sets by base name and packs
each set's channels into combined output maps according to the modes in
your texpack.toml.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to texpack.toml (default: <input folder>/texpack.toml, then ./texpack.toml)")

	rootCmd.AddCommand(newPackCmd())
	rootCmd.AddCommand(newGenconfigCmd())
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(manCmd)

	docs, err := fs.Sub(docsFS, "docs")
	if err == nil {
		err = topics.Initialize(rootCmd, docs, topics.Options{
			Renderer: topics.NewGlamourRenderer(),
		})
	}
	if err != nil {
		log.Warn().Err(err).Msg("help topics unavailable")
	}

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for texpack`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("texpack version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(texpack completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ texpack completion bash > /etc/bash_completion.d/texpack
  # macOS:
  $ texpack completion bash > /usr/local/etc/bash_completion.d/texpack

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ texpack completion zsh > "${fpath[1]}/_texpack"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ texpack completion fish | source
  # To load completions for each session, execute once:
  $ texpack completion fish > ~/.config/fish/completions/texpack.fish

PowerShell:
  PS> texpack completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> texpack completion powershell > texpack.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}

var manCmd = &cobra.Command{
	Use:   "man",
	Short: "Generate man page",
	Long:  `Generate man page for texpack`,
	RunE: func(cmd *cobra.Command, args []string) error {
		header := &doc.GenManHeader{
			Title:   "TEXPACK",
			Section: "1",
		}
		return doc.GenManTree(cmd.Root(), header, "/tmp")
	},
}
