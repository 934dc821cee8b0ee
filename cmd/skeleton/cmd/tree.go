package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tormodhaugland/skeleton/internal/config"
	"github.com/tormodhaugland/skeleton/internal/filetree"
	"github.com/tormodhaugland/skeleton/internal/skeleton"
)

func treeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the tree a project would be created with",
		Long: heredoc.Doc(`
			Builds the merged tree for the selected variant and presets
			and prints it without writing anything.
		`),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			lg, closer, err := newLogger(v, cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			variant := cfg.Variant
			if variant == "" {
				variant = config.VariantTS
			}

			creator := skeleton.New(afero.NewOsFs(), nil, lg)
			tree, err := creator.Plan(skeleton.Options{
				SourceDir: cfg.SourceDir,
				Variant:   variant,
				Presets:   cfg.Presets,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, filetree.Render(tree, nil,
				filetree.WithHeader("skeleton-"+variant),
				filetree.WithRenderer(lipgloss.NewRenderer(out)),
			))
			return nil
		},
	}
}
