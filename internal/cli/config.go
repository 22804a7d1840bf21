package cli

import (
	"fmt"

	"github.com/danmuck/bitstream/internal/config"
	"github.com/spf13/cobra"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate and validate bitctl config files",
	}

	var output string
	var force bool
	template := &cobra.Command{
		Use:   "template",
		Short: "Print the default config, or write it with --write",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				body, err := config.Template()
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			if err := config.WriteTemplate(output, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote config template to %s\n", output)
			return nil
		},
	}
	template.Flags().StringVar(&output, "write", "", "output path for the config template")
	template.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.AddCommand(template)

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <path>",
		Short: "Load and validate a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			return a.print(cmd, cfg)
		},
	})
	return cmd
}
