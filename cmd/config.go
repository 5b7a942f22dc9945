package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fastcat.org/go/excise/config"
)

func configCmd(s *settings) *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "inspect the configuration",
		// just a parent for other commands
	}
	cfg.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "print the effective configuration, after flags, as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return config.Write(cmd.OutOrStdout(), s.cfg)
		},
	})
	cfg.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := s.configPath
			if p == "" {
				p = config.DefaultPath()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), p)
			return err
		},
	})
	return cfg
}
