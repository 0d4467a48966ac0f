package main

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the site into the dist directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSite(0)
		if err != nil {
			return err
		}
		defer s.Close()

		b, err := s.builder()
		if err != nil {
			return err
		}
		_, err = b.Build(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
