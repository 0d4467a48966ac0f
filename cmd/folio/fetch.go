package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/manifest"
)

var fetchOutput string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch GitHub projects and print them as JSON",
	Long: `Fetch lists the configured user's GitHub repositories, applies the
configured filters and prints the resulting project entries. With --output
the list is written to a file instead, e.g. to seed src/projects/projects.json.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSite(0)
		if err != nil {
			return err
		}
		defer s.Close()
		if s.source == nil {
			return errors.New("github.username is not configured")
		}

		projects := s.source.Projects(cmd.Context())
		if fetchOutput != "" {
			if err := manifest.Write(fetchOutput, projects); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d projects to %s\n", len(projects), fetchOutput)
			return nil
		}
		data, err := manifest.Encode(projects)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "write the project list to this file")
	rootCmd.AddCommand(fetchCmd)
}
