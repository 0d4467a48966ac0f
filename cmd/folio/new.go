package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new <dir>",
	Short: "Create a starter site in a new directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Creating new folio site: %s\n\n", dir)

		created, err := scaffold.Generate(dir, scaffold.NewData(dir, time.Now()))
		if err != nil {
			return err
		}
		for _, f := range created {
			fmt.Fprintf(out, "  created %s\n", f)
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Done! Next steps:")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  cd %s\n", dir)
		fmt.Fprintln(out, "  folio serve --watch")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Set github.username in folio.yaml to list your repositories.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
