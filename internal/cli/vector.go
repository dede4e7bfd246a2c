package cli

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/viant/vecfixture/fixture"
)

func newVectorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vector N",
		Short: "Print N uniform random values in [0,1)",
		Long: `Print N independent uniform draws in [0,1), one per line.

Examples:
  vecfixture vector 4                # Four values
  vecfixture vector 4 --json         # As a JSON array
  vecfixture --seed 42 vector 4      # Reproducible values`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := fixture.ParseLength(args[0])
			if err != nil {
				return err
			}
			values, err := a.gen.RandomVector(n)
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(values)
			}
			for _, v := range values {
				a.printer.Print("%s", strconv.FormatFloat(v, 'f', -1, 64))
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "output as a JSON array")
	return cmd
}
