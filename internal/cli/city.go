package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/vecfixture/fixture"
)

func newCityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "city",
		Short: "Print random city names",
		Long: `Print city names drawn uniformly from the fixed list of 50 cities.

Examples:
  vecfixture city                    # One city
  vecfixture city --count 5          # Five cities, one per line
  vecfixture city --list             # The full list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list, _ := cmd.Flags().GetBool("list"); list {
				for _, c := range fixture.Cities() {
					a.printer.Print("%s", c)
				}
				return nil
			}
			count, _ := cmd.Flags().GetInt("count")
			if count < 0 {
				return fmt.Errorf("%w: count %d is negative", fixture.ErrInvalidArgument, count)
			}
			for range count {
				a.printer.Print("%s", a.gen.RandomCity())
			}
			return nil
		},
	}
	cmd.Flags().IntP("count", "n", 1, "number of cities to print")
	cmd.Flags().Bool("list", false, "print every city in list order")
	return cmd
}
