package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/taxonomy"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <learning outcome>",
	Short: "Classify a learning outcome against a taxonomy",
	Long: `Classify a learning-outcome statement by its action verb and recommend
assessment types for the matched level.

Example:
  latintutor classify "Students will be able to translate simple sentences"
  latintutor classify --taxonomy finks "Reflect on how Latin shaped English"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("taxonomy")
		tax, err := taxonomy.ParseName(name)
		if err != nil {
			return err
		}

		c := taxonomy.Classify(strings.Join(args, " "), tax)
		out := cmd.OutOrStdout()
		verb := c.ActionVerb
		if verb == "" {
			verb = "(none)"
		}
		fmt.Fprintf(out, "Taxonomy:    %s\n", c.Taxonomy)
		fmt.Fprintf(out, "Action verb: %s\n", verb)
		fmt.Fprintf(out, "Level:       %s\n", c.Level)
		fmt.Fprintf(out, "Category:    %s\n", c.Category)
		fmt.Fprintf(out, "Confidence:  %.0f%%\n", c.Confidence*100)
		fmt.Fprintln(out, "Assessments:")
		for _, r := range c.Recommended {
			fmt.Fprintf(out, "  %-10s %3.0f%%\n", r.Type, r.Weight*100)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, c.Summary)
		return nil
	},
}

func init() {
	classifyCmd.Flags().String("taxonomy", string(taxonomy.Blooms), "Taxonomy to classify against (blooms or finks)")
}
