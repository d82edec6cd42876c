package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/colorguess/internal/color"
)

func newScoreCmd(a *app) *cobra.Command {
	var policyName string
	cmd := &cobra.Command{
		Use:   "score <guess> <reference>",
		Short: "Score one guess against a reference color",
		Long: `Score one guess against a reference color.

Both colors are hex (#rrggbb or #rgb). The result is in [0,1]; identical
colors score exactly 1.

Examples:
  colorguess score '#ff0000' '#ff0000'
  colorguess score --policy rgb '#ff0000' '#0000ff'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if policyName == "" {
				policyName = a.cfg.ScoringPolicy
			}
			p, err := color.ParsePolicy(policyName)
			if err != nil {
				return err
			}
			guess, err := color.ParseHex(args[0])
			if err != nil {
				return fmt.Errorf("guess: %w", err)
			}
			ref, err := color.ParseHex(args[1])
			if err != nil {
				return fmt.Errorf("reference: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.4f\n", color.Score(p, guess, ref))
			return nil
		},
	}
	cmd.Flags().StringVarP(&policyName, "policy", "p", "", "scoring policy (hsb, rgb); default SCORING_POLICY")
	return cmd
}
