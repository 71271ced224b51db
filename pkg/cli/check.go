package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gatedb/gatedb/pkg/policy"
)

func newCheckCmd() *cobra.Command {
	var policyPath string
	var column string
	cmd := &cobra.Command{
		Use:   "check [flags] TABLE ACTION",
		Short: "Evaluate a policy file against one table access",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := policy.LoadFile(policyPath)
			if err != nil {
				return err
			}
			action, err := policy.ParseAction(args[1])
			if err != nil {
				return err
			}
			effect := p.Evaluate(args[0], action, column)
			fmt.Fprintln(cmd.OutOrStdout(), effect.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&policyPath, "policy", "", "YAML policy file (required)")
	cmd.Flags().StringVar(&column, "column", "", "column name for column-level checks")
	cmd.MarkFlagRequired("policy")
	return cmd
}
