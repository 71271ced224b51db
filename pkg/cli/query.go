package cli

import (
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gatedb/gatedb/pkg/gatedb"
	"github.com/gatedb/gatedb/pkg/policy"
)

func newQueryCmd() *cobra.Command {
	var (
		dbPath     string
		policyPath string
		deferred   bool
		params     []string
	)
	cmd := &cobra.Command{
		Use:   "query [flags] SQL",
		Short: "Prepare and execute one statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := gatedb.Open(
				gatedb.Config{Mode: gatedb.ModeLocal, Path: dbPath},
				gatedb.WithLogger(slog.Default()),
			)
			if err != nil {
				return err
			}
			defer conn.Close()

			if policyPath != "" {
				p, err := policy.LoadFile(policyPath)
				if err != nil {
					return err
				}
				if err := conn.AttachPolicy(p); err != nil {
					return err
				}
			}

			stmt, err := conn.Prepare(args[0])
			if err != nil {
				return err
			}
			defer stmt.Close()

			bound := make([]any, len(params))
			for i, p := range params {
				bound[i] = p
			}

			var outcome *gatedb.Outcome
			if deferred {
				outcome, err = stmt.RunDeferred(bound...).Wait()
			} else {
				outcome, err = stmt.Run(bound...)
			}
			if err != nil {
				return err
			}
			return printOutcome(cmd, outcome)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database file path (required)")
	cmd.Flags().StringVar(&policyPath, "policy", "", "YAML policy file to attach")
	cmd.Flags().BoolVar(&deferred, "deferred", false, "run through the deferred execution path")
	cmd.Flags().StringArrayVar(&params, "param", nil, "positional statement parameter (repeatable)")
	cmd.MarkFlagRequired("db")
	return cmd
}

func printOutcome(cmd *cobra.Command, outcome *gatedb.Outcome) error {
	if len(outcome.Columns) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "rows affected: %d", outcome.RowsAffected)
		if outcome.LastInsertID != 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", last insert id: %d", outcome.LastInsertID)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(outcome.Columns, "\t"))
	for _, row := range outcome.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = "NULL"
			} else if b, ok := v.([]byte); ok {
				cells[i] = string(b)
			} else {
				cells[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}
