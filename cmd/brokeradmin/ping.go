package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/ottermq/brokeradmin/internal/core/models"
	"github.com/spf13/cobra"
)

func newPingCmd(c *cli) *cobra.Command {
	var amqp bool

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the management API (and optionally AMQP) answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.signalContext(cmd)
			defer cancel()

			client := c.target()
			res, err := client.Overview(ctx)
			if err != nil {
				return err
			}
			result, _ := resultOf(res)
			result.Target = client.BaseURL()
			results := []models.OperationResult{result}

			var pingErr error
			if !res.OK() {
				pingErr = fmt.Errorf("management API answered %s", res.Status)
			}
			if amqp && pingErr == nil {
				if err := c.verifyAMQP(ctx); err != nil {
					pingErr = err
				}
			}

			rows := []table.Row{{result.Target, result.Status, result.OK, result.Detail}}
			if err := c.printer(cmd).Print(results, table.Row{"Target", "Status", "OK", "Detail"}, rows); err != nil {
				return err
			}
			return pingErr
		},
	}

	cmd.Flags().BoolVar(&amqp, "amqp", false, "also open an AMQP connection to each configured broker")
	return cmd
}
