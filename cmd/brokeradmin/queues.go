package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/ottermq/brokeradmin/internal/core/models"
	"github.com/ottermq/brokeradmin/pkg/admin"
	"github.com/spf13/cobra"
)

func newQueuesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queues",
		Short: "Inspect queues",
	}

	var excludeEmpty, fromSource bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List queues of the target (or source) broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.signalContext(cmd)
			defer cancel()

			var client *admin.Client
			if fromSource {
				src, err := c.source()
				if err != nil {
					return err
				}
				client = src
			} else {
				client = c.target()
			}

			queues, err := client.ListQueues(ctx)
			if err != nil {
				return err
			}

			shown := make([]models.QueueDTO, 0, len(queues))
			rows := make([]table.Row, 0, len(queues))
			for _, q := range queues {
				if excludeEmpty && !q.HasMessages() {
					continue
				}
				shown = append(shown, q)
				rows = append(rows, table.Row{q.Name, q.MessageCount(), q.Consumers, q.State})
			}
			return c.printer(cmd).Print(shown, table.Row{"Name", "Messages", "Consumers", "State"}, rows)
		},
	}
	list.Flags().BoolVar(&excludeEmpty, "exclude-empty", false, "only show queues holding messages")
	list.Flags().BoolVar(&fromSource, "source", false, "list the source broker instead of the target")

	cmd.AddCommand(list)
	return cmd
}
