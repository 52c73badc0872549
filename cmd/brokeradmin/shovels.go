package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/ottermq/brokeradmin/pkg/admin"
	"github.com/ottermq/brokeradmin/pkg/probe"
	"github.com/spf13/cobra"
)

func newShovelsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shovels",
		Short: "Create, list and delete queue shovels on the target broker",
	}
	cmd.AddCommand(
		newShovelsListCmd(c),
		newShovelsCreateCmd(c),
		newShovelsDeleteCmd(c),
	)
	return cmd
}

func newShovelsListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List shovels on the default vhost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.signalContext(cmd)
			defer cancel()

			shovels, res, err := c.target().ListShovels(ctx)
			if err != nil {
				return err
			}
			if !res.OK() {
				return fmt.Errorf("failed to list shovels: %s %s", res.Status, res.Text())
			}

			rows := make([]table.Row, 0, len(shovels))
			for _, s := range shovels {
				rows = append(rows, table.Row{s.Name, s.Type, s.State, s.Node})
			}
			return c.printer(cmd).Print(shovels, table.Row{"Name", "Type", "State", "Node"}, rows)
		},
	}
}

func newShovelsCreateCmd(c *cli) *cobra.Command {
	var queue string
	var includeEmpty, verify bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Shovel queues from the source broker into the target broker",
		Long: `Creates one dynamic shovel per queue on the target broker. Each shovel
pulls the queue from the source broker into the queue of the same name on the
target broker. Without --queue every source queue holding messages is
shovelled (all queues with --include-empty).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.signalContext(cmd)
			defer cancel()

			src, err := c.source()
			if err != nil {
				return err
			}
			dst := c.target()

			if verify {
				if err := c.verifyAMQP(ctx); err != nil {
					return err
				}
			}

			ports := []admin.ShovelOpt{
				admin.WithSourcePort(c.cfg.SourceAMQPPort),
				admin.WithDestPort(c.cfg.AMQPPort),
			}

			var responses []*admin.Response
			if queue != "" {
				res, err := dst.CreateQueueShovel(ctx, queue, src.Host(), dst.Host(), ports...)
				if err != nil {
					return err
				}
				responses = append(responses, res)
			} else {
				responses, err = dst.CreateShovels(ctx, src, !includeEmpty, ports...)
				if err != nil {
					return err
				}
			}

			failed, err := printResults(c.printer(cmd), responses)
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d shovels could not be created", failed, len(responses))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&queue, "queue", "q", "", "shovel only this queue")
	cmd.Flags().BoolVar(&includeEmpty, "include-empty", false, "also shovel queues without messages")
	cmd.Flags().BoolVar(&verify, "verify", false, "check both brokers accept AMQP connections first")
	return cmd
}

func newShovelsDeleteCmd(c *cli) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "delete [NAME]",
		Short: "Delete one shovel, or all of them with --all",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("either a shovel name or --all, not both")
			}
			if !all && len(args) != 1 {
				return fmt.Errorf("a shovel name is required (or --all)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.signalContext(cmd)
			defer cancel()

			client := c.target()
			var responses []*admin.Response
			if all {
				shovels, res, err := client.ListShovels(ctx)
				if err != nil {
					return err
				}
				if !res.OK() {
					return fmt.Errorf("failed to list shovels: %s %s", res.Status, res.Text())
				}
				for _, s := range shovels {
					r, err := client.DeleteShovel(ctx, s.Name)
					if err != nil {
						return err
					}
					responses = append(responses, r)
				}
			} else {
				res, err := client.DeleteShovel(ctx, args[0])
				if err != nil {
					return err
				}
				responses = append(responses, res)
			}

			failed, err := printResults(c.printer(cmd), responses)
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d shovels could not be deleted", failed, len(responses))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "delete every shovel on the default vhost")
	return cmd
}

// verifyAMQP dials the AMQP listener of both brokers.
func (c *cli) verifyAMQP(ctx context.Context) error {
	endpoints := map[string]string{
		"target": probe.URI(c.cfg.Username, c.cfg.Password, c.cfg.Host, c.cfg.AMQPPort),
	}
	if c.cfg.HasSource() {
		endpoints["source"] = probe.URI(c.cfg.SourceUsername, c.cfg.SourcePassword, c.cfg.SourceHost, c.cfg.SourceAMQPPort)
	}
	for _, role := range []string{"source", "target"} {
		uri, ok := endpoints[role]
		if !ok {
			continue
		}
		if err := probe.Check(ctx, uri, c.cfg.Timeout); err != nil {
			return fmt.Errorf("%s broker is not reachable over AMQP: %w", role, err)
		}
	}
	return nil
}
