package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/ottermq/brokeradmin/internal/core/models"
	"github.com/ottermq/brokeradmin/pkg/admin"
	"github.com/ottermq/brokeradmin/pkg/persistence"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// autoSnapshot is the --snapshot value used when the flag is given bare.
const autoSnapshot = "auto"

func newDefinitionsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "definitions",
		Aliases: []string{"defs"},
		Short:   "Export, import and snapshot broker definitions",
	}
	cmd.AddCommand(
		newDefinitionsExportCmd(c),
		newDefinitionsImportCmd(c),
		newDefinitionsCopyCmd(c),
		newSnapshotsCmd(c),
	)
	return cmd
}

func newDefinitionsExportCmd(c *cli) *cobra.Command {
	var file, snapshot string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the target broker definitions to stdout, a file or a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.signalContext(cmd)
			defer cancel()

			client := c.target()
			defs, err := client.GetDefinitions(ctx)
			if err != nil {
				return err
			}
			if len(defs) == 0 {
				return fmt.Errorf("no definitions returned by %s", client)
			}

			switch {
			case snapshot != "":
				store, err := c.store()
				if err != nil {
					return err
				}
				defer store.Close()

				name := snapshot
				if name == autoSnapshot {
					name = persistence.NewSnapshotName(client.Host(), time.Now())
				}
				if err := store.SaveDefinitions(name, client.BaseURL(), defs); err != nil {
					return fmt.Errorf("failed to save snapshot %s: %w", name, err)
				}
				log.Info().Str("snapshot", name).Msg("Definitions saved")
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil

			case file != "":
				data, err := json.MarshalIndent(defs, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(file, data, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", file, err)
				}
				log.Info().Str("file", file).Msg("Definitions exported")
				return nil

			default:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(defs)
			}
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "write the definitions to this file")
	cmd.Flags().StringVarP(&snapshot, "snapshot", "s", "", "store the definitions as a named snapshot")
	cmd.Flags().Lookup("snapshot").NoOptDefVal = autoSnapshot
	cmd.MarkFlagsMutuallyExclusive("file", "snapshot")
	return cmd
}

func newDefinitionsImportCmd(c *cli) *cobra.Command {
	var file, snapshot string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import definitions into the target broker from a file or a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.signalContext(cmd)
			defer cancel()

			var defs models.Definitions
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file, err)
				}
				if defs, err = models.DecodeDefinitions(data); err != nil {
					return err
				}
			} else {
				store, err := c.store()
				if err != nil {
					return err
				}
				defer store.Close()
				if defs, err = store.LoadDefinitions(snapshot); err != nil {
					return fmt.Errorf("failed to load snapshot %s: %w", snapshot, err)
				}
			}

			res, err := c.target().SetDefinitions(ctx, defs)
			if err != nil {
				return err
			}
			return reportSingle(c, cmd, res, "import definitions")
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the definitions from this file")
	cmd.Flags().StringVarP(&snapshot, "snapshot", "s", "", "read the definitions from this snapshot")
	cmd.MarkFlagsMutuallyExclusive("file", "snapshot")
	cmd.MarkFlagsOneRequired("file", "snapshot")
	return cmd
}

func newDefinitionsCopyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "copy",
		Short: "Copy the source broker definitions into the target broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.signalContext(cmd)
			defer cancel()

			src, err := c.source()
			if err != nil {
				return err
			}
			fetched, err := src.ExportDefinitions(ctx)
			if err != nil {
				return err
			}
			if !fetched.OK() {
				return fmt.Errorf("failed to export definitions from %s: %s %s", src, fetched.Status, fetched.Text())
			}

			res, err := c.target().SetDefinitions(ctx, fetched)
			if err != nil {
				return err
			}
			return reportSingle(c, cmd, res, "copy definitions")
		},
	}
}

func newSnapshotsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List stored definitions snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.store()
			if err != nil {
				return err
			}
			defer store.Close()

			snapshots, err := store.ListSnapshots()
			if err != nil {
				return err
			}
			rows := make([]table.Row, 0, len(snapshots))
			for _, s := range snapshots {
				rows = append(rows, table.Row{s.Name, s.Broker, s.CreatedAt.Format(time.RFC3339), s.Size})
			}
			return c.printer(cmd).Print(snapshots, table.Row{"Name", "Broker", "Created", "Size"}, rows)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.store()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.DeleteSnapshot(args[0]); err != nil {
				return fmt.Errorf("failed to delete snapshot %s: %w", args[0], err)
			}
			log.Info().Str("snapshot", args[0]).Msg("Snapshot deleted")
			return nil
		},
	})
	return cmd
}

// reportSingle prints one response and turns a failed status into an error.
func reportSingle(c *cli, cmd *cobra.Command, res *admin.Response, action string) error {
	failed, err := printResults(c.printer(cmd), []*admin.Response{res})
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%s failed: %s", action, res.Status)
	}
	return nil
}
