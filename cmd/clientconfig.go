package cmd

import (
	"maps"
	"slices"
	"strconv"

	"github.com/grovetools/tapview/errors"
	"github.com/grovetools/tapview/pkg/models"
	"github.com/grovetools/tapview/tui/components/table"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the client configuration stored by the backend",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the client configuration",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := s.store.GetClientConfig(cmd.Context()); err != nil {
				return err
			}
			return renderClientConfig(s, s.store.ClientConfig())
		}),
	})

	var autoInsertLimit bool
	set := &cobra.Command{
		Use:   "set",
		Short: "Change the client configuration",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if !cmd.Flags().Changed("auto-insert-limit") {
				return errors.InvalidInput("flags", "nothing to set, pass --auto-insert-limit")
			}
			// Start from the stored value so unset fields are kept
			if err := s.store.GetClientConfig(cmd.Context()); err != nil {
				return err
			}
			cfg := models.ClientConfig{}
			if current := s.store.ClientConfig(); current != nil {
				cfg = *current
			}
			cfg.AutoInsertLimitToQuery = autoInsertLimit

			if err := s.store.AddClientConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			s.done("Updated client configuration")
			return renderClientConfig(s, s.store.ClientConfig())
		}),
	}
	set.Flags().BoolVar(&autoInsertLimit, "auto-insert-limit", false, "Insert a result limit into queries that have none")
	cmd.AddCommand(set)

	return cmd
}

func renderClientConfig(s *session, cfg *models.ClientConfig) error {
	return s.render(cfg, func() string {
		rows := [][]string{{"auto_insert_limit_to_query", strconv.FormatBool(cfg.AutoInsertLimitToQuery)}}
		// Settings tapctl does not manage are shown as raw JSON
		keys := slices.Sorted(maps.Keys(cfg.Extra))
		for _, k := range keys {
			rows = append(rows, []string{k, string(cfg.Extra[k])})
		}
		return table.NewBuilder().
			WithHeaders("SETTING", "VALUE").
			WithRows(rows...).
			WithMutedColumns(0).
			Render()
	})
}
