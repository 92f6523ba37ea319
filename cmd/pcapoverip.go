package cmd

import (
	"github.com/dustin/go-humanize"
	"github.com/grovetools/tapview/tui/components/table"
	"github.com/grovetools/tapview/tui/theme"
	"github.com/spf13/cobra"
)

func newPcapOverIPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pcap-over-ip",
		Short: "Manage remote PCAP-over-IP capture sources",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List PCAP-over-IP endpoints",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := s.store.UpdatePcapOverIPEndpoints(cmd.Context()); err != nil {
				return err
			}
			endpoints := s.store.PcapOverIPEndpoints()

			return s.render(endpoints, func() string {
				rows := make([][]string, 0, len(endpoints))
				for _, e := range endpoints {
					state := theme.DefaultTheme.Muted.Render("disconnected")
					if e.Connected() {
						state = theme.RenderStatus("success", "connected")
					}
					rows = append(rows, []string{
						e.Address,
						state,
						humanize.Comma(int64(e.ReceivedPackets)),
						sinceOrDash(e.LastConnected),
					})
				}
				return table.NewBuilder().
					WithHeaders("ADDRESS", "STATE", "PACKETS", "LAST CONNECTED").
					WithRows(rows...).
					WithNumericColumns(2).
					WithEmptyMessage("No pcap-over-IP endpoints").
					Render()
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add ADDRESS",
		Short: "Add an endpoint (host:port)",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := s.store.AddPcapOverIPEndpoint(cmd.Context(), args[0]); err != nil {
				return err
			}
			s.done("Added %s", args[0])
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "del ADDRESS",
		Short: "Remove an endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := s.store.DelPcapOverIPEndpoint(cmd.Context(), args[0]); err != nil {
				return err
			}
			s.done("Removed %s", args[0])
			return nil
		}),
	})

	return cmd
}
