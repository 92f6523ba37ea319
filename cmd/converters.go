package cmd

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/grovetools/tapview/tui/components/table"
	"github.com/grovetools/tapview/tui/theme"
	"github.com/spf13/cobra"
)

func newConvertersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "converters",
		Short: "List converters and their worker processes",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := s.store.UpdateConverters(cmd.Context()); err != nil {
				return err
			}
			converters := s.store.Converters()

			return s.render(converters, func() string {
				rows := make([][]string, 0, len(converters))
				for _, c := range converters {
					errs := strconv.FormatUint(c.TotalErrors(), 10)
					if c.TotalErrors() > 0 {
						errs = theme.RenderStatus("error", errs)
					}
					rows = append(rows, []string{
						c.Name,
						humanize.Comma(int64(c.CachedStreamCount)),
						strconv.Itoa(c.RunningProcesses()) + "/" + strconv.Itoa(len(c.Processes)),
						errs,
					})
				}
				return table.NewBuilder().
					WithHeaders("NAME", "CACHED STREAMS", "RUNNING", "ERRORS").
					WithRows(rows...).
					WithNumericColumns(1, 2, 3).
					WithEmptyMessage("No converters configured").
					Render()
			})
		}),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reset NAME",
		Short: "Reset a converter, dropping its cached results",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := s.store.ResetConverter(cmd.Context(), args[0]); err != nil {
				return err
			}
			s.done("Reset converter %s", args[0])
			return nil
		}),
	})

	return cmd
}
