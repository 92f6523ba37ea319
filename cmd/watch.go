package cmd

import (
	"io"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/grovetools/tapview/errors"
	"github.com/grovetools/tapview/logging"
	"github.com/grovetools/tapview/pkg/profiling"
	"github.com/grovetools/tapview/pkg/store"
	"github.com/grovetools/tapview/tui/components/table"
	"github.com/grovetools/tapview/tui/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		interval time.Duration
		color    string
	)

	cmd := &cobra.Command{
		Use:   "watch [QUERY]",
		Short: "Live view of backend statistics and the streams matching a query",
		Long: `Live view of backend statistics and the streams matching a query.

The view refreshes every --interval. Select streams with space and add them
to a mark with m or remove them with u. Press ? for all keys.`,
		Example: "  tapctl watch 'tag:http' --interval 2s",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer profiling.Start(cmd.CommandPath()).Stop()

			if interval <= 0 {
				return errors.InvalidInput("interval", "must be positive")
			}
			if err := validateColor(color); err != nil {
				return err
			}

			page := store.NewStreamsStore()
			s, err := newSession(cmd, store.WithMarkers(page))
			if err != nil {
				return err
			}
			defer s.Close()
			if s.jsonOutput() {
				return errors.InvalidInput("json", "watch is interactive and has no JSON output")
			}

			var query string
			if len(args) == 1 {
				query = args[0]
			}

			// Log lines would tear the full-screen view
			restore := logging.RedirectOutput(io.Discard)
			defer restore()

			model := watch.New(watch.Config{
				Root:      s.store,
				Streams:   page,
				Query:     query,
				Interval:  interval,
				MarkColor: color,
				Context:   cmd.Context(),
			})
			defer model.Close()

			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", watch.DefaultInterval, "Time between refreshes")
	cmd.Flags().StringVar(&color, "color", DefaultTagColor, "Color of marks created from the view")
	return cmd
}

func newStreamsCmd() *cobra.Command {
	var page uint

	cmd := &cobra.Command{
		Use:   "streams [QUERY]",
		Short: "List the streams matching a query",
		Example: `  tapctl streams 'tag:http port:8080'
  tapctl streams --page 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			}
			results := store.NewStreamsStore()
			if err := s.store.SearchStreams(cmd.Context(), query, page, results); err != nil {
				return err
			}
			res := results.Result()

			return s.render(res, func() string {
				rows := make([][]string, 0, len(res.Results))
				for _, r := range res.Results {
					rows = append(rows, []string{
						strconv.FormatUint(r.Stream.ID, 10),
						r.Stream.Protocol,
						r.Stream.Client.Host + ":" + strconv.Itoa(int(r.Stream.Client.Port)),
						r.Stream.Server.Host + ":" + strconv.Itoa(int(r.Stream.Server.Port)),
						humanize.Bytes(r.Stream.Client.Bytes + r.Stream.Server.Bytes),
						strings.Join(r.Tags, ","),
					})
				}
				out := table.NewBuilder().
					WithHeaders("ID", "PROTO", "CLIENT", "SERVER", "BYTES", "TAGS").
					WithRows(rows...).
					WithNumericColumns(0, 4).
					WithEmptyMessage("No streams match").
					WithWidth(table.TerminalWidth(outFile(cmd))).
					Render()
				if res.MoreResults {
					out += "\nMore results on page " + strconv.FormatUint(uint64(page+1), 10)
				}
				return out
			})
		}),
	}

	cmd.Flags().UintVar(&page, "page", 0, "Result page to show, starting at 0")
	return cmd
}
