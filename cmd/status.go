package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/grovetools/tapview/tui/components/table"
	"github.com/grovetools/tapview/tui/theme"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show index and job statistics of the backend",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := s.store.UpdateStatus(cmd.Context()); err != nil {
				return err
			}
			status := s.store.Status()

			return s.render(status, func() string {
				rows := [][]string{
					{"Streams", humanize.Comma(int64(status.StreamCount))},
					{"Packets", humanize.Comma(int64(status.PacketCount))},
					{"Pcaps", humanize.Comma(int64(status.PcapCount))},
					{"Indexes", fmt.Sprintf("%d (%d locked)", status.IndexCount, status.IndexLockCount)},
					{"Stream records", humanize.Comma(int64(status.StreamRecordCount))},
					{"Import jobs", strconv.Itoa(status.ImportJobCount)},
					{"Merge job", running(status.MergeJobRunning)},
					{"Tagging job", running(status.TaggingJobRunning)},
					{"Converter job", running(status.ConverterJobRunning)},
				}
				return table.NewBuilder().
					WithHeaders("STATISTIC", "VALUE").
					WithRows(rows...).
					WithMutedColumns(0).
					WithNumericColumns(1).
					Render()
			})
		}),
	}
}

func newPcapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pcaps",
		Short: "List imported capture files",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := s.store.UpdatePcaps(cmd.Context()); err != nil {
				return err
			}
			pcaps := s.store.Pcaps()

			return s.render(pcaps, func() string {
				rows := make([][]string, 0, len(pcaps))
				for _, p := range pcaps {
					rows = append(rows, []string{
						p.Filename,
						humanize.Bytes(p.Filesize),
						humanize.Comma(int64(p.PacketCount)),
						formatTime(p.PacketTimestampMin),
						formatTime(p.PacketTimestampMax),
						sinceOrDash(p.ParseTime),
					})
				}
				return table.NewBuilder().
					WithHeaders("FILE", "SIZE", "PACKETS", "FIRST PACKET", "LAST PACKET", "IMPORTED").
					WithRows(rows...).
					WithNumericColumns(1, 2).
					WithEmptyMessage("No pcaps imported").
					WithWidth(table.TerminalWidth(outFile(cmd))).
					Render()
			})
		}),
	}
}

func running(b bool) string {
	if b {
		return theme.RenderStatus("warning", "running")
	}
	return theme.DefaultTheme.Muted.Render("idle")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func sinceOrDash(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
