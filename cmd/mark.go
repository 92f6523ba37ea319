package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grovetools/tapview/errors"
	"github.com/grovetools/tapview/pkg/models"
	"github.com/spf13/cobra"
)

func newMarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Manage marks, tags defined by an explicit set of streams",
		Long:  "Manage marks, tags defined by an explicit set of streams. Names without a category prefix are treated as mark/NAME.",
	}

	cmd.AddCommand(newMarkNewCmd())
	cmd.AddCommand(newMarkAddCmd())
	cmd.AddCommand(newMarkDelCmd())

	return cmd
}

func newMarkNewCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:     "new NAME STREAM_ID...",
		Short:   "Create a mark containing the given streams",
		Example: "  tapctl mark new suspicious 12 17 --color '#ff0000'",
		Args:    cobra.MinimumNArgs(2),
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := validateColor(color); err != nil {
				return err
			}
			streams, err := parseStreamIDs(args[1:])
			if err != nil {
				return err
			}
			name := models.CategoryMark.Qualify(args[0])
			if err := s.store.MarkTagNew(cmd.Context(), name, streams, color); err != nil {
				return err
			}
			s.done("Created %s with %s", name, pluralStreams(len(streams)))
			return nil
		}),
	}
	cmd.Flags().StringVar(&color, "color", DefaultTagColor, "Mark color as #rrggbb")
	return cmd
}

func newMarkAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME STREAM_ID...",
		Short: "Add streams to a mark",
		Args:  cobra.MinimumNArgs(2),
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			streams, err := parseStreamIDs(args[1:])
			if err != nil {
				return err
			}
			name := models.CategoryMark.Qualify(args[0])
			if err := s.store.MarkTagAdd(cmd.Context(), name, streams); err != nil {
				return err
			}
			s.done("Added %s to %s", pluralStreams(len(streams)), name)
			return nil
		}),
	}
}

func newMarkDelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "del NAME STREAM_ID...",
		Short: "Remove streams from a mark",
		Args:  cobra.MinimumNArgs(2),
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			streams, err := parseStreamIDs(args[1:])
			if err != nil {
				return err
			}
			name := models.CategoryMark.Qualify(args[0])
			if err := s.store.MarkTagDel(cmd.Context(), name, streams); err != nil {
				return err
			}
			s.done("Removed %s from %s", pluralStreams(len(streams)), name)
			return nil
		}),
	}
}

// parseStreamIDs accepts ids as separate arguments or comma separated.
func parseStreamIDs(args []string) ([]uint64, error) {
	var ids []uint64
	for _, arg := range args {
		for _, raw := range strings.Split(arg, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return nil, errors.InvalidStreamID(raw, err)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, errors.InvalidInput("streams", "at least one stream id is required")
	}
	return ids, nil
}

func pluralStreams(n int) string {
	if n == 1 {
		return "1 stream"
	}
	return fmt.Sprintf("%d streams", n)
}
