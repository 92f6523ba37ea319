package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/grovetools/tapview/errors"
	"github.com/grovetools/tapview/pkg/models"
	"github.com/grovetools/tapview/pkg/store"
	"github.com/grovetools/tapview/tui/components/table"
	"github.com/grovetools/tapview/tui/theme"
	"github.com/spf13/cobra"
)

// DefaultTagColor is used when a tag or mark is created without --color.
const DefaultTagColor = "#4a86e8"

func newTagsCmd() *cobra.Command {
	var grouped bool

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List and manage tags",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := s.store.UpdateTags(cmd.Context()); err != nil {
				return err
			}
			if grouped {
				groups := s.store.GroupedTags()
				return s.render(groups, func() string { return renderGroupedTags(cmd, groups) })
			}
			tags := s.store.Tags()
			return s.render(tags, func() string { return renderTags(cmd, tags) })
		}),
	}
	cmd.Flags().BoolVar(&grouped, "grouped", false, "Group tags by category (tag, service, mark, generated)")

	cmd.AddCommand(newTagsAddCmd())
	cmd.AddCommand(newTagsDelCmd())
	cmd.AddCommand(newTagsColorCmd())
	cmd.AddCommand(newTagsQueryCmd())
	cmd.AddCommand(newTagsRenameCmd())
	cmd.AddCommand(newTagsConvertersCmd())

	return cmd
}

func newTagsAddCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add NAME QUERY",
		Short: "Create a tag from a query",
		Long:  "Create a tag from a query. Names without a category prefix are created as tag/NAME.",
		Example: `  # tag every HTTP stream to port 8080
  tapctl tags add web 'port:8080 cdata:"HTTP/1.1"' --color '#00aa00'`,
		Args: cobra.ExactArgs(2),
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := validateColor(color); err != nil {
				return err
			}
			name := models.CategoryTag.Qualify(args[0])
			if err := s.store.AddTag(cmd.Context(), name, args[1], color); err != nil {
				return err
			}
			s.done("Created %s", name)
			return nil
		}),
	}
	cmd.Flags().StringVar(&color, "color", DefaultTagColor, "Tag color as #rrggbb")
	return cmd
}

func newTagsDelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "del NAME",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := s.store.DelTag(cmd.Context(), args[0]); err != nil {
				return err
			}
			s.done("Deleted %s", args[0])
			return nil
		}),
	}
}

func newTagsColorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color NAME COLOR",
		Short: "Change the color of a tag",
		Args:  cobra.ExactArgs(2),
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := validateColor(args[1]); err != nil {
				return err
			}
			if err := s.store.ChangeTagColor(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			s.done("Changed color of %s to %s", args[0], theme.Swatch(args[1]))
			return nil
		}),
	}
}

func newTagsQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query NAME QUERY",
		Short: "Change the query defining a tag",
		Args:  cobra.ExactArgs(2),
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := s.store.ChangeTagDefinition(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			s.done("Changed query of %s", args[0])
			return nil
		}),
	}
}

func newTagsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename NAME NEW_NAME",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			if err := s.store.ChangeTagName(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			s.done("Renamed %s to %s", args[0], args[1])
			return nil
		}),
	}
}

func newTagsConvertersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "converters NAME [CONVERTER...]",
		Short: "Set the converters attached to a tag",
		Long:  "Set the converters attached to a tag. Passing no converter detaches all of them.",
		Args:  cobra.MinimumNArgs(1),
		RunE: runE(func(cmd *cobra.Command, s *session, args []string) error {
			converters := args[1:]
			if err := s.store.SetTagConverters(cmd.Context(), args[0], converters); err != nil {
				return err
			}
			if len(converters) == 0 {
				s.done("Detached all converters from %s", args[0])
			} else {
				s.done("Attached %s to %s", strings.Join(converters, ", "), args[0])
			}
			return nil
		}),
	}
}

func tagRows(tags []models.TagInfo) [][]string {
	rows := make([][]string, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, []string{
			t.Name,
			t.Definition,
			theme.Swatch(t.Color),
			humanize.Comma(int64(t.MatchingCount)),
			strconv.FormatUint(uint64(t.UncertainCount), 10),
			strings.Join(t.Converters, ","),
		})
	}
	return rows
}

var tagHeaders = []string{"NAME", "QUERY", "COLOR", "MATCHING", "UNCERTAIN", "CONVERTERS"}

func renderTags(cmd *cobra.Command, tags []models.TagInfo) string {
	return table.NewBuilder().
		WithHeaders(tagHeaders...).
		WithRows(tagRows(tags)...).
		WithMutedColumns(4).
		WithNumericColumns(3, 4).
		WithWidth(table.TerminalWidth(outFile(cmd))).
		Render()
}

func renderGroupedTags(cmd *cobra.Command, groups store.GroupedTags) string {
	var b strings.Builder
	for i, category := range models.TagCategories {
		if i > 0 {
			b.WriteString("\n")
		}
		tags := groups[category]
		fmt.Fprintf(&b, "%s (%d)\n", theme.RenderCategory(string(category)), len(tags))
		if len(tags) == 0 {
			continue
		}
		b.WriteString(renderTags(cmd, tags))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func validateColor(color string) error {
	if !theme.ValidColor(color) {
		return errors.InvalidInput("color", fmt.Sprintf("%q is not a #rrggbb color", color))
	}
	return nil
}
