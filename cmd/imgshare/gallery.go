package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/imgshare/gallery-client/internal/domain/gallery"
	"github.com/imgshare/gallery-client/internal/http/uiutil"
	"github.com/spf13/cobra"
)

const titleWidth = 40

type galleryOptions struct {
	Query string
	Page  int
}

func newGalleryCmd(a *app) *cobra.Command {
	var opts galleryOptions
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "List gallery images, optionally filtered and paged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.open(ctx)
			if err != nil {
				return err
			}
			sess, err := requireSession(ctx, svc.Sessions, a.logger)
			if err != nil {
				return err
			}

			gs := svc.Gallery
			if loadErr := gs.Load(ctx); loadErr != nil {
				return loadErr
			}
			gs.SetQuery(opts.Query)
			if opts.Page > 0 {
				gs.Paginate(opts.Page)
			}
			return printGallery(cmd.OutOrStdout(), gs.View(), sess.UserID())
		},
	}
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "filter by title or category")
	cmd.Flags().IntVarP(&opts.Page, "page", "p", 0, "page to show (clamped to the last page)")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <image-id>",
		Short: "Delete one of your images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := a.open(ctx)
			if err != nil {
				return err
			}
			if _, err := requireSession(ctx, svc.Sessions, a.logger); err != nil {
				return err
			}
			if err := svc.Gallery.Delete(ctx, args[0]); err != nil {
				return err
			}
			return writef(cmd.OutOrStdout(), "Deleted image %s\n", args[0])
		},
	}
}

// printGallery writes the current page as a table followed by the pager.
func printGallery(w io.Writer, v gallery.View, viewerID string) error {
	if v.Empty {
		if v.Query != "" {
			return writef(w, "No images match %q.\n", v.Query)
		}
		return writeln(w, "No images found.")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "ID\tTITLE\tCATEGORY\tCOMMENTS\tOWNER"); err != nil {
		return fmt.Errorf("write gallery header: %w", err)
	}
	for _, it := range v.PageItems {
		owner := it.UserID
		if owner != "" && owner == viewerID {
			owner += " (you)"
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			it.ID,
			uiutil.TruncateWithEllipsis(it.Title, titleWidth),
			it.Category,
			uiutil.Plural(it.CommentCount, "comment", "comments"),
			owner,
		); err != nil {
			return fmt.Errorf("write gallery row %q: %w", it.ID, err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush gallery table: %w", err)
	}
	return writeln(w, pagerLine(v))
}

// pagerLine renders e.g. "Page 2 of 5 | pages [1] 2 3 | next block 4".
// The current page is bracketed.
func pagerLine(v gallery.View) string {
	pages := make([]string, 0, len(v.Pages))
	for _, p := range v.Pages {
		label := strconv.Itoa(p)
		if p == v.Page {
			label = "[" + label + "]"
		}
		pages = append(pages, label)
	}

	parts := []string{fmt.Sprintf("Page %d of %d", v.Page, v.TotalPages), "pages " + strings.Join(pages, " ")}
	if v.PrevBlock {
		parts = append(parts, fmt.Sprintf("previous block %d", v.Window.Start-1))
	}
	if v.NextBlock {
		parts = append(parts, fmt.Sprintf("next block %d", v.Window.End+1))
	}
	summary := strings.Join(parts, " | ")
	if v.Query != "" {
		summary += fmt.Sprintf(" (%d matching %q)", v.Total, v.Query)
	}
	return summary
}
