package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/imgshare/gallery-client/internal/ports"
	"github.com/imgshare/gallery-client/internal/service"
	"github.com/spf13/cobra"
)

type uploadOptions struct {
	Title       string
	Description string
	Category    string
	File        string
}

func newUploadCmd(a *app) *cobra.Command {
	var opts uploadOptions
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload an image to the gallery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.open(ctx)
			if err != nil {
				return err
			}
			if _, err := requireSession(ctx, svc.Sessions, a.logger); err != nil {
				return err
			}

			in := ports.UploadInput{
				Title:       opts.Title,
				Description: opts.Description,
				Category:    opts.Category,
				FileName:    filepath.Base(opts.File),
			}
			if opts.File != "" {
				f, err := os.Open(opts.File)
				if err != nil {
					return fmt.Errorf("open image: %w", err)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil {
						a.logger.Warn("close image file failed", "error", cerr)
					}
				}()
				in.Content = f
			} else {
				in.FileName = ""
			}

			item, err := svc.Images.Upload(ctx, in)
			if err != nil {
				return err
			}
			return writef(cmd.OutOrStdout(), "Uploaded %q as image %s\n", item.Title, item.ID)
		},
	}
	cmd.Flags().StringVar(&opts.Title, "title", "", "image title")
	cmd.Flags().StringVar(&opts.Description, "description", "", "image description")
	cmd.Flags().StringVar(&opts.Category, "category", "", "image category")
	cmd.Flags().StringVar(&opts.File, "file", "", "path of the image file")
	return cmd
}

func newCommentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comments <image-id>",
		Short: "List the comments on an image",
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

			comments, err := svc.Images.Comments(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(comments) == 0 {
				return writeln(out, "No comments yet.")
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			if err := writeln(tw, "WHEN\tUSER\tCOMMENT"); err != nil {
				return fmt.Errorf("write comments header: %w", err)
			}
			for _, c := range comments {
				when := "-"
				if !c.CreatedAt.IsZero() {
					when = c.CreatedAt.Local().Format("2006-01-02 15:04")
				}
				user := c.UserName
				if user == "" {
					user = c.UserID
				}
				if err := writef(tw, "%s\t%s\t%s\n", when, user, c.Text); err != nil {
					return fmt.Errorf("write comment %q: %w", c.ID, err)
				}
			}
			return tw.Flush()
		},
	}
}

func newCommentCmd(a *app) *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "comment <image-id>",
		Short: "Add a comment to an image",
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

			c, err := svc.Images.AddComment(ctx, service.CommentInput{ImageID: args[0], Text: text})
			if err != nil {
				return err
			}
			return writef(cmd.OutOrStdout(), "Comment added to image %s\n", fallback(c.ImageID, args[0]))
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "comment text")
	return cmd
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
