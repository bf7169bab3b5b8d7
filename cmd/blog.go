package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursefit/internal/blog"
)

var errBlogDisabled = errors.New("blog is not configured; set blog.base_url or COURSEFIT_BLOG_BASE_URL")

var blogCmd = &cobra.Command{
	Use:   "blog",
	Short: "Read career blog posts",
}

var blogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List blog posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, bc, err := loadBlog(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		posts, err := bc.List(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"posts": posts})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-32s  %-10s  %-14s  %s\n", "Slug", "Date", "Category", "Title")
		fmt.Fprintln(out, strings.Repeat("\u2500", 90))
		for _, p := range posts {
			fmt.Fprintf(out, "%-32s  %-10s  %-14s  %s\n", p.Slug, p.Date, p.Category, p.Title)
		}
		return nil
	},
}

var blogShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Print a blog post as plain text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, bc, err := loadBlog(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		post, err := bc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, post.Title)
		fmt.Fprintln(out, strings.Repeat("=", len([]rune(post.Title))))
		if post.Date != "" {
			fmt.Fprintln(out, post.Date)
		}
		for _, para := range blog.Paragraphs(post.Content) {
			fmt.Fprintln(out)
			fmt.Fprintln(out, para)
		}
		return nil
	},
}

func loadBlog(cmd *cobra.Command) (*runtime, *blog.Client, error) {
	rt, err := loadRuntime(cmd, runtimeOptions{})
	if err != nil {
		return nil, nil, err
	}
	bc, err := rt.blogClient()
	if err != nil {
		rt.Close()
		return nil, nil, err
	}
	if bc == nil {
		rt.Close()
		return nil, nil, errBlogDisabled
	}
	return rt, bc, nil
}

func init() {
	blogListCmd.Flags().Bool("json", false, "Print as JSON")
	blogCmd.AddCommand(blogListCmd)
	blogCmd.AddCommand(blogShowCmd)
}
