package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kapu/isso-client-go/pkg/comments"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

var (
	plainText bool
	countURI  string
)

var endpointCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "Show the resolved comment service endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := container.Client
		return printResult(cmd, map[string]string{
			"endpoint": c.Endpoint().String(),
			"page":     c.PageURI(),
			"salt":     c.Salt(),
		}, func() {
			fmt.Fprintln(cmd.OutOrStdout(), c.Endpoint().String())
		})
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "List the comments of the page thread",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		list, err := container.Client.Fetch(ctx, plainText)
		if err != nil {
			return err
		}
		return printResult(cmd, list, func() {
			printThread(cmd.OutOrStdout(), list)
		})
	},
}

var viewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a single comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		comment, err := container.Client.View(ctx, id, plainText)
		if err != nil {
			return err
		}
		return printResult(cmd, comment, func() {
			printComment(cmd.OutOrStdout(), comment, 0)
		})
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count comments of a thread (defaults to the page thread)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		uri := countURI
		if uri == "" {
			uri = container.Client.PageURI()
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		n, err := container.Client.Count(ctx, uri)
		if err != nil {
			return err
		}
		return printResult(cmd, n, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d comments\n", uri, n)
		})
	},
}

var ipCmd = &cobra.Command{
	Use:   "ip",
	Short: "Show the client address as seen by the service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		addr, err := container.Client.RemoteAddr(ctx)
		if err != nil {
			return err
		}
		return printResult(cmd, addr, func() {
			fmt.Fprintln(cmd.OutOrStdout(), addr)
		})
	},
}

// threadCmd issues fetch and count side by side; neither waits on the other.
var threadCmd = &cobra.Command{
	Use:   "thread",
	Short: "Fetch the page thread and its count concurrently",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		c := container.Client
		var (
			list []comments.Comment
			n    int
		)

		p := pool.New().WithErrors().WithContext(ctx)
		p.Go(func(ctx context.Context) error {
			var err error
			list, err = c.Fetch(ctx, plainText)
			return err
		})
		p.Go(func(ctx context.Context) error {
			var err error
			n, err = c.Count(ctx, c.PageURI())
			return err
		})
		if err := p.Wait(); err != nil {
			return err
		}

		return printResult(cmd, map[string]any{"count": n, "comments": list}, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d comments)\n", c.PageURI(), n)
			printThread(cmd.OutOrStdout(), list)
		})
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&plainText, "plain", false, "request the unrendered markdown text")
	viewCmd.Flags().BoolVar(&plainText, "plain", false, "request the unrendered markdown text")
	threadCmd.Flags().BoolVar(&plainText, "plain", false, "request the unrendered markdown text")
	countCmd.Flags().StringVar(&countURI, "uri", "", "thread URI to count")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid comment id %q", raw)
	}
	return id, nil
}
