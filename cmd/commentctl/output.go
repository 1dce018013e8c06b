package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kapu/isso-client-go/internal/constants"
	"github.com/kapu/isso-client-go/internal/util"
	"github.com/kapu/isso-client-go/pkg/comments"
	"github.com/spf13/cobra"
)

func printResult(cmd *cobra.Command, v any, human func()) error {
	if !flagJSON {
		human()
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printThread(w io.Writer, list []comments.Comment) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no comments yet")
		return
	}
	for i := range list {
		printComment(w, &list[i], constants.CLIConfig.ExcerptRunes)
	}
}

// printComment writes c; a positive maxRunes prints a one-line excerpt
// instead of the full text.
func printComment(w io.Writer, c *comments.Comment, maxRunes int) {
	author := "Anonymous"
	if c.Author != nil && *c.Author != "" {
		author = *c.Author
	}

	header := fmt.Sprintf("#%d %s, %s", c.ID, author, humanize.Time(c.CreatedAt()))
	if c.Parent != nil {
		header += fmt.Sprintf(" (reply to #%d)", *c.Parent)
	}
	if m := c.ModifiedAt(); m != nil {
		header += ", edited " + humanize.Time(*m)
	}
	if c.Mode != comments.ModeAccepted && c.Mode != 0 {
		header += " [" + c.Mode.String() + "]"
	}

	fmt.Fprintln(w, header)
	switch {
	case c.IsDeleted():
	case maxRunes > 0:
		fmt.Fprintln(w, "  "+util.Excerpt(c.Text, maxRunes))
	default:
		for _, line := range strings.Split(strings.TrimSpace(c.Text), "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
	fmt.Fprintf(w, "  +%d / -%d\n", c.Likes, c.Dislikes)
}
