package main

import (
	"fmt"

	"github.com/kapu/isso-client-go/pkg/comments"
	"github.com/spf13/cobra"
)

var (
	draftAuthor  string
	draftEmail   string
	draftWebsite string
	draftParent  int64
)

var createCmd = &cobra.Command{
	Use:   "create <text>",
	Short: "Post a comment to the page thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := comments.Draft{
			Text:    args[0],
			Author:  draftAuthor,
			Email:   draftEmail,
			Website: draftWebsite,
		}
		if draftParent > 0 {
			draft.Parent = &draftParent
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		comment, err := container.Client.Create(ctx, draft)
		if err != nil {
			return err
		}
		return printResult(cmd, comment, func() {
			printComment(cmd.OutOrStdout(), comment, 0)
		})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id> <text>",
	Short: "Modify one of your comments",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		comment, err := container.Client.Modify(ctx, id, comments.Edit{
			Text:    args[1],
			Author:  draftAuthor,
			Website: draftWebsite,
		})
		if err != nil {
			return err
		}
		return printResult(cmd, comment, func() {
			printComment(cmd.OutOrStdout(), comment, 0)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove one of your comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		gone, err := container.Client.Remove(ctx, id)
		if err != nil {
			return err
		}
		return printResult(cmd, gone, func() {
			if gone {
				fmt.Fprintf(cmd.OutOrStdout(), "comment %d removed\n", id)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "comment %d hidden, replies kept\n", id)
		})
	},
}

var likeCmd = &cobra.Command{
	Use:   "like <id>",
	Short: "Upvote a comment",
	Args:  cobra.ExactArgs(1),
	RunE:  voteRunE(true),
}

var dislikeCmd = &cobra.Command{
	Use:   "dislike <id>",
	Short: "Downvote a comment",
	Args:  cobra.ExactArgs(1),
	RunE:  voteRunE(false),
}

func voteRunE(up bool) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		vote := container.Client.Dislike
		if up {
			vote = container.Client.Like
		}

		votes, err := vote(ctx, id)
		if err != nil {
			return err
		}
		return printResult(cmd, votes, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "comment %d: +%d / -%d\n", id, votes.Likes, votes.Dislikes)
		})
	}
}

func init() {
	for _, c := range []*cobra.Command{createCmd, editCmd} {
		c.Flags().StringVar(&draftAuthor, "author", "", "author name")
		c.Flags().StringVar(&draftWebsite, "website", "", "author website")
	}
	createCmd.Flags().StringVar(&draftEmail, "email", "", "author email, used for notifications and gravatar")
	createCmd.Flags().Int64Var(&draftParent, "reply-to", 0, "id of the comment being answered")
}
