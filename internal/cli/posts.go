package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/go-burrow/internal/feed"
	"github.com/pribylovaa/go-burrow/internal/models"
)

func postsCmd(deps func() *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "List all posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listPosts(cmd, deps(), func(ctx context.Context, p *feed.PostFeed) error {
				return p.LoadAll(ctx)
			})
		},
	}
}

func searchCmd(deps func() *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPosts(cmd, deps(), func(ctx context.Context, p *feed.PostFeed) error {
				return p.Search(ctx, args[0])
			})
		},
	}
}

func subredditCmd(deps func() *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "subreddit <name>",
		Short: "List posts of a subreddit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPosts(cmd, deps(), func(ctx context.Context, p *feed.PostFeed) error {
				return p.LoadSubreddit(ctx, args[0])
			})
		},
	}
}

// votePostCmd — голос за пост по id; бэкенду не нужен загруженный список,
// поэтому голос уходит напрямую и ждётся синхронно.
func votePostCmd(deps func() *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "vote-post <post-id> up|down",
		Short: "Vote on a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := models.Direction(args[1])
			if !dir.Valid() {
				return userError(feed.ErrInvalidDirection)
			}

			if err := deps().Posts.VotePost(cmd.Context(), args[0], dir); err != nil {
				return userError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Vote recorded.")
			return nil
		},
	}
}

func listPosts(cmd *cobra.Command, env *Env, load func(context.Context, *feed.PostFeed) error) error {
	p := feed.NewPostFeed(env.Posts, env.FeedOptions...)

	if err := load(cmd.Context(), p); err != nil {
		return userError(err)
	}

	renderPosts(cmd.OutOrStdout(), p.Posts(), env.Now())
	return nil
}
