package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/go-burrow/internal/feed"
	"github.com/pribylovaa/go-burrow/internal/models"
	"github.com/pribylovaa/go-burrow/internal/thread"
)

const notSaved = "The server did not keep this change."

func threadCmd(deps func() *Env) *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "thread <post-id>",
		Short: "Show the comment tree of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFeed(cmd.Context(), deps(), args[0], variant)
			if err != nil {
				return err
			}
			defer f.Close()

			renderThread(cmd.OutOrStdout(), f.Tree(), deps().Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "post", "comment listing: post or title")

	return cmd
}

func voteCmd(deps func() *Env) *cobra.Command {
	return mutationCmd(deps, &cobra.Command{
		Use:   "vote <post-id> <comment-id> up|down",
		Short: "Vote on a comment",
		Args:  cobra.ExactArgs(3),
	}, func(ctx context.Context, f *feed.CommentFeed, args []string) error {
		return f.Vote(ctx, args[1], models.Direction(args[2]))
	}, nil)
}

func editCmd(deps func() *Env) *cobra.Command {
	return mutationCmd(deps, &cobra.Command{
		Use:   "edit <post-id> <comment-id> <text>",
		Short: "Replace the text of a comment",
		Args:  cobra.ExactArgs(3),
	}, func(ctx context.Context, f *feed.CommentFeed, args []string) error {
		return f.Edit(ctx, args[1], args[2])
	}, func(roots []*models.CommentNode, args []string) bool {
		n := thread.Find(roots, args[1])
		return n != nil && n.Text == args[2]
	})
}

func deleteCmd(deps func() *Env) *cobra.Command {
	return mutationCmd(deps, &cobra.Command{
		Use:   "delete <post-id> <comment-id>",
		Short: "Delete a comment together with its replies",
		Args:  cobra.ExactArgs(2),
	}, func(ctx context.Context, f *feed.CommentFeed, args []string) error {
		return f.Delete(ctx, args[1])
	}, func(roots []*models.CommentNode, args []string) bool {
		return thread.Find(roots, args[1]) == nil
	})
}

// mutationCmd загружает ветку, применяет мутацию, дожидается ответа бэкенда
// (и перезагрузки при неудаче) и печатает итоговое дерево. Неудачный запрос
// виден по тому, что дерево вернулось к состоянию сервера; если задан kept,
// об откате дополнительно сообщается строкой после дерева.
func mutationCmd(
	deps func() *Env,
	cmd *cobra.Command,
	apply func(context.Context, *feed.CommentFeed, []string) error,
	kept func(roots []*models.CommentNode, args []string) bool,
) *cobra.Command {
	var variant string

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		f, err := loadFeed(cmd.Context(), deps(), args[0], variant)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := apply(cmd.Context(), f, args); err != nil {
			return userError(err)
		}
		f.Wait()

		if f.State() == feed.StateFailed {
			return userError(f.Err())
		}

		tree := f.Tree()
		renderThread(cmd.OutOrStdout(), tree, deps().Now())

		if kept != nil && !kept(tree, args) {
			fmt.Fprintln(cmd.OutOrStdout(), notSaved)
		}

		return nil
	}

	cmd.Flags().StringVar(&variant, "variant", "post", "comment listing: post or title")

	return cmd
}

func loadFeed(ctx context.Context, env *Env, postID, variant string) (*feed.CommentFeed, error) {
	v, err := feed.ParseVariant(variant)
	if err != nil {
		return nil, userError(err)
	}

	opts := append(append([]feed.Option(nil), env.FeedOptions...), feed.WithVariant(v))
	f := feed.NewCommentFeed(env.Comments, postID, opts...)

	if err := f.Load(ctx); err != nil {
		f.Close()
		return nil, userError(err)
	}

	return f, nil
}
