// Package cli — терминальный клиент: ветки комментариев, посты, граф и сессия.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/go-burrow/internal/feed"
	"github.com/pribylovaa/go-burrow/internal/graph"
	"github.com/pribylovaa/go-burrow/internal/session"
)

// Env — зависимости команд.
type Env struct {
	Comments    feed.CommentSource
	Posts       feed.PostSource
	Session     *session.Service
	Graph       *graph.Sources
	FeedOptions []feed.Option
	Now         func() time.Time
}

// Opener собирает Env по пути к конфигу (пустой — по правилам config.Load).
// Освобождение ресурсов Env остаётся на вызывающем.
type Opener func(ctx context.Context, configPath string) (*Env, error)

// NewRootCommand — корневая команда burrow.
func NewRootCommand(open Opener) *cobra.Command {
	var configPath string
	var env *Env

	root := &cobra.Command{
		Use:           "burrow",
		Short:         "Terminal client for the burrow knowledge-graph feed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			if e.Now == nil {
				e.Now = time.Now
			}
			env = e

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	deps := func() *Env { return env }

	root.AddCommand(
		threadCmd(deps),
		voteCmd(deps),
		editCmd(deps),
		deleteCmd(deps),
		postsCmd(deps),
		searchCmd(deps),
		subredditCmd(deps),
		votePostCmd(deps),
		graphCmd(deps),
		loginCmd(deps),
		registerCmd(deps),
		logoutCmd(deps),
		whoamiCmd(deps),
	)

	return root
}

// userError — текст ошибки для терминала.
func userError(err error) error {
	return fmt.Errorf("error: %s", message(err))
}
