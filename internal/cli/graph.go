package cli

import "github.com/spf13/cobra"

func graphCmd(deps func() *Env) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the topic graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := deps().Graph.Get(source)
			if err != nil {
				return userError(err)
			}

			g, err := src.Load(cmd.Context())
			if err != nil {
				return userError(err)
			}

			renderGraph(cmd.OutOrStdout(), g)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "graph source: rest or neo4j (default: first configured)")

	return cmd
}
