package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/dicionario-backend/internal/app"
	"github.com/heartmarshall/dicionario-backend/internal/service/resolver"
	"github.com/heartmarshall/dicionario-backend/internal/transport/rest"
)

func newResolveCommand(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "resolve <term>",
		Short: "Resolve a term through the lookup pipeline and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			c, err := app.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.Resolver.Resolve(cmd.Context(), args[0], limit, 1)
			if err != nil {
				return fmt.Errorf("resolve %q: %w", args[0], err)
			}

			return printResult(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
	return cmd
}

// printResult writes result in the body shape of GET /words.
func printResult(w io.Writer, result *resolver.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rest.NewSearchResponse(result))
}
