package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"brandcheck/internal/names"
)

type nameResult struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// NewNamesCommand creates the names command and its subcommands.
func NewNamesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "names",
		Short: "Resolve issuer and card display names",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "issuer <key>",
		Short: "Print the display name for an issuer key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := names.IssuerName(args[0])
			return emit(cmd.OutOrStdout(), opts, nameResult{Key: args[0], Name: name}, name)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "card <issuer> <card>",
		Short: "Print the display name for a card key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := names.CardName(args[0], args[1])
			return emit(cmd.OutOrStdout(), opts, nameResult{Key: args[1], Name: name}, name)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list [issuer]",
		Short: "List known issuers, or the cards of one issuer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := names.Default()
			list := r.Issuers()
			if len(args) == 1 {
				list = r.Cards(args[0])
			}
			var b strings.Builder
			for i, o := range list {
				if i > 0 {
					b.WriteByte('\n')
				}
				fmt.Fprintf(&b, "%-24s %s", o.Key, o.Name)
			}
			return emit(cmd.OutOrStdout(), opts, list, b.String())
		},
	})

	return cmd
}
