package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"brandcheck/internal/extract"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand(opts *RootOptions) *cobra.Command {
	var maxBytes int64

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract reviewable text from a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat %s: %w", args[0], err)
			}

			name := filepath.Base(args[0])
			res, err := extract.New(maxBytes).Extract(extract.File{
				Name:     name,
				MimeType: mime.TypeByExtension(filepath.Ext(name)),
				Size:     info.Size(),
				Body:     f,
			})
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts, res, res.Text)
		},
	}

	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 50<<20, "largest text file accepted, in bytes")
	return cmd
}
