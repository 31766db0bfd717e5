package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/ocrchat/internal/config"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "extract <image-or-url>",
		Short: "Extract text from an image file or URL",
		Example: `  # Print the text and save it under outputs/
  ocrchat extract receipt.png

  # Print only
  ocrchat extract receipt.png --no-save

  # Download the image first
  ocrchat extract https://example.com/scan.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			svc, err := newOCRService(cfg, !noSave)
			if err != nil {
				return err
			}

			result, err := extractSource(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if result.Warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), result.Warning)
			}
			for _, line := range result.Text.Lines {
				fmt.Fprintln(out, line)
			}
			if result.OutputPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved to %s\n", result.OutputPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write the extracted text to the output directory")

	return cmd
}
