package cmd

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/ocrchat/internal/config"
	"github.com/lehigh-university-libraries/ocrchat/internal/ollama"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Send a one-off prompt to a local Ollama model",
		Example: `  ocrchat generate "Summarize the plot of Hamlet"
  ocrchat generate --model llama3.2:1b "Say hi"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ollama.New(config.Load().OllamaURL)
			reply, err := client.Generate(cmd.Context(), model, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "llama3.1:8b", "Ollama model to use")

	return cmd
}
