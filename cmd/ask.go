package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/ocrchat/internal/config"
	"github.com/lehigh-university-libraries/ocrchat/internal/responder"
	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ask <image-or-url> <question>",
		Short:   "Ask the rule-based assistant a question about an image",
		Example: `  ocrchat ask receipt.png "what does it say?"`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args[1:], " ")
			if strings.TrimSpace(question) == "" {
				return errors.New("question is empty")
			}

			svc, err := newOCRService(config.Load(), false)
			if err != nil {
				return err
			}

			result, err := extractSource(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			if result.Warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), result.Warning)
			}

			fmt.Fprintln(cmd.OutOrStdout(), responder.New().Respond(question, result.Text.Text()))
			return nil
		},
	}

	return cmd
}
