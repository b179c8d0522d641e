package main

import (
	"fmt"
	"io"
	"os"

	"github.com/marcelsud/payment-relay/config"
	"github.com/marcelsud/payment-relay/webhook/signature"
	"github.com/spf13/cobra"
)

/* sign-webhook - signs a webhook body the way the processor does
 * Usage:
 *   go run ./cmd/sign-webhook body.json
 *   cat body.json | go run ./cmd/sign-webhook --header
 *   go run ./cmd/sign-webhook secret --bytes 32
 */

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		secret     string
		headerLine bool
	)

	cmd := &cobra.Command{
		Use:   "sign-webhook [file]",
		Short: "Print the Cko-Signature of a webhook body read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.GetConfig()
				if err != nil {
					return err
				}
				secret = cfg.WebhookSecret
			}

			body, err := readBody(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			sig, err := signature.Sign([]byte(secret), body)
			if err != nil {
				return fmt.Errorf("signing body: %w", err)
			}

			if headerLine {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", signature.HeaderName, sig)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), sig)
			return nil
		},
	}

	cmd.Flags().StringVarP(&secret, "secret", "s", "", "Signing secret (defaults to WEBHOOK_SECRET)")
	cmd.Flags().BoolVar(&headerLine, "header", false, "Print as an HTTP header line")

	cmd.AddCommand(secretCmd())
	return cmd
}

func secretCmd() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate a random webhook signing secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := signature.GenerateSecret(size)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "bytes", "b", 32, fmt.Sprintf("Secret size in bytes (%d-%d)", signature.MinSecretBytes, signature.MaxSecretBytes))
	return cmd
}

func readBody(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return body, nil
	}

	body, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading body file: %w", err)
	}
	return body, nil
}
