package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youmna-rabie/tebex-gateway/internal/config"
	"github.com/youmna-rabie/tebex-gateway/pkg/webhook"
)

var signBody string

func init() {
	signCmd.Flags().StringVar(&signBody, "body", "-", "file holding the raw body, - for stdin")
	rootCmd.AddCommand(signCmd)
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Print the signature Tebex would send for a body",
	RunE:  signPayload,
}

func signPayload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	body, err := readBody(signBody, cmd.InOrStdin())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), webhook.Sign([]byte(cfg.Webhook.Secret), body))
	return nil
}
