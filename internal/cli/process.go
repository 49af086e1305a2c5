package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/youmna-rabie/tebex-gateway/internal/config"
	"github.com/youmna-rabie/tebex-gateway/pkg/webhook"
)

var (
	processOrigin    string
	processSignature string
	processBody      string
)

func init() {
	processCmd.Flags().StringVar(&processOrigin, "origin", "", "source address of the request")
	processCmd.Flags().StringVar(&processSignature, "signature", "", "value of the signature header")
	processCmd.Flags().StringVar(&processBody, "body", "-", "file holding the raw body, - for stdin")
	rootCmd.AddCommand(processCmd)
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run one request through the webhook pipeline and print the response",
	Long: "process feeds a captured request straight into the gateway, without an HTTP listener. " +
		"It prints the status code and body the gateway would answer with.",
	RunE: processRequest,
}

func processRequest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	body, err := readBody(processBody, cmd.InOrStdin())
	if err != nil {
		return err
	}

	gw, err := buildGateway(cfg, newLogger(cfg.Logging, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	res := gw.Process(webhook.Request{
		Origin:    processOrigin,
		Signature: processSignature,
		Body:      body,
	})

	fmt.Fprintf(cmd.OutOrStdout(), "%d\n%s\n", res.StatusCode, res.Body)
	if res.Rejected {
		return fmt.Errorf("request rejected: %s", res.Outcome)
	}
	return nil
}

// readBody returns the exact bytes of path, or of stdin when path is "-" or empty.
func readBody(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading body from stdin: %w", err)
		}
		return body, nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}
