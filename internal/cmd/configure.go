package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/reqdesk/internal/api"
	"github.com/gravitrone/reqdesk/internal/config"
)

// RunInteractiveConfigure prompts for connection settings, checks them
// against the service, and persists config.
func RunInteractiveConfigure(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	prompt := func(label, def string) string {
		if def != "" {
			fmt.Fprintf(out, "%s [%s]: ", label, def)
		} else {
			fmt.Fprintf(out, "%s: ", label)
		}
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return def
		}
		return line
	}

	baseURL := prompt("service url", api.DefaultBaseURL)
	username := prompt("username", "")
	if username == "" {
		return fmt.Errorf("username is required")
	}
	apiKey := prompt("api key", "")
	if apiKey == "" {
		return fmt.Errorf("api key is required")
	}
	manager := strings.HasPrefix(strings.ToLower(prompt("request manager? (y/N)", "n")), "y")

	client := api.NewClient(baseURL, apiKey)
	status, err := client.Health()
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if _, err := client.ListManagers(); err != nil {
		return fmt.Errorf("api key rejected: %w", err)
	}

	cfg := &config.Config{
		APIKey:         apiKey,
		Username:       username,
		RequestManager: manager,
		ClosePolicy:    config.ClosePolicyOnSuccess,
		VimKeys:        true,
	}
	if baseURL != api.DefaultBaseURL {
		cfg.BaseURL = baseURL
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	role := "requester"
	if manager {
		role = "request manager"
	}
	fmt.Fprintf(out, "service %s is %s\n", baseURL, status)
	fmt.Fprintf(out, "configured %s as %s\n", username, role)
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// ConfigureCmd returns the `reqdesk configure` command.
func ConfigureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Set the service URL, API key and role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunInteractiveConfigure(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
