// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/models"
)

const loggerRole = "go-vault-keeper"

var _ Client = (*CLI)(nil)

type openAppFunc func(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*App, error)

// CLI is the vault command tree. Each invocation loads the configuration,
// opens the vault runtime, runs one command and closes the runtime again.
type CLI struct {
	root  *cobra.Command
	flags *config.StructuredConfig
	open  openAppFunc

	app    *App
	logger *logger.Logger
}

// NewCLI builds the command tree around [NewApp].
func NewCLI() *CLI {
	return newCLI(NewApp)
}

func newCLI(open openAppFunc) *CLI {
	c := &CLI{open: open}

	root := &cobra.Command{
		Use:   "vault",
		Short: "Local encrypted vault for passwords, notes and cards",
		Long: `Stores secrets encrypted with AES-256-GCM under a master key kept in the
OS credential store. Titles and categories stay readable for listing;
bodies are only decrypted on request.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	c.flags = config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		c.initCmd(),
		c.addCmd(),
		c.getCmd(),
		c.listCmd(),
		c.updateCmd(),
		c.renameCmd(),
		c.deleteCmd(),
		c.clearCmd(),
		c.verifyCmd(),
		c.watchCmd(),
	)
	c.root = root

	return c
}

// Run implements [Client].
func (c *CLI) Run(ctx context.Context, args []string) error {
	c.root.SetArgs(args)
	err := c.root.ExecuteContext(ctx)

	if c.app != nil {
		if closeErr := c.app.Close(); closeErr != nil {
			c.logger.Err(closeErr).Str("func", "CLI.Run").Msg("failed to close vault runtime")
		}
		c.app = nil
	}

	return err
}

// SetBuildInfo enables the --version flag.
func (c *CLI) SetBuildInfo(info models.AppBuildInfo) {
	c.root.Version = info.String()
}

// SetOutput redirects command output and input.
func (c *CLI) SetOutput(out io.Writer, in io.Reader) {
	c.root.SetOut(out)
	c.root.SetErr(out)
	c.root.SetIn(in)
}

func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.flags)
	if err != nil {
		return err
	}

	c.logger = logger.NewFileLogger(loggerRole, cfg.Log.File)
	ctx := c.logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	c.app, err = c.open(ctx, cfg, c.logger)
	if err != nil {
		c.logger.Err(err).Str("func", "CLI.setup").Msg("failed to open vault")
		return err
	}

	return nil
}

// readBody returns flagValue when set and the whole of stdin otherwise.
// A single trailing newline from stdin is dropped.
func readBody(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	body := strings.TrimSuffix(string(raw), "\n")
	return strings.TrimSuffix(body, "\r"), nil
}

// parseFilter maps an empty --category to "every category".
func parseFilter(s string) (models.Category, error) {
	if strings.TrimSpace(s) == "" {
		return models.CategoryAll, nil
	}
	return models.ParseCategory(s)
}
