// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-keeper/internal/keystore"
	"github.com/MKhiriev/go-vault-keeper/internal/vault"
	"github.com/MKhiriev/go-vault-keeper/models"
)

func (c *CLI) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the master key if it does not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys := c.app.Keys()

			key, err := keys.GetOrCreateKey(cmd.Context())
			if err != nil {
				return err
			}

			backend := keys.Backend()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s master key %s ready (backend %s, security level %s)\n",
				color.GreenString("✓"), key.ID(), backend.Name(), backend.SecurityLevel())
			if backend.SecurityLevel() < keystore.SecurityLevelOS {
				fmt.Fprintf(out, "%s the master key is not protected by the OS credential store\n",
					color.YellowString("!"))
			}
			return nil
		},
	}
}

func (c *CLI) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that every item can still be decrypted",
		Long: `Decrypts every item and reports the ones that fail. Unreadable items are
kept so they can be recovered once the key problem is fixed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Vault().Verify(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.OK() {
				fmt.Fprintf(out, "%s %d items checked, all readable\n", color.GreenString("✓"), report.Checked)
				return nil
			}

			for _, m := range report.Unreadable {
				fmt.Fprintf(out, "%s %s %s (%s)\n", color.RedString("✗"), m.ID, m.Title, m.Category)
			}
			return fmt.Errorf("%d of %d items are unreadable", len(report.Unreadable), report.Checked)
		},
	}
}

func (c *CLI) watchCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the item list on every change and audit it periodically",
		Long: `Keeps running until interrupted. The listing is reprinted after every
change to the vault; the integrity audit runs every --audit-interval and
flags items that can no longer be decrypted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := parseFilter(category)
			if err != nil {
				return err
			}

			printer := &listingPrinter{
				repo:     c.app.Vault(),
				category: filter,
				out:      cmd.OutOrStdout(),
			}
			return c.app.Workers(printer.setReport, printer).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&category, "category", "t", "", "only watch this category")

	return cmd
}

// listingPrinter is a worker that prints the live listing of the vault,
// marking the items the last integrity audit found unreadable.
type listingPrinter struct {
	repo     vault.Repository
	category models.Category
	out      io.Writer

	mu         sync.Mutex
	last       []models.VaultItemMeta
	unreadable map[string]bool
}

func (p *listingPrinter) Run(ctx context.Context) error {
	listings, err := p.repo.List(ctx, p.category)
	if err != nil {
		return err
	}

	for metas := range listings {
		p.mu.Lock()
		p.last = metas
		p.print()
		p.mu.Unlock()
	}
	return nil
}

func (p *listingPrinter) setReport(report models.IntegrityReport) {
	unreadable := unreadableIDs(report)

	p.mu.Lock()
	defer p.mu.Unlock()

	changed := len(unreadable) != len(p.unreadable)
	for id := range unreadable {
		if !p.unreadable[id] {
			changed = true
		}
	}
	p.unreadable = unreadable

	if changed && p.last != nil {
		p.print()
	}
}

func (p *listingPrinter) print() {
	fmt.Fprintln(p.out)
	printListing(p.out, p.last, p.unreadable)
}
