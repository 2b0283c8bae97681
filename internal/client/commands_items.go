// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-keeper/internal/app"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

var (
	errItemUnavailable  = errors.New(app.MsgItemUnavailable)
	errItemNotFound     = errors.New(app.MsgItemNotFound)
	errClearUnconfirmed = errors.New(app.MsgClearNotConfirmed)
)

func (c *CLI) addCmd() *cobra.Command {
	var category, body string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Encrypt and store a new item",
		Long: `Encrypts the body and stores it under a new id. The body is taken from
--body or, when omitted, read from stdin.

Examples:
  vault add "Bank PIN" --category note --body 1234
  pass-gen | vault add "mail" --category password`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := models.ParseCategory(category)
			if err != nil {
				return err
			}
			secret, err := readBody(cmd, body)
			if err != nil {
				return err
			}

			id, err := c.app.Vault().Add(cmd.Context(), args[0], secret, cat)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s added %s\n", color.GreenString("✓"), id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "t", models.CategoryOther.String(), "password, note, card or other")
	cmd.Flags().StringVarP(&body, "body", "b", "", "item body (read from stdin when omitted)")

	return cmd
}

func (c *CLI) getCmd() *cobra.Command {
	var copyBody bool

	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Print the decrypted body of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, ok := c.app.Vault().GetDecryptedBody(cmd.Context(), args[0])
			if !ok {
				return errItemUnavailable
			}

			if copyBody {
				if err := writeClipboard(body); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s copied to clipboard\n", color.GreenString("✓"))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyBody, "copy", false, "copy the body to the clipboard instead of printing it")

	return cmd
}

func (c *CLI) listCmd() *cobra.Command {
	var (
		category string
		verify   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List item titles and categories",
		Long: `Lists metadata only; bodies are never decrypted for listing. With
--verify every item is decrypted once and unreadable ones are flagged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := parseFilter(category)
			if err != nil {
				return err
			}

			metas, err := c.app.Vault().Snapshot(cmd.Context(), filter)
			if err != nil {
				return err
			}

			var unreadable map[string]bool
			if verify {
				report, err := c.app.Vault().Verify(cmd.Context())
				if err != nil {
					return err
				}
				unreadable = unreadableIDs(report)
			}

			printListing(cmd.OutOrStdout(), metas, unreadable)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "t", "", "only list this category")
	cmd.Flags().BoolVar(&verify, "verify", false, "decrypt every item and flag the unreadable ones")

	return cmd
}

func (c *CLI) updateCmd() *cobra.Command {
	var title, category, body string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace the body of an item",
		Long: `Re-encrypts the item with a new body. Title and category are kept unless
--title or --category is given. The body is taken from --body or stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			current, err := c.findMeta(cmd, id)
			if err != nil {
				return err
			}
			if title == "" {
				title = current.Title
			}
			cat := current.Category
			if category != "" {
				if cat, err = models.ParseCategory(category); err != nil {
					return err
				}
			}

			secret, err := readBody(cmd, body)
			if err != nil {
				return err
			}

			if err = c.app.Vault().Update(ctx, id, title, secret, cat); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s updated %s\n", color.GreenString("✓"), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&category, "category", "t", "", "new category")
	cmd.Flags().StringVarP(&body, "body", "b", "", "new body (read from stdin when omitted)")

	return cmd
}

func (c *CLI) renameCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "rename ID TITLE",
		Short: "Change the title or category of an item without touching its body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, title := args[0], args[1]

			current, err := c.findMeta(cmd, id)
			if err != nil {
				return err
			}
			cat := current.Category
			if category != "" {
				if cat, err = models.ParseCategory(category); err != nil {
					return err
				}
			}

			if err = c.app.Vault().UpdateMetadata(cmd.Context(), id, title, cat); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s renamed %s\n", color.GreenString("✓"), id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "t", "", "new category")

	return cmd
}

func (c *CLI) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID...",
		Aliases: []string{"rm"},
		Short:   "Delete items",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := c.app.Vault().Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s deleted %s\n", color.GreenString("✓"), id)
			}
			return nil
		},
	}
}

func (c *CLI) clearCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return errClearUnconfirmed
			}
			if err := c.app.Vault().ClearAll(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s vault cleared\n", color.GreenString("✓"))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "confirm deleting every item")

	return cmd
}

// findMeta looks up the listing entry of id.
func (c *CLI) findMeta(cmd *cobra.Command, id string) (models.VaultItemMeta, error) {
	metas, err := c.app.Vault().Snapshot(cmd.Context(), models.CategoryAll)
	if err != nil {
		return models.VaultItemMeta{}, err
	}
	for _, m := range metas {
		if m.ID == id {
			return m, nil
		}
	}
	return models.VaultItemMeta{}, errItemNotFound
}

func unreadableIDs(report models.IntegrityReport) map[string]bool {
	ids := make(map[string]bool, len(report.Unreadable))
	for _, m := range report.Unreadable {
		ids[m.ID] = true
	}
	return ids
}

// printListing renders metas as a table. Ids in unreadable are flagged.
func printListing(w io.Writer, metas []models.VaultItemMeta, unreadable map[string]bool) {
	if len(metas) == 0 {
		fmt.Fprintf(w, "%s vault is empty\n", color.YellowString("!"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tTITLE\tUPDATED\t")
	for _, m := range metas {
		status := ""
		if unreadable[m.ID] {
			status = color.RedString(app.MsgItemUnreadable)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Category, m.Title, m.UpdatedAt.Local().Format(time.DateTime), status)
	}
	_ = tw.Flush()
}
