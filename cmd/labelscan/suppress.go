// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/xhit/go-str2duration/v2"

	"labelscan/internal/paths"
	"labelscan/internal/suppressions"
	"labelscan/internal/taxonomy"
)

func newSuppressCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suppress",
		Short: "Manage rules that hide known non-sensitive values",
		Long: `Suppression rules hide values such as specimen numbers printed on sample
cards. Rules store a hash of the entity type and value, never the value itself.`,
	}
	cmd.PersistentFlags().String("suppressions", "", "suppression rules file (default: "+paths.GetSuppressionsFile()+")")

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a suppression rule",
		Args:  cobra.NoArgs,
		RunE:  a.runSuppressAdd,
	}
	af := add.Flags()
	af.String("type", "", "entity type of the value (e.g. MRN)")
	af.String("value", "", `value to suppress, or "-" to read it from stdin`)
	af.String("path", "", "only suppress in documents whose path or base name matches this glob (** allowed)")
	af.String("reason", "", "why the value is not sensitive")
	af.String("expires", "", "expire the rule after this long (e.g. 30d, 1w12h); empty never expires")

	list := &cobra.Command{
		Use:   "list",
		Short: "List suppression rules",
		Args:  cobra.NoArgs,
		RunE:  a.runSuppressList,
	}

	remove := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a suppression rule",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runSuppressRemove,
	}

	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired suppression rules",
		Args:  cobra.NoArgs,
		RunE:  a.runSuppressCleanup,
	}

	cmd.AddCommand(add, list, remove, cleanup)
	return cmd
}

func (a *app) suppressionManager() (*suppressions.SuppressionManager, error) {
	return suppressions.NewSuppressionManager(a.v.GetString("suppressions"))
}

func (a *app) runSuppressAdd(cmd *cobra.Command, _ []string) error {
	entityType, err := taxonomy.ParseEntityType(strings.ToUpper(strings.TrimSpace(a.v.GetString("type"))))
	if err != nil {
		return err
	}
	if !entityType.Sensitive() {
		return fmt.Errorf("entity type %s is not reported, nothing to suppress", entityType)
	}

	value := a.v.GetString("value")
	if value == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return fmt.Errorf("read value: %w", err)
		}
		value = strings.TrimSpace(string(data))
	}

	var expiresAt *time.Time
	if raw := a.v.GetString("expires"); raw != "" {
		d, err := str2duration.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid --expires %q: %w", raw, err)
		}
		if d <= 0 {
			return fmt.Errorf("--expires must be positive, got %s", raw)
		}
		t := time.Now().Add(d).UTC()
		expiresAt = &t
	}

	sm, err := a.suppressionManager()
	if err != nil {
		return err
	}
	rule, err := sm.AddSuppression(string(entityType), value, a.v.GetString("path"),
		a.v.GetString("reason"), os.Getenv("USER"), expiresAt)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added suppression rule %s for %s\n", rule.ID, rule.EntityType)
	a.log.Debug("suppression added", "id", rule.ID, "file", sm.GetConfigPath())
	return nil
}

func (a *app) runSuppressList(cmd *cobra.Command, _ []string) error {
	sm, err := a.suppressionManager()
	if err != nil {
		return err
	}
	rules := sm.ListSuppressions()
	if len(rules) == 0 {
		fmt.Fprintln(a.stdout, "No suppression rules found.")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tPATH\tSTATUS\tEXPIRES\tREASON")
	for _, r := range rules {
		status := "enabled"
		switch {
		case r.Expired(now):
			status = "expired"
		case !r.Enabled:
			status = "disabled"
		}
		expires := "never"
		if r.ExpiresAt != nil {
			expires = r.ExpiresAt.Format("2006-01-02 15:04")
		}
		path := r.Path
		if path == "" {
			path = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.EntityType, path, status, expires, r.Reason)
	}
	return w.Flush()
}

func (a *app) runSuppressRemove(cmd *cobra.Command, args []string) error {
	sm, err := a.suppressionManager()
	if err != nil {
		return err
	}
	if err := sm.RemoveSuppression(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Removed suppression rule %s\n", args[0])
	return nil
}

func (a *app) runSuppressCleanup(cmd *cobra.Command, _ []string) error {
	sm, err := a.suppressionManager()
	if err != nil {
		return err
	}
	removed, err := sm.CleanupExpired()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Removed %d expired suppression rule(s)\n", removed)
	return nil
}
