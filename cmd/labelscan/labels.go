// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"labelscan/internal/taxonomy"
)

func newLabelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List the recognized field labels and their entity types",
		Args:  cobra.NoArgs,
		RunE:  a.runLabels,
	}
	cmd.Flags().String("type", "", "only list labels of this entity type (NONE lists non-sensitive labels)")
	return cmd
}

func (a *app) runLabels(cmd *cobra.Command, _ []string) error {
	want := strings.ToUpper(strings.TrimSpace(a.v.GetString("type")))
	var filter *taxonomy.EntityType
	if want != "" {
		t, err := taxonomy.ParseEntityType(want)
		if err != nil {
			return err
		}
		filter = &t
	}

	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tTYPE")
	n := 0
	for _, e := range taxonomy.Entries() {
		if filter != nil && e.Type != *filter {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", e.Label, e.Type)
		n++
	}
	if err := w.Flush(); err != nil {
		return err
	}
	a.log.Debug("listed labels", "count", n, "total", taxonomy.Len())
	return nil
}
