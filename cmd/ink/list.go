// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/ink/entry"
	"github.com/gogpu/ink/store"
)

var (
	listDB    string
	listOwner string
	listFrom  string
	listTo    string
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the diary entries of an owner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := entry.ParseFilter(listFrom, listTo)
		if err != nil {
			return err
		}
		st, err := store.Open(listDB)
		if err != nil {
			return err
		}
		defer st.Close()

		list, err := st.List(cmd.Context(), listOwner, f)
		if err != nil {
			return err
		}
		return printEntries(cmd.OutOrStdout(), list, listJSON)
	},
}

func printEntries(w io.Writer, list []entry.Entry, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	for _, e := range list {
		summary := e.Content
		if e.Kind() == entry.KindHandwritten {
			if rec, err := e.Decode(); err == nil {
				summary = fmt.Sprintf("[%d pages, %d strokes] %s", rec.Len(), rec.StrokeCount(), e.Content)
			}
		}
		if r := []rune(summary); len(r) > 60 {
			summary = string(r[:57]) + "..."
		}
		fmt.Fprintf(w, "%s  %s  %s\n", e.ID, e.Heading(time.Local), summary)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listDB, "db", "ink.db", "SQLite database path")
	listCmd.Flags().StringVar(&listOwner, "owner", "", "Owner whose entries to list")
	listCmd.Flags().StringVar(&listFrom, "from", "", "First day, YYYY-MM-DD")
	listCmd.Flags().StringVar(&listTo, "to", "", "Last day, YYYY-MM-DD (needs --from)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	_ = listCmd.MarkFlagRequired("owner")
}
