// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/export"
)

// renderOptions select the output of renderFile.
type renderOptions struct {
	Format string
	Size   ink.Size
	// Page selects one page; negative renders every page.
	Page int
	// Out is the output path. Empty derives it from the input.
	Out string
}

var (
	renderFormat string
	renderPage   int
	renderOut    string
	renderWidth  int
	renderHeight int
)

var renderCmd = &cobra.Command{
	Use:   "render <recordings.json>...",
	Short: "Render recorded pages to image or PDF files",
	Long: `Render reads recordings maps (the recordings_map value of an entry)
and writes them in the chosen format. PDF files hold every page; the image
formats write one file per page unless --page is set.

Formats: ` + strings.Join(export.Formats(), ", "),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := renderOptions{
			Format: renderFormat,
			Size:   ink.Size{Width: renderWidth, Height: renderHeight},
			Page:   renderPage,
			Out:    renderOut,
		}
		if opts.Out != "" && len(args) > 1 {
			return fmt.Errorf("--out needs exactly one input, got %d", len(args))
		}
		for _, in := range args {
			written, err := renderFile(cmd.Context(), in, opts)
			if err != nil {
				return err
			}
			for _, w := range written {
				fmt.Fprintln(cmd.OutOrStdout(), w)
			}
		}
		return nil
	},
}

// renderFile renders the recordings stored at in and returns the paths
// it wrote.
func renderFile(ctx context.Context, in string, opts renderOptions) ([]string, error) {
	ex, err := export.New(opts.Format)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return nil, err
	}
	rec, err := ink.Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}

	ext := extension(opts.Format, ex.ContentType())
	base := opts.Out
	if base == "" {
		base = stem(in) + ext
	}

	// Multi-page documents and single selected pages make one file.
	if ex.ContentType() == "application/pdf" || opts.Page >= 0 {
		page := max(opts.Page, 0)
		if err := writeExport(ctx, ex, base, rec, export.Options{Size: opts.Size, Page: page}); err != nil {
			return nil, err
		}
		return []string{base}, nil
	}

	var written []string
	for page := range rec.Len() {
		out := base
		if rec.Len() > 1 {
			out = strings.TrimSuffix(base, ext) + fmt.Sprintf("-%d", page) + ext
		}
		if err := writeExport(ctx, ex, out, rec, export.Options{Size: opts.Size, Page: page}); err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}

func writeExport(ctx context.Context, ex export.Exporter, path string, rec *ink.Recordings, opts export.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ex.Export(ctx, f, rec, opts); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Debug("rendered", "path", path, "page", opts.Page)
	return nil
}

// stem strips the .json and .ink suffixes of a recordings file name.
func stem(path string) string {
	return strings.TrimSuffix(strings.TrimSuffix(path, ".json"), ".ink")
}

func extension(format, contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "application/pdf":
		return ".pdf"
	}
	return "." + format
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "png", "Output format")
	renderCmd.Flags().IntVarP(&renderPage, "page", "p", -1, "Render only this page")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file (single input only)")
	renderCmd.Flags().IntVar(&renderWidth, "width", export.DefaultSize.Width, "Page width in pixels")
	renderCmd.Flags().IntVar(&renderHeight, "height", export.DefaultSize.Height, "Page height in pixels")
}
