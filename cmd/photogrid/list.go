package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vbonduro/photogrid/internal/config"
	"github.com/vbonduro/photogrid/internal/domain"
	"github.com/vbonduro/photogrid/internal/web"
)

func newListCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the gallery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			return writeGallery(cmd.OutOrStdout(), a.gallery.Images(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "plain", "output format: plain, json or yaml")
	return cmd
}

type galleryDoc struct {
	Columns int      `json:"columns" yaml:"columns"`
	Images  []string `json:"images" yaml:"images"`
}

func writeGallery(w io.Writer, g domain.Gallery, format string) error {
	doc := galleryDoc{Columns: web.GridColumns, Images: g.Strings()}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "plain", "":
		return writeGrid(w, g, web.GridColumns)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeGrid lays the gallery out in rows of columns cells, in display order.
func writeGrid(w io.Writer, g domain.Gallery, columns int) error {
	if len(g) == 0 {
		_, err := fmt.Fprintln(w, "no photos yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for start := 0; start < len(g); start += columns {
		end := min(start+columns, len(g))
		if _, err := fmt.Fprintln(tw, strings.Join(g[start:end].Strings(), "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
