// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/notion2md/internal/cache"
	"github.com/pdiddy/notion2md/internal/httputil"
	"github.com/pdiddy/notion2md/internal/mirror"
	"github.com/pdiddy/notion2md/internal/notion"
	"github.com/pdiddy/notion2md/internal/secrets"
	"github.com/pdiddy/notion2md/pkg/convert"
	"github.com/pdiddy/notion2md/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <page-id-or-url>...",
	Short: "Convert Notion pages to Markdown",
	Long: `Convert fetches each page's block tree and renders it as Markdown.

By default every page is written below --out as <title>.md, with separate
child pages in a <title>/ directory next to it. Existing files are left
alone unless --force is given. With --stdout the documents are printed
instead, as Markdown, YAML, or JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.String("out", "notion", "output directory")
	f.Bool("stdout", false, "print documents instead of writing files")
	f.String("format", mirror.FormatMarkdown, "stdout format: md, yaml, or json")
	f.Bool("separate-child-pages", false, "write each child page as its own document")
	f.Bool("no-child-pages", false, "leave child pages out of the output")
	f.Bool("base64-images", false, "inline images as base64 data URLs")
	f.Int("total-pages", 0, "maximum listing pages fetched per block (0 = all)")
	f.String("cache", "", "SQLite file caching children listings")
	f.Bool("async", false, "run remote calls through the suspending converter")
	f.Bool("force", false, "overwrite existing files")
	f.Bool("frontmatter", true, "prepend YAML frontmatter to written files")

	bind := map[string]string{
		"mirror.output_dir":                  "out",
		"mirror.force":                       "force",
		"mirror.frontmatter":                 "frontmatter",
		"converter.separate_child_page":      "separate-child-pages",
		"converter.convert_images_to_base64": "base64-images",
		"converter.total_pages":              "total-pages",
		"cache.path":                         "cache",
	}
	for key, flag := range bind {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if noChildren, _ := cmd.Flags().GetBool("no-child-pages"); noChildren {
		cfg.Converter.ParseChildPages = types.Bool(false)
	}

	ids := make([]string, len(args))
	for i, arg := range args {
		id, err := notion.ParseID(arg)
		if err != nil {
			return err
		}
		ids[i] = id
	}

	cfg.Notion.Token = loadedSecrets.Value(secrets.NotionToken, cfg.Notion.Token)
	api, err := notion.New(cfg.Notion)
	if err != nil {
		return fmt.Errorf("%w: add it to %s/%s or set NOTION2MD_NOTION_TOKEN", err, secrets.DefaultDir, secrets.NotionToken)
	}

	var client convert.Client = api
	if cfg.Cache.Path != "" {
		store, err := cache.Open(cfg.Cache)
		if err != nil {
			return err
		}
		defer store.Close()
		if n, err := store.Purge(ctx); err != nil {
			slog.Warn("purging cache", "err", err)
		} else if n > 0 {
			slog.Info("purged expired cache entries", "count", n)
		}
		cached := store.Wrap(api)
		defer func() {
			hits, misses := cached.Stats()
			slog.Info("cache", "hits", hits, "misses", misses)
		}()
		client = cached
	}

	async, _ := cmd.Flags().GetBool("async")
	conv, err := buildConverter(client, cfg, async)
	if err != nil {
		return err
	}

	if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
		format, _ := cmd.Flags().GetString("format")
		return printDocuments(ctx, cmd, conv, ids, format)
	}

	m := mirror.New(cfg.Mirror, cfg.Converter.RootKey, conv, api)
	result, err := m.ConvertBatch(ctx, ids, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d of %d pages failed", result.Failed, result.Total())
	}
	return nil
}

// buildConverter returns the direct converter, or the suspending one
// behind a blocking adapter when async is set.
func buildConverter(client convert.Client, cfg types.Config, async bool) (mirror.Converter, error) {
	opts := []convert.Option{convert.WithLogger(slog.Default())}
	if cfg.Converter.ConvertImagesToBase64 {
		opts = append(opts, convert.WithAssetFetcher(httputil.NewFetcher(cfg.Notion.HTTPConfig)))
	}

	if !async {
		c, err := convert.New(client, cfg.Converter, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	ac, err := convert.NewAsync(convert.Suspending(client), cfg.Converter, opts...)
	if err != nil {
		return nil, err
	}
	return mirror.ConverterFunc(func(ctx context.Context, pageID string) (*types.DocumentMap, error) {
		return ac.PageToDocuments(ctx, pageID).Await()
	}), nil
}

func printDocuments(ctx context.Context, cmd *cobra.Command, conv mirror.Converter, ids []string, format string) error {
	failed := 0
	for _, id := range ids {
		docs, err := conv.PageToDocuments(ctx, id)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed:  %s (%v)\n", id, err)
			failed++
			continue
		}
		if err := mirror.Render(cmd.OutOrStdout(), docs, format); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(ids))
	}
	return nil
}
