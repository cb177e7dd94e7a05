// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/notion2md/internal/notion"
	"github.com/pdiddy/notion2md/internal/secrets"
	"github.com/pdiddy/notion2md/pkg/types"
)

// setDefaults registers the default value of every configuration key so
// environment variables and Unmarshal see the full key set.
func setDefaults(v *viper.Viper) {
	conv := types.DefaultConverterConfig()
	v.SetDefault("converter.parse_child_pages", conv.ChildPagesEnabled())
	v.SetDefault("converter.separate_child_page", conv.SeparateChildPage)
	v.SetDefault("converter.convert_images_to_base64", conv.ConvertImagesToBase64)
	v.SetDefault("converter.total_pages", conv.TotalPages)
	v.SetDefault("converter.link_host", conv.LinkHost)
	v.SetDefault("converter.annotation_order", conv.AnnotationOrder)
	v.SetDefault("converter.root_key", conv.RootKey)

	v.SetDefault("notion.token", "")
	v.SetDefault("notion.base_url", notion.DefaultBaseURL)
	v.SetDefault("notion.version", notion.DefaultVersion)
	v.SetDefault("notion.page_size", 100)
	v.SetDefault("notion.timeout", 60*time.Second)
	v.SetDefault("notion.user_agent", "notion2md/"+version)
	v.SetDefault("notion.max_retries", 5)

	v.SetDefault("cache.path", "")
	v.SetDefault("cache.ttl", time.Duration(0))

	v.SetDefault("mirror.output_dir", "notion")
	v.SetDefault("mirror.force", false)
	v.SetDefault("mirror.frontmatter", true)
}

// loadConfig decodes the effective configuration from v.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		if cfg.Notion.Token != "" || loadedSecrets.Value(secrets.NotionToken, "") != "" {
			cfg.Notion.Token = "<redacted>"
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
