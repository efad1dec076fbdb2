package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"oracle/core"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

type (
	assetRow struct {
		Key         string `json:"key"`
		Complexity  uint8  `json:"complexity"`
		PriceSource string `json:"price_source"`
	}

	configRow struct {
		Entry       string `json:"entry"`
		PriceSource string `json:"price_source"`
	}
)

var assetsCmd = &cobra.Command{
	Use:     "assets",
	Aliases: []string{"asset"},
	Short:   "manage oracle assets",
}

var updateAssetsCmd = &cobra.Command{
	Use:   "update",
	Short: "add and remove oracle assets in one atomic update",
	Long: `flags->
	add: name=<price source json>, e.g. eur={"type":"value_as","asset":"usd","multiplier":"0.5"}
	remove: name of a registered asset`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := persistentStore(cfg.Oracle); err != nil {
			cmd.PrintErrln("update assets:", err)
			return
		}

		ctx := cmd.Context()
		oracle := provideOracleService(ctx, provideOracleStore(provideDatabase))

		adds, _ := cmd.Flags().GetStringArray("add")
		removes, _ := cmd.Flags().GetStringSlice("remove")

		toAdd, err := parseAssetConfigs(adds)
		if err != nil {
			cmd.PrintErrln("parse assets:", err)
			return
		}

		toRemove := make([]core.AssetEntry, 0, len(removes))
		for _, name := range removes {
			toRemove = append(toRemove, core.NewAssetEntry(name))
		}

		if err := oracle.UpdateAssets(ctx, toAdd, toRemove); err != nil {
			cmd.PrintErrln("update assets:", err)
			return
		}

		cmd.Printf("%d added, %d removed\n", len(toAdd), len(toRemove))
	},
}

var listAssetsCmd = &cobra.Command{
	Use:   "list [start_after] [limit]",
	Short: "list registered assets in key order",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		oracle := provideOracleService(ctx, provideOracleStore(provideDatabase))

		var after *core.AssetInfo
		if len(args) > 0 && args[0] != "" {
			info, err := core.ParseAssetInfo(args[0])
			if err != nil {
				cmd.PrintErrln(err)
				return
			}
			after = &info
		}

		limit, err := limitArg(args, 1)
		if err != nil {
			cmd.PrintErrln(err)
			return
		}

		assets, err := oracle.PagedAssetInfo(ctx, after, limit)
		if err != nil {
			cmd.PrintErrln("list assets:", err)
			return
		}

		for _, a := range assets {
			source, _ := json.Marshal(a.PriceSource)
			printView(cmd, assetRow{
				Key:         a.Info.Key(),
				Complexity:  a.Complexity,
				PriceSource: string(source),
			})
			cmd.Println()
		}
	},
}

var listConfigsCmd = &cobra.Command{
	Use:   "configs [start_after] [limit]",
	Short: "list asset configs in name order",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		oracle := provideOracleService(ctx, provideOracleStore(provideDatabase))

		var after core.AssetEntry
		if len(args) > 0 {
			after = core.NewAssetEntry(args[0])
		}

		limit, err := limitArg(args, 1)
		if err != nil {
			cmd.PrintErrln(err)
			return
		}

		configs, err := oracle.PagedAssetConfig(ctx, after, limit)
		if err != nil {
			cmd.PrintErrln("list configs:", err)
			return
		}

		for _, c := range configs {
			printView(cmd, configRow{Entry: c.Entry.String(), PriceSource: c.Source.String()})
			cmd.Println()
		}
	},
}

var assetConfigCmd = &cobra.Command{
	Use:   "config <name>",
	Short: "show the price source configured for an asset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		oracle := provideOracleService(ctx, provideOracleStore(provideDatabase))

		entry := core.NewAssetEntry(args[0])
		source, err := oracle.AssetConfig(ctx, entry)
		if err != nil {
			cmd.PrintErrln(err)
			return
		}

		printView(cmd, configRow{Entry: entry.String(), PriceSource: source.String()})
	},
}

func parseAssetConfigs(values []string) ([]*core.AssetConfig, error) {
	configs := make([]*core.AssetConfig, 0, len(values))
	for _, v := range values {
		parts := strings.SplitN(v, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid asset %q, want name=<price source json>", v)
		}

		config := &core.AssetConfig{Entry: core.NewAssetEntry(parts[0])}
		if err := json.Unmarshal([]byte(parts[1]), &config.Source); err != nil {
			return nil, fmt.Errorf("invalid price source of %s: %w", parts[0], err)
		}

		configs = append(configs, config)
	}

	return configs, nil
}

// persistentStore updates made by a one shot command are lost with an in memory store
func persistentStore(cfg core.Oracle) error {
	if cfg.Store == core.StoreMemory {
		return errors.New("oracle store is memory, updates would not outlive this command; set oracle.assets in the config or use the sql store")
	}

	return nil
}

// limitArg nil when the limit arg is absent
func limitArg(args []string, idx int) (*int, error) {
	if len(args) <= idx {
		return nil, nil
	}

	limit, err := cast.ToIntE(args[idx])
	if err != nil {
		return nil, err
	}

	return &limit, nil
}

func init() {
	rootCmd.AddCommand(assetsCmd)
	assetsCmd.AddCommand(updateAssetsCmd, listAssetsCmd, listConfigsCmd, assetConfigCmd)

	updateAssetsCmd.Flags().StringArray("add", nil, "asset to add, name=<price source json>")
	updateAssetsCmd.Flags().StringSlice("remove", nil, "asset names to remove")
}
