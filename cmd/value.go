package cmd

import (
	"oracle/core"
	"oracle/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type (
	valueRow struct {
		Asset  string `json:"asset"`
		Amount string `json:"amount"`
		Value  string `json:"value"`
	}

	accountRow struct {
		Account    string `json:"account"`
		BaseAsset  string `json:"base_asset"`
		TotalValue string `json:"total_value"`
	}
)

var baseAssetCmd = &cobra.Command{
	Use:   "base-asset",
	Short: "show the base asset all values are expressed in",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		oracle := provideOracleService(ctx, provideOracleStore(provideDatabase))

		info, err := oracle.BaseAsset(ctx)
		if err != nil {
			cmd.PrintErrln(err)
			return
		}

		cmd.Println(info.Key())
	},
}

var valueCmd = &cobra.Command{
	Use:   "value <name> [amount]",
	Short: "value an amount of a registered asset, defaults to the holding of the oracle account",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		oracle := provideOracleService(ctx, provideOracleStore(provideDatabase))

		entry := core.NewAssetEntry(args[0])
		account, _ := cmd.Flags().GetString("account")
		if account == "" {
			account = cfg.Oracle.Account
		}

		var amount *decimal.Decimal
		if len(args) > 1 {
			v, err := number.Amount(args[1])
			if err != nil {
				cmd.PrintErrln(err)
				return
			}
			amount = &v
		} else {
			holding, err := oracle.HoldingAmount(ctx, account, entry)
			if err != nil {
				cmd.PrintErrln(err)
				return
			}
			amount = &holding
		}

		value, err := oracle.TokenValue(ctx, account, entry, amount)
		if err != nil {
			cmd.PrintErrln(err)
			return
		}

		printView(cmd, valueRow{
			Asset:  entry.String(),
			Amount: amount.String(),
			Value:  value.String(),
		})
	},
}

var accountValueCmd = &cobra.Command{
	Use:   "account-value [address]",
	Short: "value all holdings of an account, defaults to the oracle account",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		oracle := provideOracleService(ctx, provideOracleStore(provideDatabase))

		account := cfg.Oracle.Account
		if len(args) > 0 {
			account = args[0]
		}

		value, err := oracle.AccountValue(ctx, account)
		if err != nil {
			cmd.PrintErrln(err)
			return
		}

		printView(cmd, accountRow{
			Account:    account,
			BaseAsset:  value.TotalValue.Info.Key(),
			TotalValue: value.TotalValue.Amount.String(),
		})

		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			for _, b := range value.Breakdown {
				cmd.Println(" ", b.Info.Key(), b.Amount)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(baseAssetCmd, valueCmd, accountValueCmd)

	valueCmd.Flags().String("account", "", "account holding the asset")
	accountValueCmd.Flags().BoolP("verbose", "v", false, "print the value breakdown")
}
