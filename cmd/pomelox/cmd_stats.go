package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/pomelox/pomelox/internal/pomelox/model"
	"github.com/spf13/cobra"
)

var statsToken string

var statsCmd = &cobra.Command{
	Use:   "stats <userId>",
	Short: "Compute activity stats of a user against the configured upstream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		statsService, cleanup, err := initStatsService(configFile)
		if err != nil {
			return err
		}
		defer cleanup()

		token := statsToken
		if token == "" {
			token = os.Getenv("POMELOX_TOKEN")
		}

		stats := statsService.GetUserActivityStats(cmd.Context(), model.Session{Token: token}, args[0])
		out, err := sonic.ConfigStd.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsToken, "token", "t", "", "bearer token for the PomeloX API (default $POMELOX_TOKEN)")
}
