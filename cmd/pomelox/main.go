package main

import (
	"os"

	"github.com/pomelox/pomelox/pkg/version"
	"github.com/spf13/cobra"
)

/**
 * @file: main.go
 * @description: pomelox 服务与运维命令行
 */

var configFile string

var rootCmd = &cobra.Command{
	Use:   "pomelox",
	Short: "pomelox activity stats and QR identity service",
	Long:  "pomelox serves activity statistics, bookmark/review state and QR identity tokens for the PomeloX app",
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			return
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "conf", "c", "conf.d/config.toml", "conf file path, e.g. -c ./conf.d/config.toml")

	rootCmd.AddCommand(version.VersionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(qrCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
