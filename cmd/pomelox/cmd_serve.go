package main

import (
	"github.com/pomelox/pomelox/internal/pomelox/bootstrap"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bootstrap 初始化应用
		app, cleanup, err := bootstrap.Bootstrap(configFile, initApp)
		if err != nil {
			return err
		}

		// 启动应用并等待退出信号
		bootstrap.Run(app, cleanup)
		return nil
	},
}
