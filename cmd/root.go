// Package cmd 命令行入口：run 启动服务，migrate 迁移数据库，token 签发令牌，version 打印版本
package cmd

import (
	"os"

	"github.com/haierkeys/fast-vault-sync-service/internal/app"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configDefault 内置默认配置，首次运行时写出
var configDefault string

var rootCmd = &cobra.Command{
	Use:           "fast-vault-sync-service",
	Short:         app.Name,
	Long:          app.Name + " stores end-to-end encrypted items and syncs them between clients and shared vaults.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. defaultConfig is the embedded config/config.yaml.
func Execute(defaultConfig string) {
	configDefault = defaultConfig
	if err := rootCmd.Execute(); err != nil {
		bootstrapLogger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
