package cmd

import (
	"fmt"
	"os"

	internalApp "github.com/haierkeys/fast-vault-sync-service/internal/app"
	"github.com/haierkeys/fast-vault-sync-service/internal/dao"
	"github.com/haierkeys/fast-vault-sync-service/internal/model"
	"github.com/haierkeys/fast-vault-sync-service/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [-c config_file]",
	Short: "Create or update the database schema",
	Long: `Create or update the database schema.

Tables are migrated with gorm AutoMigrate, so running the command again is safe.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		if len(configPath) <= 0 {
			configPath = "config/config.yaml"
		}

		appConfig, configRealpath, err := internalApp.LoadConfig(configPath)
		if err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Loading config from: %s\n", configRealpath)

		lg, err := logger.NewLogger(appConfig.GetLoggerConfig())
		if err != nil {
			fmt.Printf("Failed to init logger: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = lg.Sync() }()

		if err := ensureDirs(appConfig); err != nil {
			lg.Error("create storage directories failed", zap.Error(err))
			os.Exit(1)
		}

		// 迁移由本命令显式执行，引擎创建时不再重复
		dbConfig := appConfig.GetDatabaseConfig()
		dbConfig.AutoMigrate = false
		db, err := dao.NewDBEngineWithConfig(dbConfig, lg)
		if err != nil {
			lg.Error("connect database failed", zap.Error(err))
			os.Exit(1)
		}

		for _, name := range model.Models() {
			if err := model.AutoMigrate(db, name); err != nil {
				lg.Error("migrate failed", zap.String("table", name), zap.Error(err))
				os.Exit(1)
			}
			fmt.Printf("migrated: %s\n", name)
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringP("config", "c", "", "config file")
}
