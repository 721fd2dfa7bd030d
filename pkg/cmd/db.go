package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenparkpeyzaj/greenpark/pkg/app"
	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/db"
)

var (
	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "relational store commands",
	}

	dbListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list registered database drivers",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, args []string) {
			var active configs.DBType
			if cfg := loadedConfig(); cfg != nil {
				active = cfg.DB.Type
			}

			printBackends(cmd.OutOrStdout(), "database", db.GetRegisteredDBTypes(), active)
		},
	}

	// 建表或补齐内容表结构，不受 db.auto_migrate 影响.
	dbMigrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "create or update the content tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.Bootstrap(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer rt.Manager.Close()

			if !rt.Config.DB.AutoMigrate {
				if err := rt.Manager.DB.AutoMigrate(model.All()...); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables (%s)\n", len(model.All()), rt.Config.DB.Type)

			return nil
		},
	}
)

// registerDBCommands 注册数据库相关命令.
func registerDBCommands() {
	rootCmd.AddCommand(dbCmd)

	dbCmd.AddCommand(dbListCmd, dbMigrateCmd)
}
