package cmd

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/greenparkpeyzaj/greenpark/pkg/app"
	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
	kv "github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/kv"
)

var (
	kvCmd = &cobra.Command{
		Use:     "kv",
		Short:   "key-value store commands",
		Aliases: []string{"keyvalue"},
	}

	kvListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list registered kv backends",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			var active configs.KVType
			if cfg := loadedConfig(); cfg != nil {
				active = cfg.KV.Type
			}

			printBackends(cmd.OutOrStdout(), "kv", kv.GetRegisteredKVTypes(), active)
		},
	}

	// 打印尚未确认且未过期的预签名上传预留.
	kvReservationsCmd = &cobra.Command{
		Use:   "reservations",
		Short: "print live presigned upload reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.Bootstrap(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer rt.Manager.Close()

			entries, err := service.NewUploadService(rt.Deps).Reservations(cmd.Context())
			if err != nil {
				return err
			}

			b, err := sonic.ConfigStd.MarshalIndent(entries, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal reservations: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			return nil
		},
	}
)

// registerKVCommands 注册 KV 相关命令.
func registerKVCommands() {
	rootCmd.AddCommand(kvCmd)
	kvCmd.AddCommand(kvListCmd, kvReservationsCmd)
}
