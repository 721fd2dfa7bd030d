package cmd

import (
	"github.com/spf13/cobra"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	mq "github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/mq"
)

var (
	mqCmd = &cobra.Command{
		Use:     "mq",
		Short:   "event broker commands",
		Aliases: []string{"messagequeue"},
	}

	mqListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list registered event brokers",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			var active configs.MQType
			if cfg := loadedConfig(); cfg != nil && cfg.Events.Enabled {
				active = cfg.MQ.Type
			}

			printBackends(cmd.OutOrStdout(), "mq", mq.GetRegisteredMQTypes(), active)
		},
	}
)

// registerMQCommands 注册 MQ 相关命令.
func registerMQCommands() {
	rootCmd.AddCommand(mqCmd)
	mqCmd.AddCommand(mqListCmd)
}
