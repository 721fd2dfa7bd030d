package cmd

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/greenparkpeyzaj/greenpark/pkg/app"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
)

var (
	reconcileDelete bool

	jobsCmd = &cobra.Command{
		Use:   "jobs",
		Short: "run background jobs once",
	}

	// 执行一次孤儿对象对账并打印报告.
	jobsReconcileCmd = &cobra.Command{
		Use:   "reconcile",
		Short: "find (and optionally delete) objects no record refers to",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.Bootstrap(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer rt.Manager.Close()

			if cmd.Flags().Changed("delete") {
				rt.Config.Jobs.Reconcile.Delete = reconcileDelete
			}

			report, err := service.NewReconcileService(rt.Deps).RunWithTimeout(cmd.Context())
			if err != nil {
				return err
			}

			b, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal report: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			return nil
		},
	}
)

// registerJobsCommands 注册任务相关命令.
func registerJobsCommands() {
	jobsReconcileCmd.Flags().BoolVar(&reconcileDelete, "delete", false, "delete orphan objects instead of only reporting them")

	jobsCmd.AddCommand(jobsReconcileCmd)
	rootCmd.AddCommand(jobsCmd)
}
