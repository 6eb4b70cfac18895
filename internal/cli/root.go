// Package cli は reportctl コマンドを提供します。
package cli

import (
	"context"
	"fmt"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/app"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/platform/config"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/platform/logger"
	"github.com/spf13/cobra"
)

// Opener は設定ファイルのパスから App を構築します。
type Opener func(ctx context.Context, configPath string) (*app.App, error)

// OpenFromConfig は設定ファイルを読み込んで App を構築します。
// ログは標準エラーへ出力し、コマンドの出力と混ざらないようにします。
func OpenFromConfig(ctx context.Context, configPath string) (*app.App, error) {
	if configPath == "" {
		configPath = config.PathFromEnv()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, "console", "reportctl")
	if err != nil {
		return nil, err
	}

	return app.New(ctx, cfg, log)
}

type env struct {
	open       Opener
	configPath string
	employee   string
	app        *app.App
}

func (e *env) actorCode() (string, error) {
	if e.employee == "" {
		return "", fmt.Errorf("--employee is required for this command")
	}
	return e.employee, nil
}

// NewRootCmd は reportctl のルートコマンドを生成します。
func NewRootCmd(open Opener) *cobra.Command {
	e := &env{open: open}

	root := &cobra.Command{
		Use:           "reportctl",
		Short:         "Daily report management",
		Long:          "reportctl は日報の登録、更新、論理削除、参照、一覧出力を行います。",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context(), e.configPath)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			e.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.app == nil {
				return nil
			}
			return e.app.Close()
		},
	}

	root.PersistentFlags().StringVar(&e.configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	root.PersistentFlags().StringVar(&e.employee, "employee", "", "employee code of the acting user")

	root.AddCommand(reportCmd(e))
	root.AddCommand(employeeCmd(e))

	return root
}
