// Package cli — командная строка pedidos на cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/pedidos/internal/app"
)

const closeTimeout = 5 * time.Second

// globalOptions — флаги корневой команды и конфиг, загруженный перед запуском подкоманды.
type globalOptions struct {
	configPath string
	dataFile   string
	logLevel   string

	cfg app.Config
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "pedidos",
		Short:         "Журнал заказов: учёт, фильтры, итоги и экспорт в CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Путь к YAML-конфигу (или PEDIDOS_CONFIG)")
	flags.StringVar(&opts.dataFile, "data", "", "Файл журнала; перекрывает data_file из конфига")
	flags.StringVar(&opts.logLevel, "log-level", "", "Уровень логирования; перекрывает log_level")

	cmd.AddCommand(newAddCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newToggleCmd(opts))
	cmd.AddCommand(newRemoveCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newTailCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute запускает CLI с контекстом, который отменяется по сигналу.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func (o *globalOptions) load(cmd *cobra.Command) error {
	cfg, err := app.LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data") {
		cfg.DataFile = o.dataFile
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	log.SetOutput(cmd.ErrOrStderr())
	if err := app.ConfigureLogging(cfg.LogLevel); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

// withLedger открывает журнал, выполняет fn и дописывает снимок на диск.
func (o *globalOptions) withLedger(fn func(deps *app.Dependencies) error) (err error) {
	deps, err := app.NewDependencies(o.cfg, log.WithField("component", "cli"))
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if closeErr := deps.Close(ctx); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close ledger: %w", closeErr))
		}
	}()
	return fn(deps)
}
