// Command tracectl is the operations CLI for the bakery traceability service.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go-bakery-trace/internal/bootstrap"
	"go-bakery-trace/pkg/config"
	"go-bakery-trace/pkg/database"
	"go-bakery-trace/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cliActor = "tracectl"

// env is the runtime shared by every subcommand.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

var rt = &env{}

var rootCmd = &cobra.Command{
	Use:           "tracectl",
	Short:         "Operate the bakery lot traceability service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rt.cfg = config.Load()
		rt.log = logger.NewZapLogger(&logger.ZapLoggerConfig{
			IsDevelopment: rt.cfg.IsDevelopment(),
			Encoding:      "console",
			Level:         rt.cfg.Logger.Level,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rt.log != nil {
			_ = rt.log.Sync()
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd, forwardCmd, backwardCmd, recallCmd, auditLotsCmd, resetPasswordCmd)
}

// connect opens the database once and migrates it.
func (e *env) connect() (*gorm.DB, error) {
	if e.db != nil {
		return e.db, nil
	}
	db, err := database.ConnectDB(e.cfg.Postgres, false)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := bootstrap.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	e.db = db
	return db, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
