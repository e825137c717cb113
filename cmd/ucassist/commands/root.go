package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"ucassist-backend/internal/components/chrono"
	"ucassist-backend/internal/components/configutil"
	"ucassist-backend/internal/components/telemetry"
	"ucassist-backend/internal/db"
	"ucassist-backend/internal/service"
	"ucassist-backend/internal/snapshot"

	"github.com/spf13/cobra"
)

type Config struct {
	// Username and Password are only read from the config file, the program
	// never writes them anywhere.
	Username  string           `json:"username"`
	Password  string           `json:"password"`
	Verbose   bool             `json:"verbose"`
	Telemetry telemetry.Config `json:"telemetry"`
	Database  db.Config        `json:"database"`
	// Keep is the number of snapshots kept per operation.
	Keep int `json:"keep"`
}

const defaultKeep = 20

type globals struct {
	config  Config
	service service.Service
	// store is nil unless a database was configured.
	store *snapshot.Store
	conn  *sql.DB
	otel  telemetry.Otel
	tel   telemetry.API
}

type globalsKey struct{}

func getGlobals(ctx context.Context) *globals {
	return ctx.Value(globalsKey{}).(*globals)
}

// current is set by the root pre-run so resources are released even when a
// command fails.
var current *globals

func (g *globals) close() {
	if g.conn != nil {
		err := g.conn.Close()
		if err != nil {
			slog.Warn("close database", "err", err)
		}
	}
	err := g.otel.Shutdown(context.Background())
	if err != nil {
		slog.Warn("shutdown telemetry", "err", err)
	}
}

var (
	configPath string
	verbose    bool
	tableOut   bool
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "ucassist",
	Short: "ucassist logs into the UCAS systems and prints courses, exams, grades and books.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig(configPath, cmd.Flags().Changed("config"))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
		if verbose {
			cfg.Verbose = true
		}
		if dbPath != "" {
			cfg.Database = db.Config{File: dbPath}
		}
		if cfg.Keep == 0 {
			cfg.Keep = defaultKeep
		}

		telemetry.InitSlog(cfg.Verbose)
		tel := telemetry.SlogAPI{}

		otel, err := telemetry.Setup(cmd.Context(), "ucassist", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}

		svc, err := service.NewService(service.WithTelemetry(tel))
		if err != nil {
			return err
		}

		g := &globals{
			config:  cfg,
			service: svc,
			otel:    otel,
			tel:     tel,
		}
		if !cfg.Database.Empty() {
			conn, err := cfg.Database.OpenDB()
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			err = db.Migrate(cmd.Context(), conn)
			if err != nil {
				conn.Close()
				return err
			}
			store := snapshot.NewStore(conn, chrono.StandardImpl{}, cfg.Keep, tel)
			g.conn = conn
			g.store = &store
		}

		current = g
		cmd.SetContext(context.WithValue(cmd.Context(), globalsKey{}, g))
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// readConfig looks for the default config in the working directory and its
// parents. A path given with --config is read as is.
func readConfig(path string, explicit bool) (Config, error) {
	if explicit || filepath.IsAbs(path) {
		return configutil.ReadConfig[Config](path)
	}
	return configutil.ReadRecursively[Config](path)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "Path to the json5 config, a .local.json5 file next to it overrides it.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
	rootCmd.PersistentFlags().BoolVar(&tableOut, "table", false, "Print records as a table instead of json.")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Sqlite file to keep snapshots of fetched records in.")
}

func ExecuteContext(ctx context.Context) error {
	current = nil
	err := rootCmd.ExecuteContext(ctx)
	if current != nil {
		current.close()
	}
	return err
}
