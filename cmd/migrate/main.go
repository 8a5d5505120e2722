package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/config"
	"github.com/pageza/platewise/backend/internal/database"
	"github.com/pageza/platewise/backend/internal/logging"
)

var (
	migrationsDir string
	catalogFile   string

	db     *gorm.DB
	sqlDB  *sql.DB
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the platewise database schema and catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger, err = logging.New(cfg.Environment == config.Production, cfg.LogLevel)
		if err != nil {
			return err
		}
		sqlDB, err = sql.Open("postgres", cfg.PostgresDSN())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		db, err = database.OpenSQL(sqlDB)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if sqlDB != nil {
			sqlDB.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending SQL migrations, then sync the model schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		applied, err := database.RunSQLMigrations(db, migrationsDir, logger)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", len(applied))
		for _, name := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert shopping categories and achievement types",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(catalogFile)
		if err != nil {
			return err
		}
		if err := database.Seed(db, catalog, logger); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d categories and %d achievement types\n",
			len(catalog.ShoppingCategories), len(catalog.AchievementTypes))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List applied SQL migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := database.AppliedMigrations(db)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No migrations applied")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "NAME\tAPPLIED")
		for _, r := range rows {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Name, r.AppliedAt.Format(time.RFC3339))
		}
		return nil
	},
}

func loadCatalog(path string) (*database.Catalog, error) {
	if path == "" {
		return database.DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return database.LoadCatalog(data)
}

func init() {
	upCmd.Flags().StringVar(&migrationsDir, "dir", "migrations", "directory holding *.sql migrations")
	seedCmd.Flags().StringVar(&catalogFile, "file", "", "YAML catalog to load instead of the built-in one")
	rootCmd.AddCommand(upCmd, seedCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}
