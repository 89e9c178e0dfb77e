package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"conceptme/internal/config"
	"conceptme/internal/database"
	"conceptme/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the ConceptMe Oracle schema",
		SilenceUsage: true,
	}
	cmd.AddCommand(newUpCmd(), newStatusCmd())
	return cmd
}

func newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *database.Migrator) error {
				n, err := m.Up(ctx)
				if err != nil {
					return err
				}
				logger.Get().Info("Migrations completed", zap.Int("applied", n))
				return nil
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *database.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
				for _, st := range statuses {
					appliedAt := "pending"
					if st.AppliedAt != nil {
						appliedAt = st.AppliedAt.Format(time.RFC3339)
					}
					fmt.Fprintf(w, "%d\t%s\t%s\n", st.Version, st.Name, appliedAt)
				}
				return w.Flush()
			})
		},
	}
}

func withMigrator(ctx context.Context, fn func(context.Context, *database.Migrator) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	if ctx == nil {
		ctx = context.Background()
	}
	db, err := database.NewSQLXOracleDB(ctx, cfg.DB, cfg.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := database.NewMigrator(db.DB)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(ctx, m)
}
