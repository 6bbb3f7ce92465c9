// Package main provides the entry point for the TypeRank server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/typerank/typerank-server/internal/config"
	"github.com/typerank/typerank-server/internal/di"
	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/logger"
	"github.com/typerank/typerank-server/internal/seed"
	"github.com/typerank/typerank-server/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "typerank",
		Short:        "Typing test attempts, statistics and leaderboards",
		SilenceUsage: true,
		RunE:         runServe,
	}
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newPromoteCmd())

	return rootCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	injector := di.NewContainer(cfg)
	if err := di.Bootstrap(injector); err != nil {
		_ = shutdown(injector)
		return fmt.Errorf("bootstrap server: %w", err)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutting down server gracefully...")

	// The container shuts services down in reverse dependency order:
	// HTTP server first, store last.
	if err := shutdown(injector); err != nil {
		log.Error("Shutdown error", "error", err)
		return err
	}

	log.Info("Server stopped")
	return nil
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load game modes and practice texts into the database",
		Long: "Seeds game modes and practice texts from a TOML corpus. Without --file the built-in corpus is used.\n" +
			"Seeding is idempotent: existing game modes and identical texts are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			corpus := seed.Default()
			if file != "" {
				if corpus, err = seed.LoadFile(file); err != nil {
					return err
				}
			}

			injector := di.NewContainer(cfg)
			defer func() { _ = shutdown(injector) }()

			seeder := do.MustInvoke[*seed.Seeder](injector)
			res, err := seeder.Apply(context.Background(), corpus)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "game modes created: %d, texts created: %d, texts skipped: %d\n",
				res.GameModesCreated, res.TextsCreated, res.TextsSkipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "TOML corpus to load instead of the built-in one")

	return cmd
}

func newPromoteCmd() *cobra.Command {
	var email, role string

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Change the role of an existing account",
		Long:  "Sets the role of the account with the given email. Admins may delete other users through the API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			injector := di.NewContainer(cfg)
			defer func() { _ = shutdown(injector) }()

			users := do.MustInvoke[*service.UserService](injector)
			user, err := users.SetRole(cmd.Context(), email, domain.Role(role))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the account to change")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "role to assign (USER or ADMIN)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// shutdown stops every invoked service and reports the ones that failed.
func shutdown(injector *do.RootScope) error {
	if report := injector.Shutdown(); report != nil && len(report.Errors) > 0 {
		return report
	}
	return nil
}
