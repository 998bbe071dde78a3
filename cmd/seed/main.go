package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"postauth/internal/auth"
	"postauth/internal/config"
	"postauth/internal/db"
	"postauth/internal/logger"
	"postauth/internal/repository"
	"postauth/internal/service"
)

const commandTimeout = 30 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfg *config.Config
		log *zap.Logger
		gdb *gorm.DB
	)

	root := &cobra.Command{
		Use:          "seed",
		Short:        "Bootstrap roles and administrator accounts",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			log = logger.New(logger.Config{Env: cfg.LogEnv, Level: cfg.LogLevel, ServiceName: "seed"})

			var err error
			gdb, err = db.Open(cfg.DBDriver, cfg.DatabaseDSN, db.WithLogger(log))
			if err != nil {
				return err
			}
			return db.Migrate(gdb)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}

	rolesCmd := &cobra.Command{
		Use:   "roles",
		Short: "Ensure the built-in admin and user roles exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			roles := service.NewRoleService(repository.NewRoleRepository(gdb), repository.NewUserRepository(gdb), nil, log)
			if err := roles.EnsureDefaultRoles(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "roles ok")
			return nil
		},
	}

	var in service.RegisterInput
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Grant the admin role to an account, creating it if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Email == "" {
				return fmt.Errorf("--email is required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			userRepo := repository.NewUserRepository(gdb)
			roleRepo := repository.NewRoleRepository(gdb)
			if err := service.NewRoleService(roleRepo, userRepo, nil, log).EnsureDefaultRoles(ctx); err != nil {
				return err
			}

			users := service.NewUserService(userRepo, roleRepo, auth.NewBcryptHasher(cfg.BcryptCost), nil)
			user, created, err := users.EnsureAdmin(ctx, in)
			if err != nil {
				return err
			}

			log.Info("admin ensured",
				zap.Uint("id", user.ID),
				zap.String("email", user.Email),
				zap.Bool("created", created),
				zap.Strings("roles", user.RoleNames()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s (id=%d)\n", user.Email, user.ID)
			return nil
		},
	}
	adminCmd.Flags().StringVar(&in.Email, "email", "", "account email")
	adminCmd.Flags().StringVar(&in.Password, "password", "", "password used when the account is created")
	adminCmd.Flags().StringVar(&in.Name, "name", "Administrator", "display name used when the account is created")
	adminCmd.Flags().IntVar(&in.Age, "age", 0, "age used when the account is created")

	root.AddCommand(rolesCmd, adminCmd)
	return root
}
