package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "Backend-Inspectrack/docs"
	"Backend-Inspectrack/src/config"
	"Backend-Inspectrack/src/database"
	"Backend-Inspectrack/src/jobs"
	"Backend-Inspectrack/src/routes"
	"Backend-Inspectrack/src/services/auth"
	"Backend-Inspectrack/src/services/catalog"
	"Backend-Inspectrack/src/services/inspections"
	"Backend-Inspectrack/src/services/reports"
	"Backend-Inspectrack/src/utils"
)

// @title                       Inspectrack API
// @version                     1.0
// @description                 Building inspection checklists, drafts, inspections and issues.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "inspectrack",
		Short:        "Inspectrack API server and background worker",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.Load())
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), config.Load())
			},
		},
		&cobra.Command{
			Use:   "worker",
			Short: "Process background jobs (issue notification emails)",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := config.Load()
				if cfg.RedisURI == "" {
					return fmt.Errorf("REDIS_URI is required for the worker")
				}
				return jobs.RunWorker(cfg)
			},
		},
		newCreateUserCmd(),
	)
	return cmd
}

func newCreateUserCmd() *cobra.Command {
	var in auth.CreateUserInput
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a staff account for a building",
		Example: `  inspectrack create-user --building bld-1 --email super@example.com --name "Dana" --password 's3cret-pass'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()
			st, err := database.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			svc := auth.NewService(st, utils.NewMemoryEphemeral(), []byte(cfg.JWTSecret), cfg.JWTTTL)
			u, err := svc.CreateUser(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ created user %s (%s) for building %s\n", u.ID, u.Email, u.BuildingID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.BuildingID, "building", "", "building id")
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Role, "role", "", "role (default staff)")
	cmd.Flags().StringVar(&in.Password, "password", "", "password, at least 8 characters")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := database.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Printf("⚠️ close store: %v", err)
		}
	}()

	rdb := database.InitRedis(ctx, cfg.RedisURI)
	if rdb != nil {
		defer rdb.Close()
	}
	deps := routes.Deps{
		Store:          st,
		Catalog:        catalog.Default(),
		Ephemeral:      utils.NewEphemeral(rdb),
		PDF:            reports.ChromePDF{Timeout: cfg.ChromeTimeout},
		JWTSecret:      []byte(cfg.JWTSecret),
		JWTTTL:         cfg.JWTTTL,
		AllowedOrigins: cfg.AllowedOrigins,
		AppBaseURL:     cfg.AppBaseURL,
		RequestLog:     true,
	}
	// a nil *asynq.Client must not end up inside the interface
	if q := database.InitAsynq(rdb != nil, cfg.RedisURI); q != nil {
		defer q.Close()
		deps.Queue = inspections.Enqueuer(q)
	}

	app := routes.NewApp(deps)
	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutting down server")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Println("Server is running on port " + cfg.Port)
	return app.Listen(fmt.Sprintf(":%s", url.PathEscape(cfg.Port)))
}
