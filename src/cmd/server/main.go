package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/mh-fins/wallet-ledger/src/internal/adapter/http/controller"
	"github.com/mh-fins/wallet-ledger/src/internal/adapter/http/middleware"
	"github.com/mh-fins/wallet-ledger/src/internal/adapter/http/router"
	"github.com/mh-fins/wallet-ledger/src/internal/adapter/repository/implementations"
	redisrepo "github.com/mh-fins/wallet-ledger/src/internal/adapter/repository/redis"
	"github.com/mh-fins/wallet-ledger/src/internal/config"
	"github.com/mh-fins/wallet-ledger/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := implementations.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		cancel()
		log.Fatalf("run migrations: %v", err)
	}
	cancel()

	openCtx, cancelOpen := context.WithTimeout(ctx, 30*time.Second)
	db, err := implementations.Open(openCtx, cfg.DatabaseDSN)
	cancelOpen()
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	var idempotencyStore middleware.IdempotencyStore
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARN redis unavailable at %s, idempotency replay disabled: %v", cfg.RedisAddr, err)
	} else {
		idempotencyStore = redisrepo.NewIdempotencyRepository(redisClient)
	}

	sessions := redisrepo.NewSessionRepository(redisClient, cfg.SessionTTL)

	userRepo := implementations.NewUserRepository(db)
	accountRepo := implementations.NewAccountRepository(db)
	transactionRepo := implementations.NewTransactionRepository(db)

	userService := services.NewUserService(userRepo, sessions)
	adminService := services.NewAdminService(userRepo, accountRepo)
	accountService := services.NewAccountService(accountRepo, transactionRepo)
	transferService := services.NewTransferService(userRepo, accountRepo, transactionRepo, userService)

	authMiddleware := middleware.SessionAuth(sessions)
	adminMiddleware := middleware.RequireAdmin(sessions, func(ctx context.Context, email string) (string, error) {
		user, err := userRepo.GetByEmail(ctx, email)
		if err != nil {
			return "", err
		}
		return string(user.Role), nil
	})
	idempotencyMiddleware := middleware.Idempotency(idempotencyStore)

	mux := router.New(
		controller.NewUserController(userService),
		controller.NewAdminController(adminService),
		controller.NewAccountController(accountService),
		controller.NewTransferController(transferService),
		authMiddleware,
		adminMiddleware,
		idempotencyMiddleware,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
