package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskhub/internal/auth"
	"taskhub/internal/config"
	"taskhub/internal/gateway"
	"taskhub/internal/gateway/inmemory"
	"taskhub/internal/gateway/postgres"
	"taskhub/internal/handlers"
	"taskhub/internal/logger"
	"taskhub/internal/middleware"
	"taskhub/internal/notify"
	"taskhub/internal/observability/metrics"
	"taskhub/internal/service"
	"taskhub/internal/tokenstore"
	"taskhub/internal/worker"

	"github.com/go-chi/chi/v5"
)

type App struct {
	config    *config.Config
	server    *http.Server
	worker    *worker.CleanupWorker
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	gw, err := a.buildGateway(ctx)
	if err != nil {
		return fmt.Errorf("инициализация шлюза: %w", err)
	}
	gw = gateway.Instrument(gw)

	resolver := service.NewResolver(gw)
	bridge := service.NewBridgeManager(gw)
	cascade := service.NewCascadeDeleter(gw, resolver)
	badges := service.NewBadgeEvaluator(gw, resolver)

	tokens := tokenstore.New(a.config.Tokens.TTL)
	signer := auth.NewSigner(a.config.Auth.JWTSecret, a.config.Auth.JWTTTL)
	notifier := notify.NewLogNotifier()

	interval := a.config.Tokens.CleanupInterval
	if interval > 0 {
		a.worker = worker.NewCleanupWorker(tokens, &interval)
	} else {
		a.worker = worker.NewCleanupWorker(tokens, nil)
	}

	authHandler := handlers.NewAuthHandler(gw, signer, tokens, notifier)
	taskHandler := handlers.NewTaskHandler(gw, resolver, badges)
	collabHandler := handlers.NewCollabHandler(gw, resolver, bridge, cascade)
	accountHandler := handlers.NewAccountHandler(cascade)

	router := a.buildRouter(signer, authHandler, taskHandler, collabHandler, accountHandler)

	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: router,
	}
	return nil
}

func (a *App) buildGateway(ctx context.Context) (*gateway.Gateway, error) {
	switch a.config.Gateway.Type {
	case "postgres":
		if err := postgres.Migrate(a.config.Database.URL); err != nil {
			return nil, err
		}
		storage, err := postgres.New(ctx, a.config.Database.URL)
		if err != nil {
			return nil, err
		}
		a.shutdowns = append(a.shutdowns, storage.Close)
		return storage.Gateway(), nil
	case "inmemory", "":
		logger.Info("App: шлюз в памяти, данные не переживут перезапуск")
		return inmemory.NewGateway(), nil
	default:
		return nil, fmt.Errorf("неизвестный тип шлюза: %s", a.config.Gateway.Type)
	}
}

func (a *App) buildRouter(signer *auth.Signer, authH *handlers.AuthHandler, taskH *handlers.TaskHandler, collabH *handlers.CollabHandler, accountH *handlers.AccountHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	rpm := a.config.RateLimit.RPM
	if rpm <= 0 {
		rpm = 100
	}
	r.Use(middleware.RateLimit(rpm))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authH.Register)             // POST /auth/register
		r.Post("/login", authH.Login)                   // POST /auth/login
		r.Post("/reset/request", authH.RequestReset)    // POST /auth/reset/request
		r.Post("/reset/confirm", authH.ConfirmReset)    // POST /auth/reset/confirm
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(signer))

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskH.GetTasks) // GET /tasks
			r.Post("/", taskH.PostTask)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/complete", taskH.CompleteTask) // POST /tasks/{id}/complete
				r.Delete("/", taskH.DeleteTask)
				r.Post("/reminders", taskH.PostReminder)
				r.Post("/export", taskH.PostExport)
			})
		})

		r.Get("/reminders", taskH.GetReminders)
		r.Get("/badges", taskH.GetBadges)

		r.Route("/collaborations", func(r chi.Router) {
			r.Get("/", collabH.GetCollaborations)
			r.Post("/", collabH.CreateCollaboration)
			r.Post("/join", collabH.JoinCollaboration) // POST /collaborations/join

			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", collabH.DeleteCollaboration)
				r.Get("/members", collabH.GetMembers)
				r.Put("/members/{userId}", collabH.UpdateMemberRole)
				r.Delete("/members/{userId}", collabH.RemoveMember)
				r.Get("/messages", collabH.GetMessages)
				r.Post("/messages", collabH.PostMessage)
			})
		})

		r.Delete("/account", accountH.DeleteAccount)
	})

	r.Get("/health", taskH.HealthCheck)
	r.Handle("/metrics", metrics.Handler())

	return r
}

// Run блокируется до отмены контекста, затем гасит сервер и фоновые части.
func (a *App) Run(ctx context.Context) error {
	go a.worker.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("App: сервер запущен на " + a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("сервер: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("App: сервер погашен с ошибкой", err)
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	return nil
}
