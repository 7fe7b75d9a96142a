package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cinevault/cinevault/modules/account"
	authmodule "github.com/cinevault/cinevault/modules/auth"
	"github.com/cinevault/cinevault/pkg/auth"
	"github.com/cinevault/cinevault/pkg/auth/mongostore"
	"github.com/cinevault/cinevault/pkg/config"
	"github.com/cinevault/cinevault/pkg/httpserver"
	"github.com/cinevault/cinevault/pkg/logger"
	"github.com/cinevault/cinevault/pkg/mongo"
)

type appConfig struct {
	Auth   authmodule.Config
	Tokens auth.TokenConfig
	Mongo  mongo.Config
	HTTP   httpserver.Config
	Log    logger.Config

	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"12"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" envDefault:"10m"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Log, "cinevault-api")

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server terminated", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer db.Client().Disconnect(context.Background()) //nolint:errcheck

	store := mongostore.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	issuer, err := auth.NewTokenIssuer(cfg.Tokens)
	if err != nil {
		return err
	}

	authSvc := auth.NewService(store, issuer,
		auth.WithLogger(log),
		auth.WithBcryptCost(cfg.BcryptCost),
		auth.WithResetTokenTTL(cfg.ResetTokenTTL),
	)
	validator := auth.NewSessionValidator(store, issuer)

	authHTTP := authmodule.NewService(cfg.Auth, authSvc, validator, log)
	accountHTTP := account.NewService(authSvc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Mount("/", authHTTP.Handle())
		r.Group(func(r chi.Router) {
			r.Use(authHTTP.Protect)
			r.Mount("/account", accountHTTP.Handle())
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := mongo.Healthcheck(db.Client())(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return httpserver.New(cfg.HTTP, log).Run(ctx, r)
}
