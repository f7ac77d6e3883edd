package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cardpay-go/internal/analytics"
	"cardpay-go/internal/config"
	"cardpay-go/internal/gateway"
	httpserver "cardpay-go/internal/http"
	"cardpay-go/internal/ledger"
	"cardpay-go/internal/logger"
	"cardpay-go/internal/store"
	filestore "cardpay-go/internal/store/file"
	"cardpay-go/internal/store/gormkv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	log := logger.New()

	var st store.Store
	switch cfg.StoreBackend {
	case "postgres":
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode,
		)
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres")
		}
		st, err = gormkv.New(db)
		if err != nil {
			log.Fatal().Err(err).Msg("init gormkv store")
		}
	default:
		var err error
		st, err = filestore.New(cfg.DataFile)
		if err != nil {
			log.Fatal().Err(err).Msg("init file store")
		}
	}

	loc, err := time.LoadLocation(cfg.TZDefault)
	if err != nil {
		log.Warn().Str("tz", cfg.TZDefault).Msg("unknown timezone, using local")
		loc = time.Local
	}

	an := analytics.New(log)
	engine := ledger.New(ledger.Deps{
		Store:     st,
		Gateway:   &gateway.Simulated{Delay: time.Duration(cfg.GatewayDelayMS) * time.Millisecond},
		Analytics: an,
		Log:       log,
		Location:  loc,
	})
	if err := engine.Load(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("load ledger state")
	}

	r := httpserver.NewServer(cfg, engine, an, log)
	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
