// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payment-webhook-relay/internal/config"
	"payment-webhook-relay/internal/domain/ports/repository"
	gqlstores "payment-webhook-relay/internal/infra/graphql"
	"payment-webhook-relay/internal/infra/logging"
	"payment-webhook-relay/internal/infra/metrics"
	"payment-webhook-relay/internal/infra/payment"
	red "payment-webhook-relay/internal/infra/redis"
	"payment-webhook-relay/internal/infra/web"
	"payment-webhook-relay/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted secrets)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Redis (delivery dedup guard, optional) ----
	var deliveries repository.DeliveryLog
	if cfg.Dedup.Enabled {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		deliveries = red.NewDeliveryLog(redisClient, cfg.Dedup.TTL)
	} else {
		logger.Warn().Msg("delivery dedup disabled; redelivered events will be reprocessed")
	}

	// ---- Stripe ----
	gateway, err := payment.NewStripeGateway(&cfg.Stripe, logger)
	if err != nil {
		log.Fatalf("stripe gateway: %v", err)
	}

	// ---- Stores ----
	dailycloak := gqlstores.NewDailycloak(cfg.Dailycloak, logger)
	datahub := gqlstores.NewDatahubFactory(cfg.Runtime.Dev, logger)

	// ---- Use case ----
	policy := usecase.Policy{
		TrackHistory:    cfg.Webhook.TrackHistory,
		StripLines:      cfg.Webhook.StripLines,
		AuditTrail:      cfg.Webhook.AuditTrail,
		LegacyRetryFlow: cfg.Webhook.LegacyRetryFlow,
	}
	uc := usecase.NewWebhookUseCase(gateway, dailycloak, datahub, deliveries, policy, logger)

	// ---- HTTP server ----
	srv := web.NewServer(gateway, uc, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("webhook relay listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
