package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/payment-relay/checkout"
	"github.com/marcelsud/payment-relay/config"
	"github.com/marcelsud/payment-relay/internal/http/chi"
	"github.com/marcelsud/payment-relay/internal/storage"
	"github.com/marcelsud/payment-relay/metrics"
	"github.com/marcelsud/payment-relay/payment"
	"github.com/marcelsud/payment-relay/webhook"
	"github.com/marcelsud/payment-relay/webhook/signature"
	"github.com/rs/zerolog"
)

const TIMEOUT = 30 * time.Second

/* main wires the relay together
 * Imports only flow downwards: the binary imports the business packages,
 * which import the storage layer.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		return
	}

	logger := httplog.NewLogger("payment-relay", httplog.Options{
		JSON: cfg.LogJSON,
	})

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Str("backend", cfg.Backend().String()).Msg("opening payment store")
		return
	}
	defer repo.Close(ctx)

	paymentService := payment.NewService(repo, logger)

	exporter, err := metrics.NewOTelExporter(paymentService)
	if err != nil {
		logger.Error().Err(err).Msg("creating metrics exporter")
		return
	}
	defer exporter.Shutdown(context.Background())

	verifier := signature.NewVerifier(logger, cfg.WebhookSecrets()...)
	webhookService := webhook.NewService(verifier, paymentService, logger,
		webhook.WithSignatureHeader(cfg.WebhookSignatureHeader),
		webhook.WithMeter(exporter),
	)

	services := chi.Services{
		Webhook: webhookService,
		Payment: paymentService,
		Metrics: exporter.ServeHTTP(),
	}
	if sessionService := newSessionService(cfg, logger); sessionService != nil {
		services.Session = sessionService
	}

	r := chi.Handlers(ctx, logger, services, cfg.RequestTimeout())
	http.Handle("/", r)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      http.DefaultServeMux,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	logger.Info().
		Str("port", cfg.Port).
		Str("backend", cfg.Backend().String()).
		Bool("sessions", services.Session != nil).
		Msg("listening")
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("serving http")
		return
	}
	err = <-errShutdown
	if err != nil {
		logger.Error().Err(err).Msg("shutting down")
		return
	}
}

/* newSessionService builds the payment-session flow
 * It stays disabled, and the route unregistered, until both the processor key
 * and a valid settings file are present.
 */
func newSessionService(cfg *config.Config, logger zerolog.Logger) checkout.UseCase {
	if cfg.CheckoutSecretKey == "" {
		logger.Warn().Msg("CHECKOUT_SECRET_KEY is not set, payment sessions disabled")
		return nil
	}

	loader := checkout.NewLoader()
	if err := loader.Load(cfg.CheckoutSettingsFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("file", cfg.CheckoutSettingsFile).Msg("checkout settings not found, payment sessions disabled")
		} else {
			logger.Error().Err(err).Str("file", cfg.CheckoutSettingsFile).Msg("loading checkout settings, payment sessions disabled")
		}
		return nil
	}

	client := checkout.NewClient(cfg.CheckoutAPIURL, cfg.CheckoutSecretKey)
	return checkout.NewService(client, loader.Settings(), logger)
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
