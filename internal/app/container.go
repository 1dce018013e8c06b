package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/kapu/isso-client-go/internal/config"
	"github.com/kapu/isso-client-go/internal/metrics"
	"github.com/kapu/isso-client-go/pkg/comments"
	"github.com/kapu/isso-client-go/pkg/dispatch"
	"github.com/kapu/isso-client-go/pkg/document"
	"github.com/kapu/isso-client-go/pkg/endpoint"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Container bundles the assembled request layer.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Document *document.Document
	Client   *comments.Client
	Registry *prometheus.Registry
}

// Build resolves the endpoint once and wires dispatcher and facade on top of
// it. An endpoint that cannot be resolved fails the build.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	httpClient, err := dispatch.NewHTTPClient(cfg.HTTP.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	doc, err := loadDocument(ctx, cfg, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load hosting page: %w", err)
	}

	var ep endpoint.Endpoint
	if cfg.Service.Endpoint != "" {
		ep, err = endpoint.Parse(cfg.Service.Endpoint)
		logger.Info("Using configured endpoint", zap.String("endpoint", cfg.Service.Endpoint))
	} else {
		ep, err = endpoint.NewResolver(logger).Resolve(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve endpoint: %w", err)
	}

	opts := []dispatch.Option{
		dispatch.WithHTTPClient(httpClient),
		dispatch.WithUserAgent(cfg.HTTP.UserAgent),
	}

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		opts = append(opts, dispatch.WithObserver(metrics.NewCollector(registry)))
	}

	dispatcher, err := dispatch.New(ep, logger.Named("dispatch"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	client := comments.NewClient(dispatcher, doc.Path(), logger.Named("comments"))

	logger.Info("Comment client ready",
		zap.String("endpoint", ep.String()),
		zap.String("page", doc.Path()),
		zap.Bool("metrics", registry != nil))

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Document: doc,
		Client:   client,
		Registry: registry,
	}, nil
}

// loadDocument reads the page from disk when configured, fetches it when the
// endpoint must be detected, and otherwise only records the page URL.
func loadDocument(ctx context.Context, cfg *config.Config, httpClient *http.Client, logger *zap.Logger) (*document.Document, error) {
	if cfg.Page.File != "" {
		f, err := os.Open(cfg.Page.File)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return document.Parse(cfg.Page.URL, f)
	}

	if cfg.Service.Endpoint != "" {
		return document.New(cfg.Page.URL)
	}

	return document.Fetch(ctx, httpClient, cfg.Page.URL, logger)
}
