package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	commondb "github.com/sagar-developer08/Api-v2-sub001/common/database"
	commonlogger "github.com/sagar-developer08/Api-v2-sub001/common/logger"
	commonmqtt "github.com/sagar-developer08/Api-v2-sub001/common/mqtt"
	commonredis "github.com/sagar-developer08/Api-v2-sub001/common/redis"
	"github.com/sagar-developer08/Api-v2-sub001/internal/config"
	httpapi "github.com/sagar-developer08/Api-v2-sub001/internal/http"
	"github.com/sagar-developer08/Api-v2-sub001/internal/metrics"
	"github.com/sagar-developer08/Api-v2-sub001/internal/repository"
	"github.com/sagar-developer08/Api-v2-sub001/internal/service"
	"github.com/sagar-developer08/Api-v2-sub001/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := commonlogger.NewLogger(cfg.Log.Level, cfg.Log.Format, "marketing-admin")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, st := openStore(cfg, logger)
	redisClient := openRedis(cfg, logger)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.NewRegistry())
	}

	dispatcher, closeDispatcher := newDispatcher(cfg, logger)
	defer closeDispatcher()

	var pageCache *store.PageCache
	var publisher service.EventPublisher
	if redisClient != nil {
		pageCache = store.NewPageCache(store.NewRedisKV(redisClient), cfg.Cache.PageTTL)
		publisher = service.NewRedisStreamPublisher(redisClient)
		if db == nil {
			purgeStalePages(pageCache, logger)
		}
	}

	audit := service.NewAuditService(st.Audit, publisher, cfg.Audit.Stream, m, logger)
	handlers := httpapi.Handlers{
		Leads:      httpapi.NewLeadsHandler(service.NewLeadService(st.Leads, m, logger), audit, logger),
		Campaigns:  httpapi.NewCampaignsHandler(service.NewCampaignService(st.Campaigns, dispatcher, m, logger), audit, logger),
		Pages:      httpapi.NewPagesHandler(service.NewPageService(st.Pages, pageCache, m, logger), audit, logger),
		Onboarding: httpapi.NewOnboardingHandler(service.NewOnboardingService(st.Onboarding, logger), audit, logger),
		Analytics:  httpapi.NewAnalyticsHandler(service.NewAnalyticsService(st.Leads, st.Campaigns, logger), logger),
		Settings:   httpapi.NewSettingsHandler(service.NewSettingsService(st.Settings, logger), audit, logger),
		Tenants:    httpapi.NewTenantsHandler(service.NewTenantService(st.TenantConfig, st.TenantActivity, logger), audit, logger),
		Audit:      httpapi.NewAuditHandler(audit, logger),
	}

	proxies, err := httpapi.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		logger.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	opts := httpapi.RouterOptions{
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth:           httpapi.NewHeaderAuthorizer(cfg.Auth.SuperAdminRoles, logger),
		Metrics:        m,
		MetricsPath:    cfg.Metrics.Path,
		TrustedProxies: proxies,
	}
	if cfg.RateLimiter.Enabled {
		opts.IntakeLimiter = httpapi.NewRateLimiter(cfg.RateLimiter.RequestsPerSecond, cfg.RateLimiter.BurstSize, logger)
	}
	router := httpapi.NewRouter(handlers, opts, logger)

	srv := service.NewServer(cfg.Server.Addr, router, service.ServerTimeouts{
		Read:  cfg.Server.ReadTimeout,
		Write: cfg.Server.WriteTimeout,
		Idle:  cfg.Server.IdleTimeout,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown incomplete", zap.Error(err))
	}
	if redisClient != nil {
		_ = commonredis.Close(redisClient)
	}
	if db != nil {
		_ = commondb.Close(db)
	}
}

// openStore prefers Postgres and falls back to in-memory repositories when
// the database is disabled or unreachable.
func openStore(cfg *config.Config, logger *zap.Logger) (*sql.DB, *repository.Store) {
	if !cfg.Database.Enabled {
		logger.Warn("Database disabled, using in-memory repositories")
		return nil, repository.NewMemoryStore()
	}
	db, err := commondb.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Warn("Database connection failed, falling back to in-memory repositories", zap.Error(err))
		return nil, repository.NewMemoryStore()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.CreateSchema(ctx, db); err != nil {
		logger.Warn("Schema bootstrap failed, falling back to in-memory repositories", zap.Error(err))
		_ = db.Close()
		return nil, repository.NewMemoryStore()
	}
	logger.Info("Postgres repositories enabled",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)
	return db, repository.NewPostgresStore(db)
}

// openRedis returns nil when Redis is disabled or not answering; the page
// cache and audit stream are skipped in that case.
func openRedis(cfg *config.Config, logger *zap.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	client := commonredis.NewRedisClient(&cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := commonredis.Ping(ctx, client); err != nil {
		logger.Warn("Redis unavailable, page cache and audit stream disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

// purgeStalePages drops pages cached by an earlier process; an in-memory
// store starts empty and would otherwise be shadowed by them.
func purgeStalePages(cache *store.PageCache, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := cache.Purge(ctx)
	if err != nil {
		logger.Warn("Page cache purge failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("Purged cached pages", zap.Int("count", n))
	}
}

func newDispatcher(cfg *config.Config, logger *zap.Logger) (service.CampaignDispatcher, func()) {
	dc := cfg.CampaignDispatch
	switch dc.Driver {
	case config.DispatchWebhook:
		logger.Info("Campaign dispatch via webhook", zap.String("url", dc.WebhookURL))
		return service.NewWebhookDispatcher(dc.WebhookURL, dc.WebhookTimeout, dc.WebhookRetries, logger), func() {}
	case config.DispatchMQTT:
		client, err := commonmqtt.NewClient(&dc.MQTT)
		if err != nil {
			logger.Warn("MQTT broker unavailable, campaign dispatch disabled", zap.String("broker", dc.MQTT.Broker), zap.Error(err))
			return service.NoopDispatcher{}, func() {}
		}
		logger.Info("Campaign dispatch via MQTT", zap.String("broker", dc.MQTT.Broker), zap.String("topic_prefix", dc.MQTT.TopicPrefix))
		return service.NewMQTTDispatcher(client, dc.MQTT.TopicPrefix, dc.MQTT.QoS, logger), client.Disconnect
	default:
		return service.NoopDispatcher{}, func() {}
	}
}
