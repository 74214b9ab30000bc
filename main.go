package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/hereafter-labs/will-registry-api/activity"
	"github.com/hereafter-labs/will-registry-api/allocations"
	"github.com/hereafter-labs/will-registry-api/configs"
	"github.com/hereafter-labs/will-registry-api/datastore/gorm"
	"github.com/hereafter-labs/will-registry-api/events"
	"github.com/hereafter-labs/will-registry-api/handlers"
	"github.com/hereafter-labs/will-registry-api/ledger/basic"
	"github.com/hereafter-labs/will-registry-api/metrics"
	"github.com/hereafter-labs/will-registry-api/migrations"
	"github.com/hereafter-labs/will-registry-api/wills"
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/gomodule/redigo/redis"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

const version = "0.1.0"

var (
	sha1ver   string // sha1 revision used to build the program
	buildTime string // when the executable was built
)

func main() {
	var printVersion bool

	// If we should just print the version number and exit
	flag.BoolVar(&printVersion, "version", false, "if true, print version and exit")
	flag.Parse()

	if printVersion {
		fmt.Printf("v%s build on %s from sha1 %s\n", version, buildTime, sha1ver)
		os.Exit(0)
	}

	cfg, err := configs.Parse()
	if err != nil {
		panic(err)
	}

	runServer(cfg)

	os.Exit(0)
}

func runServer(cfg *configs.Config) {
	configs.ConfigureLogger(cfg.LogLevel)

	log.Info("Starting server")

	// Database
	db, err := gorm.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer gorm.Close(db)

	if err := gormigrate.New(db, gormigrate.DefaultOptions, migrations.List()).Migrate(); err != nil {
		log.Fatal(err)
	}

	// Asset ledger
	assetRatelimiter := ratelimit.New(cfg.LedgerMaxCallRate, ratelimit.WithoutSlack)
	assets := basic.NewLedger(db, basic.WithCallRatelimiter(assetRatelimiter))

	// Event emitter with optional webhook fan-out
	eventStore := events.NewGormStore(db)
	emitter := events.NewEmitter(eventStore)

	if cfg.EventWebhookURL != "" {
		notifier, err := events.NewWebhookNotifier(cfg.EventWebhookURL, cfg.EventWebhookTimeout)
		if err != nil {
			log.Fatal(err)
		}

		emitter.Register(notifier)
		notifier.Start()

		defer func() {
			notifier.Stop()
			log.Info("Stopped event webhook notifier")
		}()
	}

	// Services
	willService := wills.NewService(
		wills.NewGormStore(db),
		allocations.NewGormStore(db),
		assets,
		emitter,
	)
	activityService := activity.NewService(activity.NewGormStore(db), willService)

	// Background inactivity sweep
	if !cfg.DisableMonitor {
		monitor := activity.NewMonitor(willService, cfg.MonitorInterval)
		monitor.Start()

		defer func() {
			monitor.Stop()
			log.Info("Stopped dead man's switch monitor")
		}()

		log.Info("Started dead man's switch monitor")
	}

	// Metrics
	prometheus.MustRegister(metrics.NewWillsCollector(willService))

	// HTTP handling
	willHandler := handlers.NewWills(willService)
	activityHandler := handlers.NewActivity(activityService)
	eventHandler := handlers.NewEvents(eventStore)
	statsHandler := handlers.NewStats(willService)

	r := mux.NewRouter()

	// Catch the api version
	rv := r.PathPrefix("/{apiVersion}").Subrouter()

	// Debug
	rv.Handle("/debug", handlers.Debug("https://github.com/hereafter-labs/will-registry-api", sha1ver, buildTime)).Methods(http.MethodGet)

	// Health
	rv.HandleFunc("/health/ready", handlers.HandleHealthReady).Methods(http.MethodGet)
	rv.Handle("/health/liveness", handlers.Liveness(func() (interface{}, error) {
		return willService.Stats()
	})).Methods(http.MethodGet)

	// Metrics
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Wills
	rv.Handle("/wills", willHandler.List()).Methods(http.MethodGet)                // list by owner or beneficiary
	rv.Handle("/wills", willHandler.Create()).Methods(http.MethodPost)            // create
	rv.Handle("/wills/{willId}", willHandler.Details()).Methods(http.MethodGet)   // details
	rv.Handle("/wills/{willId}/timeframes", willHandler.UpdateTimeframes()).Methods(http.MethodPut)
	rv.Handle("/wills/{willId}/remaining-grace-period", willHandler.RemainingGracePeriod()).Methods(http.MethodGet)
	rv.Handle("/wills/{willId}/time-until-switch", willHandler.TimeUntilSwitch()).Methods(http.MethodGet)

	// Beneficiaries and allocations
	rv.Handle("/wills/{willId}/beneficiaries", willHandler.AddBeneficiary()).Methods(http.MethodPost)
	rv.Handle("/wills/{willId}/beneficiaries/{address}", willHandler.RemoveBeneficiary()).Methods(http.MethodDelete)
	rv.Handle("/wills/{willId}/beneficiaries/{address}/allocations", willHandler.ListAllocations()).Methods(http.MethodGet)

	// Claims
	rv.Handle("/wills/{willId}/claims", willHandler.Claim()).Methods(http.MethodPost)

	// Events
	rv.Handle("/wills/{willId}/events", eventHandler.List()).Methods(http.MethodGet)

	// Dead man's switch checks
	rv.Handle("/activity/check", activityHandler.CheckAndTrigger()).Methods(http.MethodPost)
	rv.Handle("/activity/backends", activityHandler.ListBackends()).Methods(http.MethodGet)
	rv.Handle("/activity/backends", activityHandler.SetBackend()).Methods(http.MethodPost)

	// Stats
	rv.Handle("/stats", statsHandler.Get()).Methods(http.MethodGet)

	h := http.TimeoutHandler(r, cfg.ServerRequestTimeout, "request timed out")
	h = handlers.UseCors(h)
	h = handlers.UseLogging(h)
	h = handlers.UseCompress(h)

	// Setup idempotency key middleware if it's enabled
	if !cfg.DisableIdempotencyMiddleware {
		var is handlers.IdempotencyStore
		switch cfg.IdempotencyMiddlewareDatabaseType {
		// Shared SQL/Gorm store (same as for main app)
		case handlers.IdempotencyStoreTypeShared.String():
			is = handlers.NewIdempotencyStoreGorm(db)
		// Redis, separate from app db
		case handlers.IdempotencyStoreTypeRedis.String():
			if cfg.IdempotencyMiddlewareRedisURL == "" {
				log.Fatal("idempotency middleware db set to redis but Redis URL is empty")
			}
			pool := &redis.Pool{
				MaxIdle:   80,
				MaxActive: 12000,
				Dial: func() (redis.Conn, error) {
					return redis.DialURL(cfg.IdempotencyMiddlewareRedisURL)
				},
			}

			defer func() {
				log.Info("Closing Redis pool..")
				if err := pool.Close(); err != nil {
					log.Warn(err)
				}
			}()

			is = handlers.NewIdempotencyStoreRedis(pool)
		case handlers.IdempotencyStoreTypeLocal.String():
			is = handlers.NewIdempotencyStoreLocal()
		}

		h = handlers.UseIdempotency(h, handlers.IdempotencyHandlerOptions{
			Expiry:      1 * time.Hour,
			IgnorePaths: []string{"/v1/activity/check"}, // Retried by polling backends
		}, is)
	}

	// Server boilerplate
	srv := &http.Server{
		Handler:      h,
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		WriteTimeout: 0, // Disabled, set cfg.ServerRequestTimeout instead
		ReadTimeout:  0, // Disabled, set cfg.ServerRequestTimeout instead
	}

	// Run our server in a goroutine so that it doesn't block.
	go func() {
		log.
			WithFields(log.Fields{
				"host": cfg.Host,
				"port": cfg.Port,
			}).
			Info("Server listening")
		if err := srv.ListenAndServe(); err != nil {
			log.Warn(err)
		}
	}()

	// Trap interupt or sigterm and gracefully shutdown the server
	c := make(chan os.Signal, 1)
	// We'll accept graceful shutdowns when quit via SIGINT (Ctrl+C)
	// SIGKILL, SIGQUIT or SIGTERM (Ctrl+/) will not be caught.
	signal.Notify(c, os.Interrupt)

	// Block until we receive our signal.
	sig := <-c

	log.Infof("Got signal: %s. Shutting down..", sig)

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("Error in server shutdown: %s", err)
	}
}
