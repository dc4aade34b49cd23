package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/NextStepSol/workshop-app/internal/config"
	"github.com/NextStepSol/workshop-app/internal/database"
	"github.com/NextStepSol/workshop-app/internal/handler"
	"github.com/NextStepSol/workshop-app/internal/locale"
	"github.com/NextStepSol/workshop-app/internal/middleware"
	"github.com/NextStepSol/workshop-app/internal/queue"
	"github.com/NextStepSol/workshop-app/internal/repository"
	"github.com/NextStepSol/workshop-app/internal/router"
	"github.com/NextStepSol/workshop-app/internal/scheduler"
	"github.com/NextStepSol/workshop-app/internal/service"
)

func main() {
	if err := config.LoadDotEnv(); err != nil { // .env is optional
		log.Fatal(err)
	}
	cfg, err := config.Load() // Environment config
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := database.OpenStore(ctx, cfg) // memory, sqlite, mysql or redis
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	reg := prometheus.NewRegistry() // Private registry served on /metrics
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var pub queue.Publisher = queue.Nop{} // Events are dropped without RabbitMQ
	if cfg.RabbitURL != "" {
		pub = queue.NewAMQPPublisher(cfg.RabbitURL)
		log.Printf("events: publishing to queue %s", queue.QueueName)
	}

	mgr := service.New(repository.New(st), service.Options{
		Publisher:    pub,
		Formatter:    locale.New(cfg.Location),
		Reactivation: service.ReactivationPolicy(cfg.ReactivationPolicy),
		Metrics:      service.NewMetrics(reg),
	})
	if cfg.SeedDemo {
		if _, err := mgr.Seed(ctx); err != nil {
			log.Fatal(err)
		}
	}

	sched, err := scheduler.New(ctx, cfg.SweepCron, mgr)
	if err != nil {
		log.Fatal(err)
	}
	sched.Start() // Archive ended slots in the background

	// the limiter shares Redis only when one was configured explicitly
	var rdb *redis.Client
	if cfg.Redis.Enabled && cfg.RateLimit.Enabled {
		rdb = config.NewRedisClient(cfg.Redis)
		if rdb == nil {
			log.Printf("ratelimit: redis unreachable, using in-process buckets")
		} else {
			defer rdb.Close()
		}
	}

	e := echo.New()                // Create Echo instance
	e.HideBanner = true            // Quiet startup
	e.Use(echomw.Recover())        // Turn panics into 500s
	e.Use(echomw.Logger())         // Access log
	e.Use(middleware.Metrics(reg)) // Request counters and latency

	h := handler.New(mgr)
	router.RegisterRoutes(e, h, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	router.RegisterAPI(e, h, middleware.NewTokenBucket(cfg.RateLimit, rdb))

	go func() {
		addr := ":" + cfg.Port
		log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.Store.Driver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done() // SIGINT or SIGTERM
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	sched.Stop(shutdownCtx)
}
