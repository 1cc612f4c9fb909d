package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/abhishek622/screenscene/internal/httputil"
	"github.com/abhishek622/screenscene/pkg/discovery"
	"github.com/abhishek622/screenscene/pkg/discovery/consul"
	"github.com/abhishek622/screenscene/pkg/keyvalue"
	"github.com/abhishek622/screenscene/pkg/keyvalue/memory"
	"github.com/abhishek622/screenscene/pkg/keyvalue/mysql"
	"github.com/abhishek622/screenscene/pkg/keyvalue/redis"
	"github.com/abhishek622/screenscene/pkg/tracing"
	"github.com/abhishek622/screenscene/reviews/internal/controller/reviews"
	httphandler "github.com/abhishek622/screenscene/reviews/internal/handler/http"
	kafkaingester "github.com/abhishek622/screenscene/reviews/internal/ingester/kafka"
	"github.com/abhishek622/screenscene/reviews/internal/repository"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/opentracing/opentracing-go"
	"github.com/uber-go/tally/v4"
	promreporter "github.com/uber-go/tally/v4/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

const serviceName = "reviews"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	_ = godotenv.Load()

	f, err := os.Open("configs/default.yaml")
	if err != nil {
		logger.Fatal("Failed to open configuration", zap.Error(err))
	}
	var cfg config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		logger.Fatal("Failed to parse configuration", zap.Error(err))
	}
	port := cfg.API.Port
	logger.Info("Starting the reviews service", zap.Int("port", port))

	registry, err := consul.NewRegistry(cfg.ServiceDiscovery.Consul.Address)
	if err != nil {
		logger.Fatal("Failed to init reviews service registry", zap.Error(err))
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracer, closer, err := tracing.NewTracer(serviceName, cfg.Jaeger.Host, cfg.Jaeger.Port, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Jaeger tracer", zap.Error(err))
	}
	defer closer.Close()
	opentracing.SetGlobalTracer(tracer)
	logger.Info("Jaeger tracer initialized successfully", zap.String("service", serviceName))

	instanceID := discovery.GenerateInstanceID(serviceName)
	if err := registry.Register(ctx, instanceID, serviceName, fmt.Sprintf("localhost:%d", port)); err != nil {
		logger.Fatal("Failed to register reviews service", zap.Error(err))
	}
	go func() {
		for {
			if err := registry.ReportHealthyState(instanceID, serviceName); err != nil {
				log.Println("Failed to report healthy state: " + err.Error())
			}
			time.Sleep(1 * time.Second)
		}
	}()
	defer registry.Deregister(ctx, instanceID, serviceName)

	store, err := newStore(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to init storage backend", zap.Error(err))
	}
	repo := repository.New(store)

	var ctrl *reviews.Controller
	if cfg.Kafka.Address != "" {
		ingester, err := kafkaingester.NewIngester(cfg.Kafka.Address, cfg.Kafka.GroupID, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Fatal("Failed to init Kafka ingester", zap.Error(err))
		}
		ctrl = reviews.New(repo, ingester, logger)
		go func() {
			if err := ctrl.StartIngestion(ctx); err != nil {
				logger.Error("Failed to start ingestion", zap.Error(err))
			}
		}()
	} else {
		ctrl = reviews.New(repo, nil, logger)
	}

	reporter := promreporter.NewReporter(promreporter.Options{})
	scope, scopeCloser := tally.NewRootScope(tally.ScopeOptions{
		Prefix:         serviceName,
		CachedReporter: reporter,
		Separator:      promreporter.DefaultSeparator,
	}, time.Second)
	defer scopeCloser.Close()

	h := httphandler.New(ctrl, scope)

	router := gin.New()
	router.Use(gin.Recovery(), cors.Default(), httputil.RateLimit(rate.NewLimiter(1000, 1000)))
	router.GET("/metrics", gin.WrapH(reporter.HTTPHandler()))
	authorized := router.Group("/", httputil.AuthRequired(authSecret))
	h.Register(authorized)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s := <-sigChan
		logger.Info("Received signal, attempting graceful shutdown", zap.Any("signal", s))
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down the HTTP server", zap.Error(err))
		}
		logger.Info("Gracefully stopped the HTTP server")
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Failed to serve HTTP server", zap.Error(err))
	}

	wg.Wait()
}

func newStore(cfg storageConfig) (keyvalue.Store, error) {
	switch cfg.Backend {
	case "redis":
		return redis.New(cfg.Redis.Address), nil
	case "mysql":
		return mysql.New(cfg.MySQL.DSN)
	default:
		return memory.New(), nil
	}
}

func authSecret() []byte {
	secret := os.Getenv("AUTH_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	return []byte(secret)
}
