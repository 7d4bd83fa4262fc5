package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"signaling-service/internal/chat"
	"signaling-service/internal/config"
	"signaling-service/internal/handlers"
	"signaling-service/internal/moderation"
	"signaling-service/internal/observability"
	"signaling-service/internal/rabbitmq"
	"signaling-service/internal/rooms"
	"signaling-service/internal/signaling"
	"signaling-service/internal/telemetry"
	"signaling-service/internal/ws"
)

func main() {
	cfg := config.Load()

	shutdownTracing, err := observability.SetupTracing(context.Background(), "signaling-service", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("audit publisher mode: %s", rabbitmq.PublisherMode(publisher))

	audit := telemetry.NewAuditEmitter(publisher, "relay.audit", "signaling-service", cfg.Environment)

	hub := ws.NewHub()
	registry := rooms.NewRegistry(hub)
	limiter := chat.NewLimiter(chat.RateLimit, chat.RateWindow)
	blocks := moderation.NewBlocklist()

	chatRelay := chat.NewRelay(registry, limiter, blocks, hub)
	signalRelay := signaling.NewRelay(hub)
	mod := moderation.NewController(registry, hub, hub, blocks, audit)

	dispatcher := ws.NewDispatcher(registry, chatRelay, signalRelay, mod, audit)
	wsHandler := ws.NewHandler(hub, dispatcher, audit)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("signaling-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.StaticFile("/", cfg.StaticDir+"/index.html")
	router.Static("/static", cfg.StaticDir)
	router.GET("/healthz", handlers.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", wsHandler.Handle)

	handlers.RegisterDebugRoutes(router, registry, hub, audit, cfg.Debug)

	log.Printf("listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
