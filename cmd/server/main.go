package main

import (
	"context"
	"log"
	"os"

	"hotel-booking-engine/config"
	"hotel-booking-engine/internal/cache"
	"hotel-booking-engine/internal/clock"
	"hotel-booking-engine/internal/database"
	"hotel-booking-engine/internal/handler"
	"hotel-booking-engine/internal/ledger"
	"hotel-booking-engine/internal/mailer"
	"hotel-booking-engine/internal/queue"
	"hotel-booking-engine/internal/repository"
	"hotel-booking-engine/internal/service"
	"hotel-booking-engine/internal/worker"
	"hotel-booking-engine/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	txManager := repository.NewTxManager(pool)
	roomRepo := repository.NewRoomRepository(pool)
	rateRepo := repository.NewRateRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	couponLedger := ledger.NewSheetLedger(&cfg.Ledger)
	couponCache := cache.NewRedisCouponCache(rdb, cfg.Coupon.CacheTTL)
	codeLocker := cache.NewRedisCodeLocker(rdb, cfg.Coupon.LockTTL)
	rateLimiter := cache.NewRedisRateLimiter(rdb, cfg.Coupon.RateLimit, cfg.Coupon.RateWindow, "coupon:validate")

	notificationQueue, err := buildNotificationQueue(cfg, rdb)
	if err != nil {
		log.Fatalf("Failed to initialize notification queue: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notificationWorker := worker.NewNotificationWorker(
		mailer.NewLogMailer(logger.WithComponent("mailer")),
		notificationQueue,
	)
	if err := notificationWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start notification worker: %v", err)
	}

	systemClock := clock.NewSystem()

	pricingService := service.NewPricingService(roomRepo, rateRepo)
	couponService := service.NewCouponService(couponLedger, couponCache, codeLocker, rateLimiter, systemClock)
	bookingService := service.NewBookingService(
		txManager, bookingRepo, rateRepo, roomRepo,
		pricingService, couponService, notificationQueue, systemClock,
	)

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewPricingHandler(pricingService).RegisterRoutes(router)
	handler.NewBookingHandler(bookingService).RegisterRoutes(router)
	handler.NewCouponHandler(couponService).RegisterRoutes(router)

	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func buildNotificationQueue(cfg *config.Config, rdb *redis.Client) (queue.NotificationQueue, error) {
	switch cfg.Queue.Backend {
	case "redis":
		consumerID := hostnameConsumerID()
		return queue.NewRedisStreamNotificationQueue(rdb, consumerID, nil)
	case "amqp":
		return queue.NewAMQPNotificationQueue(cfg.Queue.AMQPURL)
	default:
		return queue.NewMemoryNotificationQueue(1024), nil
	}
}

func hostnameConsumerID() string {
	host, err := os.Hostname()
	if err != nil {
		return uuid.NewString()
	}
	return host + "-" + uuid.NewString()[:8]
}
