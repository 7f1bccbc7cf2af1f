package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chatrelaygo/internal/auth"
	"chatrelaygo/internal/config"
	"chatrelaygo/internal/database/db_client"
	"chatrelaygo/internal/http/http_server"
	"chatrelaygo/internal/redis/redis_client"
	"chatrelaygo/internal/services/room"
	"chatrelaygo/internal/services/user"
	"chatrelaygo/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	var err error
	var cfg *config.Config
	var redisClient *redis.Client

	// 1. Load configuration
	cfg, err = config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Redis (REST rate limiting)
	redisClient, err = redis_client.NewRedisClient(cfg.RedisHost, int(cfg.RedisPort))
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()
	Log.Debug("Redis client created successfully")

	// 4. Postgres db client
	pgDb, err := db_client.Open(cfg.PostgresHost, cfg.PostgresPort,
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()

	// 5. Services: users, rooms, token verification
	userService := user.NewUserService(pgDb, cfg.AppSecret, cfg.TokenTTL)
	roomService := room.NewRoomService(pgDb)
	verifier := auth.NewVerifier(cfg.AppSecret, userService)

	// 6. Presence registry + room membership hub
	presence := ws.NewPresenceRegistry()
	hub := ws.NewHub()

	// 7. Initialize the WS server
	wsSrv := ws.NewWsServer(hub, presence, verifier, cfg.PermittedRoles)

	// 8. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg, redisClient, verifier,
		wsSrv, userService, roomService)
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
