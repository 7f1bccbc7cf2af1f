package http_server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chatrelaygo/internal/auth"
	"chatrelaygo/internal/config"
	"chatrelaygo/internal/http/authhandler"
	"chatrelaygo/internal/http/middleware"
	"chatrelaygo/internal/http/roomhandler"
	"chatrelaygo/internal/http/userhandler"
	"chatrelaygo/internal/services/room"
	"chatrelaygo/internal/services/user"
	"chatrelaygo/internal/ws"
)

type httpServer struct {
	cfg      *config.Config
	srv      http.Server
	ln       net.Listener
	rdc      *redis.Client
	verifier *auth.Verifier
	userSvc  user.IUserService
	roomSvc  room.IRoomService
	wsSrv    *ws.WsServer
	ctx      context.Context
}

func NewHttpServer(
	ctx context.Context,
	cfg *config.Config,
	rdc *redis.Client,
	verifier *auth.Verifier,
	wsSrv *ws.WsServer,
	userSvc user.IUserService,
	roomSvc room.IRoomService,
) *httpServer {
	return &httpServer{
		cfg:      cfg,
		rdc:      rdc,
		verifier: verifier,
		wsSrv:    wsSrv,
		userSvc:  userSvc,
		roomSvc:  roomSvc,
		ctx:      ctx,
	}
}

func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.cfg.HttpServerPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	routerEngine := gin.New()
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))
	routerEngine.Use(middleware.RateLimit(h.rdc, h.cfg.RateLimitRequests, h.cfg.RateLimitWindow))

	// websocket endpoint
	routerEngine.GET("/ws", h.wsSrv.Handle)

	// REST API
	api := routerEngine.Group("/api")
	authhandler.New(h.userSvc).Register(api)
	userhandler.New(h.userSvc, h.verifier).Register(api)
	roomhandler.New(h.roomSvc, h.verifier).Register(api)

	h.srv = http.Server{
		Handler: routerEngine,
	}

	return h.srv.Serve(h.ln)
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(h.ctx, 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err // e.g. active conns didn't finish in time
	}

	if ctx.Err() == context.DeadlineExceeded {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
		log.Println("shutdown timeout (10 s)")
	}

	return nil
}
