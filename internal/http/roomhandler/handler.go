package roomhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatrelaygo/internal/auth"
	"chatrelaygo/internal/http/middleware"
	"chatrelaygo/internal/services/room"
)

type Handler struct {
	svc      room.IRoomService
	verifier *auth.Verifier
}

func New(svc room.IRoomService, verifier *auth.Verifier) *Handler {
	return &Handler{svc: svc, verifier: verifier}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/rooms", middleware.Authorize(h.verifier, "admin", "user"), h.list)
	r.POST("/rooms", middleware.Authorize(h.verifier, "admin", "user"), h.create)
}

func (h *Handler) list(ginCtx *gin.Context) {
	var q ListRoomsQuery
	if err := ginCtx.ShouldBindQuery(&q); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.ListRooms(ginCtx.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
		return
	}
	ginCtx.JSON(http.StatusOK, out)
}

func (h *Handler) create(ginCtx *gin.Context) {
	var body CreateRoomBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	identity, _ := middleware.IdentityFrom(ginCtx)
	dto, err := h.svc.CreateRoom(ginCtx.Request.Context(), body.Name, identity.UserID)
	if errors.Is(err, room.ErrRoomNameTaken) {
		ginCtx.JSON(http.StatusConflict, &ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
		return
	}
	ginCtx.JSON(http.StatusCreated, dto)
}
