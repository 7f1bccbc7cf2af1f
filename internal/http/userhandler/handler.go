package userhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatrelaygo/internal/auth"
	"chatrelaygo/internal/http/middleware"
	"chatrelaygo/internal/services/user"
)

type Handler struct {
	svc      user.IUserService
	verifier *auth.Verifier
}

func New(svc user.IUserService, verifier *auth.Verifier) *Handler {
	return &Handler{svc: svc, verifier: verifier}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/users", middleware.Authorize(h.verifier, "admin", "user"), h.list)
	r.GET("/users/:id", middleware.Authorize(h.verifier, "admin", "user"), h.info)
	r.PATCH("/users/:id/active", middleware.Authorize(h.verifier, "admin"), h.setActive)
}

func (h *Handler) list(ginCtx *gin.Context) {
	var q ListUsersQuery
	if err := ginCtx.ShouldBindQuery(&q); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.ListUsers(ginCtx.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
		return
	}
	ginCtx.JSON(http.StatusOK, out)
}

// info resolves a user by id; "me" is the caller's own profile.
func (h *Handler) info(ginCtx *gin.Context) {
	id := ginCtx.Param("id")
	if id == "me" {
		identity, ok := middleware.IdentityFrom(ginCtx)
		if !ok {
			ginCtx.JSON(http.StatusUnauthorized, &ErrorResponse{Error: "unauthorized"})
			return
		}
		id = identity.UserID
	}
	h.respondUser(ginCtx, id)
}

func (h *Handler) respondUser(ginCtx *gin.Context, id string) {
	dto, err := h.svc.GetUser(ginCtx.Request.Context(), id)
	if errors.Is(err, user.ErrUserNotFound) {
		ginCtx.JSON(http.StatusNotFound, &ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
		return
	}
	ginCtx.JSON(http.StatusOK, dto)
}

func (h *Handler) setActive(ginCtx *gin.Context) {
	var body SetActiveBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	err := h.svc.SetActive(ginCtx.Request.Context(), ginCtx.Param("id"), *body.Active)
	if errors.Is(err, user.ErrUserNotFound) {
		ginCtx.JSON(http.StatusNotFound, &ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
		return
	}
	ginCtx.Status(http.StatusNoContent)
}
