package authhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatrelaygo/internal/services/user"
)

type Handler struct {
	svc user.IUserService
}

func New(svc user.IUserService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/auth/signup", h.signUp)
	r.POST("/auth/signin", h.signIn)
}

func (h *Handler) signUp(ginCtx *gin.Context) {
	var body SignUpBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	dto, err := h.svc.SignUp(ginCtx.Request.Context(),
		body.Name, body.Email, body.Password, body.Address, body.Phone)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			ginCtx.JSON(http.StatusConflict, &ErrorResponse{Error: err.Error()})
			return
		}
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
		return
	}
	ginCtx.JSON(http.StatusCreated, dto)
}

func (h *Handler) signIn(ginCtx *gin.Context) {
	var body SignInBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	dto, token, err := h.svc.SignIn(ginCtx.Request.Context(), body.Email, body.Password)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		ginCtx.JSON(http.StatusNotFound, &ErrorResponse{Error: err.Error()})
	case errors.Is(err, user.ErrAccountInactive):
		ginCtx.JSON(http.StatusForbidden, &ErrorResponse{Error: err.Error()})
	case errors.Is(err, user.ErrInvalidPassword):
		ginCtx.JSON(http.StatusUnauthorized, &ErrorResponse{Error: err.Error()})
	case err != nil:
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
	default:
		ginCtx.JSON(http.StatusOK, &SignInResponse{User: dto, Token: token})
	}
}
