package authhandler

import "chatrelaygo/internal/services/user"

type SignUpBody struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

type SignInBody struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignInResponse struct {
	User  *user.UserDTO `json:"user"`
	Token string        `json:"token"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
