package userhandler

type ListUsersQuery struct {
	Limit  int `form:"limit,default=10"  binding:"gte=0,lte=100"`
	Offset int `form:"offset,default=0"  binding:"gte=0"`
}

type SetActiveBody struct {
	Active *bool `json:"active" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
