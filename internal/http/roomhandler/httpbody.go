package roomhandler

type CreateRoomBody struct {
	Name string `json:"name" binding:"required,min=1,max=64"`
}

type ListRoomsQuery struct {
	Limit  int `form:"limit,default=10"  binding:"gte=0,lte=100"`
	Offset int `form:"offset,default=0"  binding:"gte=0"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
