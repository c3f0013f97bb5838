package entities

type UserLoginRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type UserLoginResponse struct {
	Token   string `json:"token"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	GroupID string `json:"group_id"`
}
