package auth

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool `json:"success"`
}

type StatusResponse struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}
