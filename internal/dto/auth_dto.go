package dto

import "time"

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string    `json:"token"`
	ExpiraEn time.Time `json:"expiraEn"`
	Rol      string    `json:"rol"`
	Nombre   string    `json:"nombre"`
}
