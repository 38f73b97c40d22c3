package models

import "time"

// UserModel is an administrator allowed to review applications.
type UserModel struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"column:username;type:varchar(255);not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"type:varchar(100);not null"`
	FullName  *string   `json:"nombre" gorm:"column:nombre;type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserModel) TableName() string { return "usuarios" }

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	FullName *string `json:"nombre"`
}

type RegisterResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}
