package models

import "time"

type User struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"column:name" json:"name"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

type LoginInput struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type ProfileInput struct {
	Email string `form:"email"`
	Name  string `form:"name"`
}

type PasswordInput struct {
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
}
