package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	Id          string `json:"id" gorm:"primaryKey;size:36"`
	TenantID    string `json:"tenant_id" gorm:"size:64;index;not null"`
	Email       string `json:"email" gorm:"size:255;unique;not null"`
	Username    string `json:"username" gorm:"size:100"`
	DisplayName string `json:"display_name" gorm:"size:200"`
	Role        string `json:"role" gorm:"size:32;not null;default:dealer_admin"`
	Password    []byte `json:"-" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if user.Id == "" {
		user.Id = uuid.NewString()
	}
	return
}

func (user *User) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	user.Password = hashedPassword
}

func (user *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(user.Password, []byte(password))
}
