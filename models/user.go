package models

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/contentlens/insight_backend/config"
	"github.com/contentlens/insight_backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Email       string    `gorm:"size:255;not null;unique" json:"email" binding:"required"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	FirstName   *string   `gorm:"size:100" json:"first_name"`
	LastName    *string   `gorm:"size:100" json:"last_name"`
	CompanyName *string   `gorm:"size:255" json:"company_name"`
	IsActive    *bool     `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Email       string  `json:"email" binding:"required"`
	Password    string  `json:"password" binding:"required"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	CompanyName *string `json:"company_name"`
}

type LoginInfo struct {
	Token     string  `json:"token"`
	UserId    int     `json:"user_id"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

/*
caches:
	Session:$jti
*/

func (user *User) PrepareGive() {
	user.Password = ""
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {

	db := config.GetDB()
	var count int64

	if !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email address")
	}
	if len(input.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	err := db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("duplicate email")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:       email,
		Password:    string(hashedPassword),
		FirstName:   sanitizeName(input.FirstName),
		LastName:    sanitizeName(input.LastName),
		CompanyName: sanitizeName(input.CompanyName),
		IsActive:    utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	user.PrepareGive()
	return user, nil
}

func sanitizeName(p *string) *string {
	if p == nil {
		return nil
	}
	escaped := html.EscapeString(strings.TrimSpace(*p))
	if escaped == "" {
		return nil
	}
	return &escaped
}

func Login(ctx context.Context, email string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	user := User{}

	email = strings.ToLower(strings.TrimSpace(email))
	err := db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, err
	}

	err = utils.ComparePassword(user.Password, password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errors.New("invalid email or password")
		}
		return nil, err
	}

	if user.IsActive != nil && !*user.IsActive {
		return nil, errors.New("user is disabled")
	}

	token, jti, err := utils.JwtGenerate(fmt.Sprint(user.ID), user.Email)
	if err != nil {
		return nil, err
	}

	// The session key lets logout revoke the token before the JWT expires.
	if err := config.SetRedisValue("Session:"+jti, user.Email, utils.TokenLifespan()); err != nil {
		return nil, err
	}

	return &LoginInfo{
		Token:     token,
		UserId:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// Logout destroys the current session.
func Logout(ctx context.Context) (bool, error) {
	jti, ok := utils.GetTokenFromContext(ctx)
	if !ok || jti == "" {
		return false, errors.New("token is required")
	}
	if err := config.RemoveRedisKey("Session:" + jti); err != nil {
		return false, err
	}
	return true, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	user.PrepareGive()
	return &user, nil
}
