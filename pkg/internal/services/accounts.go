package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/veles-crm/fieldwork/pkg/internal/database"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func GetAccount(id uint) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, ErrNotFound
		}
		return account, err
	}
	return account, nil
}

func GetAccountWithName(name string) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("name = ?", name).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, ErrNotFound
		}
		return account, err
	}
	return account, nil
}

func NewAccount(name, nick, password string, role models.AccountRole) (models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("unable to hash password: %v", err)
	}

	account := models.Account{
		Name:         name,
		Nick:         nick,
		Role:         role,
		PasswordHash: string(hash),
	}

	err = database.C.Create(&account).Error
	return account, err
}

// Authenticate verifies credentials and issues a signed bearer token
// carrying the account id.
func Authenticate(name, password string) (models.Account, string, error) {
	account, err := GetAccountWithName(name)
	if err != nil {
		return account, "", ErrPermissionDenied
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return account, "", ErrPermissionDenied
	}

	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", account.ID),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(viper.GetString("security.jwt_secret")))
	if err != nil {
		return account, "", fmt.Errorf("unable to sign session token: %v", err)
	}

	return account, token, nil
}
