package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	userIdKey   = "user_id"
	usernameKey = "username"

	tokenTTL = 24 * time.Hour
)

type Claims struct {
	UserId   string `json:"user_id"`
	Username string `json:"username"`
}

func (s service) generateJWT(userId, username string) (string, error) {
	claims := jwt.MapClaims{
		userIdKey:   userId,
		usernameKey: username,
		"exp":       time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

func (s service) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userId, ok := claims[userIdKey].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	username, ok := claims[usernameKey].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserId:   userId,
		Username: username,
	}, nil
}
