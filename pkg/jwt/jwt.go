// Package jwt firma y valida los tokens de sesión de la API. HS256 con
// secreto compartido; los claims llevan identidad y rol para que el
// middleware RBAC decida sin consultar la base.
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims claims estándar más los propios de la aplicación.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"` // "admin" | "manager" | "cashier"
}

var (
	errEmptySecret   = errors.New("jwt: secret vacío")
	errInvalidClaims = errors.New("jwt: claims inválidos")
)

// Generate firma un token HS256 para el usuario y devuelve también su
// expiración, que el login expone al cliente.
func Generate(secret, userID, role, issuer string, expMinutes int) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errEmptySecret
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(expMinutes) * time.Minute)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Role:   role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse valida firma, expiración y método de firma, y devuelve userID y role.
func Parse(secret, tokenString string) (userID, role string, err error) {
	if secret == "" {
		return "", "", errEmptySecret
	}
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(t *jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", errInvalidClaims
	}
	return claims.UserID, claims.Role, nil
}
