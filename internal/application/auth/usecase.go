// Package auth registro y login de los usuarios del punto de venta.
package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
	"github.com/shoptrack/pos-api/pkg/jwt"
)

// statusActive estado con el que nacen los usuarios y el único que permite login.
const statusActive = "active"

// JWTConfig parámetros de emisión de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase registro y autenticación de usuarios.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// normalizeEmail forma canónica del email: sin espacios y en minúsculas.
// Registro y login la aplican por igual, así "Caja@Tienda.com" y
// "caja@tienda.com" son la misma cuenta.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser da de alta un usuario con el password hasheado con bcrypt.
// Sin nombre se usa el email; sin rol explícito el usuario queda como cajero.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	if existing, _ := uc.userRepo.GetByEmail(email); existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	role := in.Role
	if role == "" {
		role = entity.RoleCashier
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       statusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("usuario registrado")
	return userToDTO(user), nil
}

// Login verifica las credenciales y emite el token de sesión. Email
// desconocido y password incorrecto devuelven errores distintos; el handler
// los colapsa en una misma respuesta 401.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != statusActive {
		log.Warn().Str("user_id", user.ID).Str("status", user.Status).Msg("login rechazado, cuenta no activa")
		return nil, domain.ErrForbidden
	}

	token, expiresAt, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *userToDTO(user),
	}, nil
}

func userToDTO(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
