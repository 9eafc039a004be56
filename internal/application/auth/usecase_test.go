package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shoptrack/pos-api/internal/application/auth"
	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/infrastructure/memory"
	"github.com/shoptrack/pos-api/pkg/jwt"
)

const (
	testSecret   = "clave-de-prueba-larga"
	testIssuer   = "pos-api-test"
	testPassword = "contrasena123"
)

func newAuthFixture(t *testing.T) (*auth.AuthUseCase, *memory.UserRepo) {
	t.Helper()
	repo := memory.NewUserRepo()
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 15,
		Issuer:     testIssuer,
	})
	return uc, repo
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RegisterUser
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_HasheaPassword(t *testing.T) {
	uc, repo := newAuthFixture(t)

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "caja@tienda.test",
		Password: testPassword,
		Name:     "Cajero Uno",
	})
	require.NoError(t, err)
	assert.Equal(t, "caja@tienda.test", resp.Email)
	assert.Equal(t, entity.RoleCashier, resp.Role, "sin rol explícito se asigna cashier")
	assert.Equal(t, "active", resp.Status)

	stored, err := repo.GetByEmail("caja@tienda.test")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, testPassword, stored.PasswordHash, "el password nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(testPassword)))
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthFixture(t)
	req := dto.RegisterRequest{Email: "uno@tienda.test", Password: testPassword, Name: "Uno"}

	_, err := uc.RegisterUser(req)
	require.NoError(t, err)

	_, err = uc.RegisterUser(req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_NombrePorDefecto(t *testing.T) {
	uc, _ := newAuthFixture(t)

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "sin-nombre@tienda.test",
		Password: testPassword,
		Role:     entity.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, "sin-nombre@tienda.test", resp.Name, "sin nombre se usa el email")
	assert.Equal(t, entity.RoleManager, resp.Role)
}

func TestRegisterUser_NormalizaEmail(t *testing.T) {
	uc, repo := newAuthFixture(t)

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "  Caja@Tienda.TEST ",
		Password: testPassword,
		Name:     "Caja",
	})
	require.NoError(t, err)
	assert.Equal(t, "caja@tienda.test", resp.Email)

	stored, err := repo.GetByEmail("caja@tienda.test")
	require.NoError(t, err)
	require.NotNil(t, stored, "se persiste la forma canónica")

	// Con otra capitalización es la misma cuenta: duplicado y login válido
	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "CAJA@tienda.test", Password: testPassword, Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Login(dto.LoginRequest{Email: "Caja@Tienda.test", Password: testPassword})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EmiteTokenConRol(t *testing.T) {
	uc, _ := newAuthFixture(t)
	registered, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "admin@tienda.test",
		Password: testPassword,
		Name:     "Admin",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "admin@tienda.test", Password: testPassword})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, registered.ID, resp.User.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), resp.ExpiresAt, 5*time.Second,
		"la expiración expuesta corresponde a ExpMinutes")

	// El token lleva identidad y rol verificables
	userID, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _ := newAuthFixture(t)
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "caja@tienda.test", Password: testPassword, Name: "Caja"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "caja@tienda.test", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuthFixture(t)
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@tienda.test", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioSuspendido(t *testing.T) {
	uc, repo := newAuthFixture(t)
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ex@tienda.test", Password: testPassword, Name: "Ex"})
	require.NoError(t, err)

	user, err := repo.GetByEmail("ex@tienda.test")
	require.NoError(t, err)
	user.Status = "suspended"
	require.NoError(t, repo.Update(user))

	_, err = uc.Login(dto.LoginRequest{Email: "ex@tienda.test", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
