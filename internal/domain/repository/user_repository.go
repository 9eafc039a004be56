package repository

import "github.com/shoptrack/pos-api/internal/domain/entity"

// UserRepository persistencia de usuarios. La API solo necesita lo que usa el
// flujo de register/login: alta, búsqueda por email y actualización de estado
// o credenciales.
type UserRepository interface {
	Create(user *entity.User) error
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
}
