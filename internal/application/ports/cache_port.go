package ports

import (
	"context"
	"time"
)

// CacheStore define el puerto de caché con TTL. Cualquier adaptador (Redis,
// memoria local para tests) debe implementar esta interfaz. Siguiendo el
// principio de inversión de dependencias (DIP), la aplicación solo conoce
// este contrato, no el cliente concreto.
type CacheStore interface {
	// Get deserializa el valor en dest. Devuelve false si la clave no existe o expiró.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set serializa value y lo guarda con el TTL indicado (0 = sin expiración).
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete elimina la clave; no es error si no existe.
	Delete(ctx context.Context, key string) error
}
