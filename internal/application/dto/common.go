package dto

// ErrorResponse cuerpo común de error de la API: un código estable que el
// cliente puede programar y un mensaje legible.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PageResponse metadatos de paginación que acompañan a los listados.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// NormalizePage acota limit y offset a valores servibles: sin limit se usa el
// valor por defecto (20), nunca más de 100, y el offset negativo se trata
// como cero.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
