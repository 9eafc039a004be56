package alerting

import (
	"sync"

	"github.com/shoptrack/pos-api/internal/domain/entity"
)

// severityChannels tabla de despacho: canales por severidad, en orden de envío.
var severityChannels = map[string][]string{
	entity.SeverityCritical: {"email", "sms", "webhook", "dashboard"},
	entity.SeverityHigh:     {"email", "webhook", "dashboard"},
	entity.SeverityMedium:   {"webhook", "dashboard"},
	entity.SeverityLow:      {"dashboard"},
}

// ChannelsForSeverity devuelve los nombres de canal para una severidad.
// Severidades desconocidas reciben solo dashboard.
func ChannelsForSeverity(severity string) []string {
	if chs, ok := severityChannels[severity]; ok {
		return chs
	}
	return []string{"dashboard"}
}

// ChannelRegistry mantiene los notificadores registrados por nombre de canal.
type ChannelRegistry struct {
	mu       sync.RWMutex
	channels map[string]Notifier
}

// NewChannelRegistry crea un registro vacío.
func NewChannelRegistry() *ChannelRegistry {
	return &ChannelRegistry{channels: make(map[string]Notifier)}
}

// Register agrega o reemplaza el notificador de un canal.
func (r *ChannelRegistry) Register(n Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[n.Name()] = n
}

// For devuelve los notificadores registrados para una severidad, en el orden
// de la tabla de despacho. Canales sin notificador registrado se omiten.
func (r *ChannelRegistry) For(severity string) []Notifier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := ChannelsForSeverity(severity)
	out := make([]Notifier, 0, len(names))
	for _, name := range names {
		if n, ok := r.channels[name]; ok {
			out = append(out, n)
		}
	}
	return out
}
