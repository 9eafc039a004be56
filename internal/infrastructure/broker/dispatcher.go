package broker

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/shoptrack/pos-api/internal/domain/repository"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultBatchSize    = 50
	publishMaxElapsed   = 15 * time.Second
)

// Dispatcher drena la bandeja de salida: lee eventos pendientes y los publica
// en el broker. La entrega es al menos una vez; si el proceso muere entre
// publicar y marcar, el evento se reenvía y los consumidores deduplican por id.
type Dispatcher struct {
	outbox    repository.OutboxRepository
	publisher EventPublisher
	interval  time.Duration
	batchSize int
}

func NewDispatcher(outbox repository.OutboxRepository, publisher EventPublisher) *Dispatcher {
	return &Dispatcher{
		outbox:    outbox,
		publisher: publisher,
		interval:  defaultPollInterval,
		batchSize: defaultBatchSize,
	}
}

// Run bloquea hasta que el contexto se cancele. Se lanza como goroutine
// desde main.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", d.interval).Msg("Despachador de outbox iniciado")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Despachador de outbox detenido")
			return
		case <-ticker.C:
			d.dispatchBatch(ctx)
		}
	}
}

func (d *Dispatcher) dispatchBatch(ctx context.Context) {
	events, err := d.outbox.ListPending(ctx, d.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("Error listando eventos pendientes")
		return
	}
	for _, event := range events {
		if err := d.publishWithRetry(ctx, event.Topic, event.Payload); err != nil {
			log.Warn().Err(err).
				Str("event_id", event.ID).
				Str("topic", event.Topic).
				Int("attempts", event.Attempts+1).
				Msg("No se pudo publicar el evento, queda pendiente")
			if markErr := d.outbox.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				log.Error().Err(markErr).Str("event_id", event.ID).Msg("Error marcando evento fallido")
			}
			continue
		}
		if err := d.outbox.MarkPublished(ctx, event.ID, time.Now()); err != nil {
			// El evento ya salió; al quedar pendiente se reenviará (at-least-once).
			log.Error().Err(err).Str("event_id", event.ID).Msg("Error marcando evento publicado")
		}
	}
}

func (d *Dispatcher) publishWithRetry(ctx context.Context, topic string, payload []byte) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = publishMaxElapsed
	return backoff.Retry(func() error {
		return d.publisher.Publish(ctx, topic, payload)
	}, backoff.WithContext(b, ctx))
}
