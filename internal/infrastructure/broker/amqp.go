// Package broker publica los eventos de la bandeja de salida en RabbitMQ.
// El exchange es de tipo topic: los consumidores se suscriben por routing key
// (sale.completed, alert.created) sin acoplar colas a esta API.
package broker

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/shoptrack/pos-api/pkg/config"
)

// EventPublisher abstrae el transporte de eventos para el despachador.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close() error
}

// AMQPPublisher publica en un exchange topic durable de RabbitMQ.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

var _ EventPublisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher conecta al broker y declara el exchange.
func NewAMQPPublisher(cfg config.AMQPConfig) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("conectar a RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("abrir canal AMQP: %w", err)
	}
	if err := channel.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // autoDelete
		false,        // internal
		false,        // noWait
		nil,          // args
	); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declarar exchange %s: %w", cfg.Exchange, err)
	}
	return &AMQPPublisher{conn: conn, channel: channel, exchange: cfg.Exchange}, nil
}

// Publish envía el payload con la routing key del tópico. Los mensajes son
// persistentes para sobrevivir reinicios del broker.
func (p *AMQPPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	err := p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		topic,      // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         payload,
		},
	)
	if err != nil {
		return fmt.Errorf("publicar en %s/%s: %w", p.exchange, topic, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return fmt.Errorf("cerrar canal AMQP: %w", err)
	}
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("cerrar conexión AMQP: %w", err)
	}
	return nil
}

// LogPublisher escribe los eventos al log en lugar de un broker. Se usa
// cuando AMQP_URL no está configurado, para no frenar la venta en entornos
// de desarrollo.
type LogPublisher struct{}

var _ EventPublisher = (*LogPublisher)(nil)

func (LogPublisher) Publish(_ context.Context, topic string, payload []byte) error {
	log.Info().Str("topic", topic).RawJSON("payload", payload).Msg("Evento publicado (log)")
	return nil
}

func (LogPublisher) Close() error { return nil }
