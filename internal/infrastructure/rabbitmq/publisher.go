package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/samokat-api/internal/application/rental"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

var _ rental.EventPublisher = (*Publisher)(nil)

// Publisher publica eventos de alquiler en un exchange topic; la routing key es el tipo de evento.
type Publisher struct {
	conn     *amqp.Connection
	exchange string
	log      *logger.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

// NewPublisher conecta, abre un canal y declara el exchange (durable).
func NewPublisher(url, exchange string, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: abrir canal: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declarar exchange %s: %w", exchange, err)
	}

	log.Info().Str("exchange", exchange).Msg("conectado a RabbitMQ")
	return &Publisher{conn: conn, ch: ch, exchange: exchange, log: log}, nil
}

// Publish serializa el evento a JSON y lo envía como mensaje persistente.
func (p *Publisher) Publish(ctx context.Context, event rental.RentalEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: serializar evento: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         event.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, event.Type, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq: publicar %s: %w", event.Type, err)
	}
	p.log.Debug().Str("type", event.Type).Int64("rental_id", event.RentalID).Msg("evento publicado")
	return nil
}

// Close cierra canal y conexión.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	return p.conn.Close()
}
