// Package audit publica los eventos de transición del fulfillment en Kafka.
// El publisher es asíncrono: encolar nunca bloquea el request path y un error
// de publicación jamás afecta la transacción ya confirmada.
package audit

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/retail-ledger-api/internal/application/fulfillment"
	"github.com/jhoicas/retail-ledger-api/pkg/logger"
)

var _ fulfillment.TransitionRecorder = (*KafkaPublisher)(nil)

// KafkaPublisher envía TransitionEvent serializados a un topic de auditoría.
// La clave del mensaje es organization_id, así todos los eventos de una misma
// organización caen en la misma partición y conservan orden.
type KafkaPublisher struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
	log     *logger.Logger

	mu     sync.Mutex
	closed bool
}

// NewKafkaPublisher construye el publisher. buf es el tamaño del buffer interno;
// con el buffer lleno los eventos se descartan con un warn en vez de bloquear.
func NewKafkaPublisher(brokers []string, topic string, buf int, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		log:     log,
	}
}

// Start arranca la goroutine de envío. La goroutine drena el buffer hasta que
// Close cierre el inbox; recién entonces se cierra el writer.
func (p *KafkaPublisher) Start() {
	go func() {
		for m := range p.inbox {
			p.write(m)
		}
		_ = p.w.Close()
		close(p.closeCh)
	}()
}

func (p *KafkaPublisher) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		p.log.Error().Err(err).Str("topic", p.w.Topic).Msg("publicación de evento de auditoría falló")
	}
}

// RecordTransition encola el evento; nunca bloquea al caller. Tras Close los
// eventos se descartan con un warn: el caller puede seguir terminando requests
// en vuelo sin riesgo de enviar sobre un canal cerrado.
func (p *KafkaPublisher) RecordTransition(ctx context.Context, ev fulfillment.TransitionEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Msg("serialización de evento de auditoría falló")
		return
	}
	msg := kafka.Message{
		Key:   []byte(ev.OrganizationID),
		Value: payload,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "order_type", Value: []byte(ev.OrderType)},
			{Key: "action", Value: []byte(ev.Action)},
		},
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.log.Warn().
			Str("order_id", ev.OrderID).
			Str("action", ev.Action).
			Msg("publisher cerrado, evento de auditoría descartado")
		return
	}
	select {
	case p.inbox <- msg:
	default:
		p.log.Warn().
			Str("order_id", ev.OrderID).
			Str("action", ev.Action).
			Msg("buffer de auditoría lleno, evento descartado")
	}
}

// Close cierra el buffer para que la goroutine drene lo pendiente y termine.
// Idempotente. Debe llamarse después de apagar el servidor HTTP, así ningún
// request en vuelo encola sobre un canal cerrado.
func (p *KafkaPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.inbox)
}

// WaitClosed espera a que la goroutine de envío termine.
func (p *KafkaPublisher) WaitClosed() { <-p.closeCh }
