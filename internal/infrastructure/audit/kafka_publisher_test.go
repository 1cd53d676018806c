package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger-api/internal/application/fulfillment"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/audit"
	"github.com/jhoicas/retail-ledger-api/pkg/logger"
)

func testEvent() fulfillment.TransitionEvent {
	return fulfillment.TransitionEvent{
		OrganizationID: "org-1",
		OrderType:      "sales",
		OrderID:        "so-1",
		Action:         "ship",
		OccurredAt:     time.Now(),
	}
}

// Un apagado en curso no puede tumbar un request que todavía registra su
// transición: encolar después de Close descarta el evento sin pánico.
func TestKafkaPublisher_RecordDespuesDeClose_NoPanic(t *testing.T) {
	p := audit.NewKafkaPublisher([]string{"localhost:9092"}, "auditoria", 4, logger.Nop())
	p.Start()
	p.Close()
	p.WaitClosed()

	require.NotPanics(t, func() {
		p.RecordTransition(context.Background(), testEvent())
	})
}

func TestKafkaPublisher_CloseEsIdempotente(t *testing.T) {
	p := audit.NewKafkaPublisher([]string{"localhost:9092"}, "auditoria", 4, logger.Nop())
	p.Start()

	require.NotPanics(t, func() {
		p.Close()
		p.Close()
	})
	p.WaitClosed()
}

func TestKafkaPublisher_BufferLlenoDescartaSinBloquear(t *testing.T) {
	// Sin Start: nada consume el inbox, el buffer de 1 se llena con el primer evento.
	p := audit.NewKafkaPublisher([]string{"localhost:9092"}, "auditoria", 1, logger.Nop())

	done := make(chan struct{})
	go func() {
		p.RecordTransition(context.Background(), testEvent())
		p.RecordTransition(context.Background(), testEvent())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RecordTransition bloqueó con el buffer lleno")
	}
}
