// Expirer recorre periódicamente las reservas activas vencidas y las devuelve a
// disponibilidad. Cada organización se procesa en su propia transacción, así una
// falla aislada no frena al resto.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-ledger-api/pkg/config"
	"github.com/jhoicas/retail-ledger-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Dur("interval", cfg.Expiry.Interval).
		Msg("iniciando expirador de reservas")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	reservationRepo := postgres.NewReservationRepository(pool)

	runOnce(ctx, txRunner, reservationRepo, log)

	ticker := time.NewTicker(cfg.Expiry.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("señal de apagado recibida, cerrando expirador")
			return
		case <-ticker.C:
			runOnce(ctx, txRunner, reservationRepo, log)
		}
	}
}

// runOnce expira las reservas vencidas de todas las organizaciones con actividad.
func runOnce(ctx context.Context, tx ledger.TxRunner, reservations *postgres.ReservationRepo, log *logger.Logger) {
	orgs, err := reservations.ListOrganizationsWithActive()
	if err != nil {
		log.Error().Err(err).Msg("listar organizaciones con reservas activas")
		return
	}
	for _, orgID := range orgs {
		var expired int
		err := tx.Run(ctx, func(r ledger.Repos) error {
			rm := ledger.NewReservationManager(ledger.NewStockLedger(r.StockLevels), r.Reservations)
			var err error
			expired, err = rm.ExpireAll(orgID)
			return err
		})
		if err != nil {
			log.Error().Err(err).Str("organization_id", orgID).Msg("expiración de reservas falló")
			continue
		}
		if expired > 0 {
			log.Info().Str("organization_id", orgID).Int("expired", expired).Msg("reservas expiradas")
		}
	}
}
