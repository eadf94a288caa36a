package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Tenite686/DAWI/config"
	"github.com/Tenite686/DAWI/internal/handler"
	"github.com/Tenite686/DAWI/internal/repository"
	"github.com/Tenite686/DAWI/internal/server"
	"github.com/Tenite686/DAWI/internal/service"
	"github.com/Tenite686/DAWI/migrations"
	"github.com/Tenite686/DAWI/pkg/auth"
	"github.com/Tenite686/DAWI/pkg/kafka"
	"github.com/Tenite686/DAWI/pkg/logger"
	"github.com/Tenite686/DAWI/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "alquilape")
	auth.JWTKey = []byte(cfg.JWTKey)

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}

	rentalRepo, err := repository.NewRentalRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo rentals %v", err)
	}
	vehicleRepo, err := repository.NewVehicleRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo vehicles %v", err)
	}
	clientRepo, err := repository.NewClientRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo clients %v", err)
	}
	userRepo, err := repository.NewUserRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo users %v", err)
	}

	var events service.Enqueuer
	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Warn("kafka producer unavailable, events disabled", zap.Error(err))
	} else {
		events = service.NewEnqueuer(producer)
	}

	svc := service.NewService(rentalRepo, vehicleRepo, clientRepo, userRepo, events, log)
	h := handler.New(svc, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	g, _ := errgroup.WithContext(context.Background())
	g.Go(srv.Run)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		log.Debug("server stopped", zap.Error(err))
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
