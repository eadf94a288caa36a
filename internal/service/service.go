package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Tenite686/DAWI/internal/errs"
	"github.com/Tenite686/DAWI/internal/model"
	"github.com/Tenite686/DAWI/internal/repository"
	"github.com/Tenite686/DAWI/pkg/kafka"
)

const (
	eventRentalCreated   = "ALQUILER_CREADO"
	eventRentalReturned  = "ALQUILER_DEVUELTO"
	eventRentalCancelled = "ALQUILER_CANCELADO"
)

// Enqueuer publishes rental lifecycle events. Publishing is best effort and
// never fails the operation that produced the event.
type Enqueuer interface {
	Enqueue(topic string, v any) error
}

func NewEnqueuer(producer sarama.SyncProducer) Enqueuer {
	return &enqueuerImpl{producer: producer}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
}

func (q *enqueuerImpl) Enqueue(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: topic, Value: sarama.StringEncoder(data)}
	if _, _, err = q.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

type Service struct {
	log      *zap.Logger
	rentals  repository.Rental
	vehicles repository.Vehicle
	clients  repository.Client
	users    repository.User
	events   Enqueuer
	now      func() time.Time
}

func NewService(
	rentals repository.Rental,
	vehicles repository.Vehicle,
	clients repository.Client,
	users repository.User,
	events Enqueuer,
	log *zap.Logger,
) *Service {
	return &Service{
		log:      log,
		rentals:  rentals,
		vehicles: vehicles,
		clients:  clients,
		users:    users,
		events:   events,
		now:      time.Now,
	}
}

// CreateRental validates the booking and creates it ACTIVO, flipping the
// vehicle to ALQUILADO in the same unit of work. username identifies the
// acting user resolved by the auth middleware.
func (s *Service) CreateRental(ctx context.Context, username string, req model.CreateRentalRequest) (model.RentalResponse, error) {
	if err := s.validateDates(req.StartDate, req.EstimatedEnd); err != nil {
		return model.RentalResponse{}, err
	}

	client, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return model.RentalResponse{}, err
	}
	if !client.Active {
		return model.RentalResponse{}, errs.Business("el cliente esta inactivo")
	}
	if client.LicenseExpiry == nil || client.LicenseExpiry.Before(s.now()) {
		return model.RentalResponse{}, errs.Validation("el cliente no tiene licencia de conducir vigente")
	}

	vehicle, err := s.vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return model.RentalResponse{}, err
	}
	if !vehicle.Active {
		return model.RentalResponse{}, errs.Business("el vehiculo esta inactivo")
	}
	if vehicle.Status != model.VehicleAvailable {
		return model.RentalResponse{}, errs.Business("el vehiculo no esta disponible")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return model.RentalResponse{}, err
	}

	rental := model.Rental{
		ClientID:      req.ClientID,
		VehicleID:     req.VehicleID,
		UserID:        user.ID,
		StartDate:     req.StartDate,
		EstimatedEnd:  req.EstimatedEnd,
		TotalPrice:    Price(vehicle.PricePerDay, req.StartDate, req.EstimatedEnd),
		StartOdometer: req.StartOdometer,
		Notes:         req.Notes,
	}

	// The repository re-checks availability, overlap and odometer under a
	// per-vehicle row lock; two concurrent creates cannot both pass.
	resp, err := s.rentals.Create(ctx, rental)
	if err != nil {
		return model.RentalResponse{}, err
	}
	s.log.Info("rental created", zap.Int64("id", resp.ID), zap.Float64("precioTotal", resp.TotalPrice))
	s.publish(eventRentalCreated, resp)
	return resp, nil
}

// RegisterReturn completes an active rental: records return time and
// odometer, appends notes, adds the late surcharge when the return is past
// the estimated end, and releases the vehicle.
func (s *Service) RegisterReturn(ctx context.Context, id int64, req model.ReturnRentalRequest) (model.RentalResponse, error) {
	rental, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		return model.RentalResponse{}, err
	}
	if rental.Status != model.RentalActive {
		return model.RentalResponse{}, errs.Business("el alquiler no esta activo")
	}
	if req.ActualReturn.Before(rental.StartDate) {
		return model.RentalResponse{}, errs.Validation(
			"la fecha de devolucion no puede ser anterior a la fecha de inicio")
	}
	if req.EndOdometer < rental.StartOdometer {
		return model.RentalResponse{}, errs.Validation(
			"el kilometraje final no puede ser menor al kilometraje inicial")
	}

	var surcharge float64
	if req.ActualReturn.After(rental.EstimatedEnd) {
		// Observed pricing rule: the late span is quoted on its own and
		// added to the total, not a re-quote of the whole stay.
		surcharge = Price(rental.Vehiculo.PricePerDay, rental.EstimatedEnd, req.ActualReturn)
	}

	resp, err := s.rentals.Complete(ctx, repository.ReturnUpdate{
		ID:           id,
		ActualReturn: req.ActualReturn,
		EndOdometer:  req.EndOdometer,
		Notes:        joinNotes(rental.Notes, req.Notes),
		Surcharge:    surcharge,
	})
	if err != nil {
		return model.RentalResponse{}, err
	}
	if surcharge > 0 {
		s.log.Info("late return surcharge", zap.Int64("id", id), zap.Float64("surcharge", surcharge))
	}
	s.publish(eventRentalReturned, resp)
	return resp, nil
}

func (s *Service) CancelRental(ctx context.Context, id int64) (model.RentalResponse, error) {
	rental, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		return model.RentalResponse{}, err
	}
	if rental.Status != model.RentalActive {
		return model.RentalResponse{}, errs.Business("solo se pueden cancelar alquileres activos")
	}
	resp, err := s.rentals.Cancel(ctx, id)
	if err != nil {
		return model.RentalResponse{}, err
	}
	s.publish(eventRentalCancelled, resp)
	return resp, nil
}

// DeleteRental soft-deletes a terminal rental. Active rentals must be
// cancelled or returned first.
func (s *Service) DeleteRental(ctx context.Context, id int64) error {
	rental, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rental.Status == model.RentalActive {
		return errs.Business("no se puede eliminar un alquiler activo, debe cancelarlo primero")
	}
	return s.rentals.SoftDelete(ctx, id)
}

func (s *Service) GetRental(ctx context.Context, id int64) (model.RentalResponse, error) {
	return s.rentals.GetByID(ctx, id)
}

func (s *Service) ListRentals(ctx context.Context, f model.RentalFilter) (model.ListRentals, error) {
	return s.rentals.List(ctx, f)
}

func (s *Service) ListOverdue(ctx context.Context) ([]model.Rental, error) {
	return s.rentals.ListOverdue(ctx, s.now())
}

func (s *Service) validateDates(start, end time.Time) error {
	if start.Before(s.now()) {
		return errs.Validation("la fecha de inicio no puede ser en el pasado")
	}
	if end.Before(start) {
		return errs.Validation("la fecha fin no puede ser anterior a la fecha de inicio")
	}
	if wholeDays(start, end) < 1 {
		return errs.Validation("el alquiler debe ser de al menos 1 dia")
	}
	return nil
}

func joinNotes(existing, added string) string {
	if added == "" {
		return existing
	}
	if existing == "" {
		return added
	}
	return existing + "\n" + added
}

func (s *Service) publish(eventType string, rental model.RentalResponse) {
	if s.events == nil {
		return
	}
	ev := model.RentalEvent{
		Type:      eventType,
		RentalID:  rental.ID,
		RentalUid: rental.RentalUid,
		VehicleID: rental.VehicleID,
		ClientID:  rental.ClientID,
		At:        s.now(),
	}
	if err := s.events.Enqueue(kafka.RentalTopic, ev); err != nil {
		s.log.Warn("enqueue rental event", zap.String("type", eventType), zap.Error(err))
	}
}
