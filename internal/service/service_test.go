package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Tenite686/DAWI/internal/errs"
	"github.com/Tenite686/DAWI/internal/model"
	"github.com/Tenite686/DAWI/internal/repository"
	repo_mocks "github.com/Tenite686/DAWI/internal/repository/mocks"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeEnqueuer struct {
	events []model.RentalEvent
}

func (f *fakeEnqueuer) Enqueue(_ string, v any) error {
	if ev, ok := v.(model.RentalEvent); ok {
		f.events = append(f.events, ev)
	}
	return nil
}

type testEnv struct {
	svc      *Service
	rentals  *repo_mocks.MockRental
	vehicles *repo_mocks.MockVehicle
	clients  *repo_mocks.MockClient
	users    *repo_mocks.MockUser
	events   *fakeEnqueuer
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	env := testEnv{
		rentals:  repo_mocks.NewMockRental(ctrl),
		vehicles: repo_mocks.NewMockVehicle(ctrl),
		clients:  repo_mocks.NewMockClient(ctrl),
		users:    repo_mocks.NewMockUser(ctrl),
		events:   &fakeEnqueuer{},
	}
	env.svc = NewService(env.rentals, env.vehicles, env.clients, env.users, env.events, zap.NewExample().Named("test"))
	env.svc.now = func() time.Time { return now }
	return env
}

func activeClient() model.Client {
	expiry := now.AddDate(1, 0, 0)
	return model.Client{
		ID:            3,
		Nombre:        "Maria",
		Apellido:      "Quispe",
		DniRuc:        "45879632",
		LicenseExpiry: &expiry,
		Active:        true,
	}
}

func availableVehicle() model.Vehicle {
	return model.Vehicle{
		ID:          9,
		Marca:       "Toyota",
		Modelo:      "Yaris",
		Placa:       "ABC-123",
		Status:      model.VehicleAvailable,
		PricePerDay: 100,
		Odometer:    1000,
		Active:      true,
	}
}

func TestService_CreateRental(t *testing.T) {
	start := now.Add(24 * time.Hour)
	end := start.Add(3 * 24 * time.Hour)
	baseReq := model.CreateRentalRequest{
		ClientID:      3,
		VehicleID:     9,
		StartDate:     start,
		EstimatedEnd:  end,
		StartOdometer: 1200,
	}

	t.Run("ok, three days at 100 per day quotes 300", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		env.clients.EXPECT().GetByID(ctx, int64(3)).Return(activeClient(), nil)
		env.vehicles.EXPECT().GetByID(ctx, int64(9)).Return(availableVehicle(), nil)
		env.users.EXPECT().GetByUsername(ctx, "admin").Return(model.User{ID: 5, Username: "admin"}, nil)
		env.rentals.EXPECT().Create(ctx, model.Rental{
			ClientID:      3,
			VehicleID:     9,
			UserID:        5,
			StartDate:     start,
			EstimatedEnd:  end,
			TotalPrice:    300,
			StartOdometer: 1200,
		}).Return(model.RentalResponse{
			Rental: model.Rental{ID: 7, TotalPrice: 300, Status: model.RentalActive},
		}, nil)

		resp, err := env.svc.CreateRental(ctx, "admin", baseReq)
		require.NoError(t, err)
		require.Equal(t, float64(300), resp.TotalPrice)
		require.Equal(t, model.RentalActive, resp.Status)
		require.Len(t, env.events.events, 1)
		require.Equal(t, "ALQUILER_CREADO", env.events.events[0].Type)
	})

	t.Run("validation failures, no repo calls", func(t *testing.T) {
		var tests = []struct {
			name   string
			mangle func(r *model.CreateRentalRequest)
		}{
			{
				name:   "start in the past",
				mangle: func(r *model.CreateRentalRequest) { r.StartDate = now.Add(-24 * time.Hour) },
			},
			{
				name:   "end before start",
				mangle: func(r *model.CreateRentalRequest) { r.EstimatedEnd = r.StartDate.Add(-time.Hour) },
			},
			{
				name:   "under one day",
				mangle: func(r *model.CreateRentalRequest) { r.EstimatedEnd = r.StartDate.Add(5 * time.Hour) },
			},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				env := newTestEnv(t)
				req := baseReq
				tt.mangle(&req)
				_, err := env.svc.CreateRental(context.Background(), "admin", req)
				require.ErrorIs(t, err, errs.ErrValidation)
				require.Empty(t, env.events.events)
			})
		}
	})

	t.Run("client not found", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.clients.EXPECT().GetByID(ctx, int64(3)).Return(model.Client{}, errs.NotFound("cliente", 3))

		_, err := env.svc.CreateRental(ctx, "admin", baseReq)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("inactive client", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		client := activeClient()
		client.Active = false
		env.clients.EXPECT().GetByID(ctx, int64(3)).Return(client, nil)

		_, err := env.svc.CreateRental(ctx, "admin", baseReq)
		require.ErrorIs(t, err, errs.ErrBusiness)
	})

	t.Run("expired license", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		client := activeClient()
		expired := now.AddDate(0, -1, 0)
		client.LicenseExpiry = &expired
		env.clients.EXPECT().GetByID(ctx, int64(3)).Return(client, nil)

		_, err := env.svc.CreateRental(ctx, "admin", baseReq)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("missing license", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		client := activeClient()
		client.LicenseExpiry = nil
		env.clients.EXPECT().GetByID(ctx, int64(3)).Return(client, nil)

		_, err := env.svc.CreateRental(ctx, "admin", baseReq)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("vehicle not available", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.clients.EXPECT().GetByID(ctx, int64(3)).Return(activeClient(), nil)
		vehicle := availableVehicle()
		vehicle.Status = model.VehicleRented
		env.vehicles.EXPECT().GetByID(ctx, int64(9)).Return(vehicle, nil)

		_, err := env.svc.CreateRental(ctx, "admin", baseReq)
		require.ErrorIs(t, err, errs.ErrBusiness)
	})

	t.Run("inactive vehicle", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.clients.EXPECT().GetByID(ctx, int64(3)).Return(activeClient(), nil)
		vehicle := availableVehicle()
		vehicle.Active = false
		env.vehicles.EXPECT().GetByID(ctx, int64(9)).Return(vehicle, nil)

		_, err := env.svc.CreateRental(ctx, "admin", baseReq)
		require.ErrorIs(t, err, errs.ErrBusiness)
	})

	t.Run("overlap reported by repository", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.clients.EXPECT().GetByID(ctx, int64(3)).Return(activeClient(), nil)
		env.vehicles.EXPECT().GetByID(ctx, int64(9)).Return(availableVehicle(), nil)
		env.users.EXPECT().GetByUsername(ctx, "admin").Return(model.User{ID: 5}, nil)
		env.rentals.EXPECT().Create(ctx, gomock.Any()).
			Return(model.RentalResponse{}, errs.Business("el vehiculo ya esta alquilado en el periodo solicitado"))

		_, err := env.svc.CreateRental(ctx, "admin", baseReq)
		require.ErrorIs(t, err, errs.ErrBusiness)
		require.Empty(t, env.events.events)
	})
}

func activeRental() model.RentalResponse {
	start := now.Add(-5 * 24 * time.Hour)
	return model.RentalResponse{
		Rental: model.Rental{
			ID:            7,
			ClientID:      3,
			VehicleID:     9,
			StartDate:     start,
			EstimatedEnd:  start.Add(3 * 24 * time.Hour),
			TotalPrice:    300,
			Status:        model.RentalActive,
			StartOdometer: 1200,
			Notes:         "entrega ok",
			Active:        true,
		},
		Vehiculo: model.VehicleInfo{ID: 9, PricePerDay: 100},
	}
}

func TestService_RegisterReturn(t *testing.T) {
	t.Run("on-time return keeps the total", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		rental := activeRental()
		env.rentals.EXPECT().GetByID(ctx, int64(7)).Return(rental, nil)
		env.rentals.EXPECT().Complete(ctx, repository.ReturnUpdate{
			ID:           7,
			ActualReturn: rental.EstimatedEnd,
			EndOdometer:  1500,
			Notes:        "entrega ok\ntanque lleno",
			Surcharge:    0,
		}).Return(model.RentalResponse{
			Rental: model.Rental{ID: 7, TotalPrice: 300, Status: model.RentalCompleted},
		}, nil)

		resp, err := env.svc.RegisterReturn(ctx, 7, model.ReturnRentalRequest{
			ActualReturn: rental.EstimatedEnd,
			EndOdometer:  1500,
			Notes:        "tanque lleno",
		})
		require.NoError(t, err)
		require.Equal(t, float64(300), resp.TotalPrice)
		require.Len(t, env.events.events, 1)
		require.Equal(t, "ALQUILER_DEVUELTO", env.events.events[0].Type)
	})

	t.Run("two days late adds exactly the late span price", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		rental := activeRental()
		actual := rental.EstimatedEnd.Add(2 * 24 * time.Hour)
		env.rentals.EXPECT().GetByID(ctx, int64(7)).Return(rental, nil)
		env.rentals.EXPECT().Complete(ctx, repository.ReturnUpdate{
			ID:           7,
			ActualReturn: actual,
			EndOdometer:  1500,
			Notes:        "entrega ok",
			Surcharge:    200,
		}).Return(model.RentalResponse{
			Rental: model.Rental{ID: 7, TotalPrice: 500, Status: model.RentalCompleted},
		}, nil)

		resp, err := env.svc.RegisterReturn(ctx, 7, model.ReturnRentalRequest{
			ActualReturn: actual,
			EndOdometer:  1500,
		})
		require.NoError(t, err)
		require.Equal(t, float64(500), resp.TotalPrice)
	})

	t.Run("not active", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		rental := activeRental()
		rental.Status = model.RentalCompleted
		env.rentals.EXPECT().GetByID(ctx, int64(7)).Return(rental, nil)

		_, err := env.svc.RegisterReturn(ctx, 7, model.ReturnRentalRequest{
			ActualReturn: rental.EstimatedEnd,
			EndOdometer:  1500,
		})
		require.ErrorIs(t, err, errs.ErrBusiness)
	})

	t.Run("return before start", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		rental := activeRental()
		env.rentals.EXPECT().GetByID(ctx, int64(7)).Return(rental, nil)

		_, err := env.svc.RegisterReturn(ctx, 7, model.ReturnRentalRequest{
			ActualReturn: rental.StartDate.Add(-time.Hour),
			EndOdometer:  1500,
		})
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("odometer regression", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		rental := activeRental()
		env.rentals.EXPECT().GetByID(ctx, int64(7)).Return(rental, nil)

		_, err := env.svc.RegisterReturn(ctx, 7, model.ReturnRentalRequest{
			ActualReturn: rental.EstimatedEnd,
			EndOdometer:  1100,
		})
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("not found", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.rentals.EXPECT().GetByID(ctx, int64(404)).Return(model.RentalResponse{}, errs.NotFound("alquiler", 404))

		_, err := env.svc.RegisterReturn(ctx, 404, model.ReturnRentalRequest{ActualReturn: now})
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_CancelRental(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.rentals.EXPECT().GetByID(ctx, int64(7)).Return(activeRental(), nil)
		env.rentals.EXPECT().Cancel(ctx, int64(7)).Return(model.RentalResponse{
			Rental: model.Rental{ID: 7, Status: model.RentalCancelled},
		}, nil)

		resp, err := env.svc.CancelRental(ctx, 7)
		require.NoError(t, err)
		require.Equal(t, model.RentalCancelled, resp.Status)
		require.Len(t, env.events.events, 1)
		require.Equal(t, "ALQUILER_CANCELADO", env.events.events[0].Type)
	})

	t.Run("already terminal", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		rental := activeRental()
		rental.Status = model.RentalCancelled
		env.rentals.EXPECT().GetByID(ctx, int64(7)).Return(rental, nil)

		_, err := env.svc.CancelRental(ctx, 7)
		require.ErrorIs(t, err, errs.ErrBusiness)
	})
}

func TestService_DeleteRental(t *testing.T) {
	t.Run("active rental is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.rentals.EXPECT().GetByID(ctx, int64(7)).Return(activeRental(), nil)

		err := env.svc.DeleteRental(ctx, 7)
		require.ErrorIs(t, err, errs.ErrBusiness)
	})

	t.Run("cancelled rental soft-deletes", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		rental := activeRental()
		rental.Status = model.RentalCancelled
		env.rentals.EXPECT().GetByID(ctx, int64(7)).Return(rental, nil)
		env.rentals.EXPECT().SoftDelete(ctx, int64(7)).Return(nil)

		require.NoError(t, env.svc.DeleteRental(ctx, 7))
	})
}

func TestService_ListOverdue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.rentals.EXPECT().ListOverdue(ctx, now).Return([]model.Rental{{ID: 1}}, nil)

	items, err := env.svc.ListOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}
