package handler

import (
	"context"

	"github.com/Tenite686/DAWI/internal/model"
	"github.com/Tenite686/DAWI/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type RentalService interface {
	CreateRental(ctx context.Context, username string, req model.CreateRentalRequest) (model.RentalResponse, error)
	RegisterReturn(ctx context.Context, id int64, req model.ReturnRentalRequest) (model.RentalResponse, error)
	CancelRental(ctx context.Context, id int64) (model.RentalResponse, error)
	DeleteRental(ctx context.Context, id int64) error
	GetRental(ctx context.Context, id int64) (model.RentalResponse, error)
	ListRentals(ctx context.Context, f model.RentalFilter) (model.ListRentals, error)
	ListOverdue(ctx context.Context) ([]model.Rental, error)
}

var _ RentalService = (*service.Service)(nil)
