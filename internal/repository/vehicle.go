package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Tenite686/DAWI/internal/errs"
	"github.com/Tenite686/DAWI/internal/model"
)

// Vehicle is the engine's read contract over vehicle records. Writes to
// estado and kilometraje happen inside the rental transactions only.
type Vehicle interface {
	GetByID(ctx context.Context, id int64) (model.Vehicle, error)
}

type vehicleRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewVehicleRepository(db *sqlx.DB, log *zap.Logger) (*vehicleRepo, error) {
	return &vehicleRepo{
		db:  db,
		log: log.Named("vehicle-repo"),
	}, nil
}

func (r *vehicleRepo) GetByID(ctx context.Context, id int64) (model.Vehicle, error) {
	q := `
	select id, marca, modelo, placa, estado, precio_por_dia, kilometraje, activo
	from vehiculos where id = $1`
	var v model.Vehicle
	if err := r.db.GetContext(ctx, &v, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Vehicle{}, errs.NotFound("vehiculo", id)
		}
		return model.Vehicle{}, err
	}
	return v, nil
}
