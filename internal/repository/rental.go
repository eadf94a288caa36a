package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Tenite686/DAWI/internal/errs"
	"github.com/Tenite686/DAWI/internal/model"
)

type Rental interface {
	Create(ctx context.Context, rental model.Rental) (model.RentalResponse, error)
	Complete(ctx context.Context, upd ReturnUpdate) (model.RentalResponse, error)
	Cancel(ctx context.Context, id int64) (model.RentalResponse, error)
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (model.RentalResponse, error)
	List(ctx context.Context, f model.RentalFilter) (model.ListRentals, error)
	ListOverdue(ctx context.Context, now time.Time) ([]model.Rental, error)
}

// ReturnUpdate carries everything Complete writes in one transaction.
// Notes is the final value (already joined by the service); Surcharge is
// added to the stored total, never replacing it.
type ReturnUpdate struct {
	ID           int64
	ActualReturn time.Time
	EndOdometer  int
	Notes        string
	Surcharge    float64
}

type rentalRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRentalRepository(db *sqlx.DB, log *zap.Logger) (*rentalRepo, error) {
	return &rentalRepo{
		db:  db,
		log: log.Named("rental-repo"),
	}, nil
}

const (
	rentalTableName  = `alquileres`
	vehicleTableName = `vehiculos`
	clientTableName  = `clientes`
	userTableName    = `usuarios`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var rentalColumns = []string{
	"id", "alquiler_uid", "cliente_id", "vehiculo_id", "usuario_id",
	"fecha_inicio", "fecha_fin_estimada", "fecha_devolucion_real",
	"precio_total", "estado", "kilometraje_inicio", "kilometraje_fin",
	"observaciones", "activo", "created_at", "updated_at",
}

// rentalDetailsRow flattens the rental row joined with its client, vehicle
// and user snapshots.
type rentalDetailsRow struct {
	model.Rental
	model.ClientInfo
	model.VehicleInfo
	model.UserInfo
}

const rentalDetailsQuery = `
select a.id, a.alquiler_uid, a.cliente_id, a.vehiculo_id, a.usuario_id,
       a.fecha_inicio, a.fecha_fin_estimada, a.fecha_devolucion_real,
       a.precio_total, a.estado, a.kilometraje_inicio, a.kilometraje_fin,
       a.observaciones, a.activo, a.created_at, a.updated_at,
       c.id as c_id,
       trim(concat(c.nombre, ' ', coalesce(c.apellido, ''))) as c_nombre_completo,
       c.dni_ruc as c_dni_ruc,
       c.telefono as c_telefono,
       v.id as v_id, v.marca as v_marca, v.modelo as v_modelo,
       v.placa as v_placa, v.precio_por_dia as v_precio_por_dia,
       u.id as u_id, u.nombre_completo as u_nombre_completo
from alquileres a
join clientes c on c.id = a.cliente_id
join vehiculos v on v.id = a.vehiculo_id
join usuarios u on u.id = a.usuario_id`

func toResponse(row rentalDetailsRow) model.RentalResponse {
	return model.RentalResponse{
		Rental:   row.Rental,
		Cliente:  row.ClientInfo,
		Vehiculo: row.VehicleInfo,
		Usuario:  row.UserInfo,
	}
}

func (r *rentalRepo) GetByID(ctx context.Context, id int64) (model.RentalResponse, error) {
	var row rentalDetailsRow
	if err := r.db.GetContext(ctx, &row, rentalDetailsQuery+` where a.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RentalResponse{}, errs.NotFound("alquiler", id)
		}
		return model.RentalResponse{}, err
	}
	return toResponse(row), nil
}

// Create inserts the rental in ACTIVO state and flips the vehicle to
// ALQUILADO in one transaction. The vehicle row lock taken up front
// serializes check-then-act per vehicle; the overlap count and the state
// re-check run under that lock.
func (r *rentalRepo) Create(ctx context.Context, rental model.Rental) (model.RentalResponse, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.RentalResponse{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	var veh struct {
		Status   model.VehicleStatus `db:"estado"`
		Odometer int                 `db:"kilometraje"`
	}
	q := `select estado, kilometraje from vehiculos where id = $1 and activo for update`
	if err := tx.GetContext(ctx, &veh, q, rental.VehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RentalResponse{}, errs.NotFound("vehiculo", rental.VehicleID)
		}
		return model.RentalResponse{}, err
	}
	if veh.Status != model.VehicleAvailable {
		return model.RentalResponse{}, errs.Business("el vehiculo no esta disponible")
	}

	// Closed-interval overlap: touching endpoints conflict.
	var overlapping int
	q = `
	select count(*) from alquileres
	where vehiculo_id = $1 and estado = 'ACTIVO' and activo
	  and fecha_inicio <= $3 and fecha_fin_estimada >= $2`
	if err := tx.GetContext(ctx, &overlapping, q, rental.VehicleID, rental.StartDate, rental.EstimatedEnd); err != nil {
		return model.RentalResponse{}, err
	}
	if overlapping > 0 {
		return model.RentalResponse{}, errs.Business("el vehiculo ya esta alquilado en el periodo solicitado")
	}

	if rental.StartOdometer < veh.Odometer {
		return model.RentalResponse{}, errs.Validation(
			"el kilometraje inicial no puede ser menor al kilometraje actual del vehiculo")
	}

	query, args, err := qb.Insert(rentalTableName).
		Columns("alquiler_uid", "cliente_id", "vehiculo_id", "usuario_id",
			"fecha_inicio", "fecha_fin_estimada", "precio_total", "estado",
			"kilometraje_inicio", "observaciones").
		Values(uuid.New(), rental.ClientID, rental.VehicleID, rental.UserID,
			rental.StartDate, rental.EstimatedEnd, rental.TotalPrice, model.RentalActive,
			rental.StartOdometer, rental.Notes).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.RentalResponse{}, err
	}
	var id int64
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		r.log.Error("insert rental", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.RentalResponse{}, mapConstraintErr(err)
	}

	if _, err := tx.ExecContext(ctx,
		`update vehiculos set estado = $2, updated_at = now() where id = $1`,
		rental.VehicleID, model.VehicleRented); err != nil {
		return model.RentalResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.RentalResponse{}, err
	}
	return r.GetByID(ctx, id)
}

// mapConstraintErr turns the alquileres exclusion guard into the business
// error the caller expects instead of a raw pg error.
func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		(pgErr.Code == pgerrcode.ExclusionViolation || pgErr.Code == pgerrcode.UniqueViolation) {
		return errs.Business("el vehiculo ya esta alquilado en el periodo solicitado")
	}
	return err
}

func (r *rentalRepo) Complete(ctx context.Context, upd ReturnUpdate) (model.RentalResponse, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.RentalResponse{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	q := `
	update alquileres
	set fecha_devolucion_real = $2,
	    kilometraje_fin = $3,
	    observaciones = $4,
	    precio_total = precio_total + $5,
	    estado = 'COMPLETADO',
	    updated_at = now()
	where id = $1 and estado = 'ACTIVO'
	returning vehiculo_id`
	var vehicleID int64
	if err := tx.GetContext(ctx, &vehicleID, q,
		upd.ID, upd.ActualReturn, upd.EndOdometer, upd.Notes, upd.Surcharge); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RentalResponse{}, r.notActive(ctx, upd.ID)
		}
		return model.RentalResponse{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`update vehiculos set estado = $2, kilometraje = $3, updated_at = now() where id = $1`,
		vehicleID, model.VehicleAvailable, upd.EndOdometer); err != nil {
		return model.RentalResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.RentalResponse{}, err
	}
	return r.GetByID(ctx, upd.ID)
}

func (r *rentalRepo) Cancel(ctx context.Context, id int64) (model.RentalResponse, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.RentalResponse{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	q := `
	update alquileres
	set estado = 'CANCELADO', updated_at = now()
	where id = $1 and estado = 'ACTIVO'
	returning vehiculo_id`
	var vehicleID int64
	if err := tx.GetContext(ctx, &vehicleID, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RentalResponse{}, r.notActive(ctx, id)
		}
		return model.RentalResponse{}, err
	}

	// Odometer untouched: the vehicle never moved.
	if _, err := tx.ExecContext(ctx,
		`update vehiculos set estado = $2, updated_at = now() where id = $1`,
		vehicleID, model.VehicleAvailable); err != nil {
		return model.RentalResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.RentalResponse{}, err
	}
	return r.GetByID(ctx, id)
}

// notActive distinguishes a missing rental from one no longer ACTIVO after
// a guarded update matched nothing.
func (r *rentalRepo) notActive(ctx context.Context, id int64) error {
	var status model.RentalStatus
	err := r.db.GetContext(ctx, &status, `select estado from alquileres where id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("alquiler", id)
	}
	if err != nil {
		return err
	}
	return errs.Business("el alquiler no esta activo")
}

func (r *rentalRepo) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`update alquileres set activo = false, updated_at = now() where id = $1 and estado <> 'ACTIVO'`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var status model.RentalStatus
		err := r.db.GetContext(ctx, &status, `select estado from alquileres where id = $1`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.NotFound("alquiler", id)
		}
		if err != nil {
			return err
		}
		return errs.Business("no se puede eliminar un alquiler activo, debe cancelarlo primero")
	}
	return nil
}

func (r *rentalRepo) List(ctx context.Context, f model.RentalFilter) (model.ListRentals, error) {
	base := qb.Select(
		"a.id", "a.alquiler_uid", "a.cliente_id", "a.vehiculo_id", "a.usuario_id",
		"a.fecha_inicio", "a.fecha_fin_estimada", "a.fecha_devolucion_real",
		"a.precio_total", "a.estado", "a.kilometraje_inicio", "a.kilometraje_fin",
		"a.observaciones", "a.activo", "a.created_at", "a.updated_at",
		"c.id as c_id",
		"trim(concat(c.nombre, ' ', coalesce(c.apellido, ''))) as c_nombre_completo",
		"c.dni_ruc as c_dni_ruc", "c.telefono as c_telefono",
		"v.id as v_id", "v.marca as v_marca", "v.modelo as v_modelo",
		"v.placa as v_placa", "v.precio_por_dia as v_precio_por_dia",
		"u.id as u_id", "u.nombre_completo as u_nombre_completo").
		From(rentalTableName + " a").
		Join(clientTableName + " c on c.id = a.cliente_id").
		Join(vehicleTableName + " v on v.id = a.vehiculo_id").
		Join(userTableName + " u on u.id = a.usuario_id")

	base = applyFilter(base, f)
	base = base.OrderBy("a.fecha_inicio desc")
	if f.Page != 0 && f.Size != 0 {
		base = base.Limit(uint64(f.Size)).Offset(uint64((f.Page - 1) * f.Size))
	}

	query, args, err := base.ToSql()
	if err != nil {
		return model.ListRentals{}, err
	}
	r.log.Debug("List", zap.String("query", query), zap.Any("args", args))

	var rows []rentalDetailsRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return model.ListRentals{}, err
	}

	total, err := r.count(ctx, f)
	if err != nil {
		return model.ListRentals{}, err
	}

	items := make([]model.RentalResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toResponse(row))
	}
	return model.ListRentals{
		Paging: model.Paging{
			Page:          f.Page,
			PageSize:      f.Size,
			TotalElements: total,
		},
		Items: items,
	}, nil
}

func (r *rentalRepo) count(ctx context.Context, f model.RentalFilter) (int, error) {
	query, args, err := applyFilter(qb.Select("count(*)").From(rentalTableName+" a"), f).ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func applyFilter(q sq.SelectBuilder, f model.RentalFilter) sq.SelectBuilder {
	if f.Status != nil {
		q = q.Where(sq.Eq{"a.estado": *f.Status})
	}
	if f.ClientID != nil {
		q = q.Where(sq.Eq{"a.cliente_id": *f.ClientID})
	}
	if f.VehicleID != nil {
		q = q.Where(sq.Eq{"a.vehiculo_id": *f.VehicleID})
	}
	if f.UserID != nil {
		q = q.Where(sq.Eq{"a.usuario_id": *f.UserID})
	}
	if f.From != nil {
		q = q.Where(sq.GtOrEq{"a.fecha_inicio": *f.From})
	}
	if f.To != nil {
		q = q.Where(sq.LtOrEq{"a.fecha_fin_estimada": *f.To})
	}
	if f.Active != nil {
		q = q.Where(sq.Eq{"a.activo": *f.Active})
	}
	return q
}

func (r *rentalRepo) ListOverdue(ctx context.Context, now time.Time) ([]model.Rental, error) {
	query, args, err := qb.Select(rentalColumns...).
		From(rentalTableName).
		Where(sq.Eq{"estado": model.RentalActive}).
		Where(sq.Eq{"activo": true}).
		Where(sq.Lt{"fecha_fin_estimada": now}).
		OrderBy("fecha_fin_estimada").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Rental
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}
