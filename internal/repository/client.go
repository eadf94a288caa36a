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

type Client interface {
	GetByID(ctx context.Context, id int64) (model.Client, error)
}

type clientRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewClientRepository(db *sqlx.DB, log *zap.Logger) (*clientRepo, error) {
	return &clientRepo{
		db:  db,
		log: log.Named("client-repo"),
	}, nil
}

func (r *clientRepo) GetByID(ctx context.Context, id int64) (model.Client, error) {
	q := `
	select id, nombre, coalesce(apellido, '') as apellido, dni_ruc, telefono,
	       licencia_vencimiento, activo
	from clientes where id = $1`
	var c model.Client
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Client{}, errs.NotFound("cliente", id)
		}
		return model.Client{}, err
	}
	return c, nil
}
