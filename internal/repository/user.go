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

// User resolves the acting user attached to each rental. Authentication
// itself lives in the handler middleware.
type User interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

type userRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewUserRepository(db *sqlx.DB, log *zap.Logger) (*userRepo, error) {
	return &userRepo{
		db:  db,
		log: log.Named("user-repo"),
	}, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	q := `select id, username, nombre_completo, rol from usuarios where username = $1`
	var u model.User
	if err := r.db.GetContext(ctx, &u, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.NotFound("usuario", username)
		}
		return model.User{}, err
	}
	return u, nil
}
