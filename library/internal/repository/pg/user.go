package pg

import (
	"context"
	"strings"
	"time"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	"github.com/Astemirdum/library-rental/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

var userColumns = []string{
	"id", "name", "email", "password_hash", "role", "membership_date",
	"total_fees", "is_active", "created_at", "updated_at",
}

func (r *repo) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns(userColumns...).
		Values(user.ID, user.Name, strings.ToLower(user.Email), user.PasswordHash, user.Role,
			user.MembershipDate, user.TotalFees, user.IsActive, user.CreatedAt, user.UpdatedAt).
		Suffix("returning " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, mapErr(err)
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, errs.ErrEmailTaken
		}
		return model.User{}, mapErr(err)
	}
	return created, nil
}

func (r *repo) getUserWhere(ctx context.Context, where sq.Eq) (model.User, error) {
	query, args, err := qb.Select(userColumns...).From(usersTableName).Where(where).ToSql()
	if err != nil {
		return model.User{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, mapErr(err)
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.ErrUserNotFound
		}
		return model.User{}, mapErr(err)
	}
	return user, nil
}

func (r *repo) GetUser(ctx context.Context, id string) (model.User, error) {
	if !validID(id) {
		return model.User{}, errs.ErrUserNotFound
	}
	return r.getUserWhere(ctx, sq.Eq{"id": id})
}

func (r *repo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUserWhere(ctx, sq.Eq{"email": strings.ToLower(email)})
}

func (r *repo) ListUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := qb.Select(userColumns...).From(usersTableName).OrderBy("created_at desc").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, mapErr(err)
	}
	return users, nil
}

func (r *repo) UpdateUser(ctx context.Context, id string, patch model.UserPatch, now time.Time) (model.User, error) {
	if !validID(id) {
		return model.User{}, errs.ErrUserNotFound
	}
	set := map[string]any{"updated_at": now}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}
	query, args, err := qb.Update(usersTableName).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, mapErr(err)
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.ErrUserNotFound
		}
		return model.User{}, mapErr(err)
	}
	return user, nil
}
