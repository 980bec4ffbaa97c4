package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/models/entities"
)

// AccountRepository is the sqlx view of users used by operator tooling.
type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db}
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entities.Account, error) {
	return r.find(ctx, constants.GetAccountByID, id)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entities.Account, error) {
	return r.find(ctx, constants.GetAccountByEmail, email)
}

func (r *AccountRepository) find(ctx context.Context, query string, arg any) (*entities.Account, error) {
	var account entities.Account

	err := r.db.QueryRowxContext(ctx, query, arg).StructScan(&account)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Wrap(err, apperr.CodeNotFound, constants.MsgUserNotFound)
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	return &account, nil
}

// SetGlobalRole stores role; the empty role is stored as NULL.
func (r *AccountRepository) SetGlobalRole(ctx context.Context, id string, role constants.GlobalRole) error {
	var value *string
	if role != constants.GlobalRoleNone {
		s := string(role)
		value = &s
	}
	return r.exec(ctx, constants.SetAccountGlobalRole, id, value)
}

func (r *AccountRepository) SetStatus(ctx context.Context, id string, status constants.AccountStatus) error {
	return r.exec(ctx, constants.SetAccountStatus, id, string(status))
}

func (r *AccountRepository) SetPlan(ctx context.Context, id string, planID *string) error {
	return r.exec(ctx, constants.SetAccountPlan, id, planID)
}

func (r *AccountRepository) FindPlanIDByName(ctx context.Context, name string) (string, error) {
	var id string

	err := r.db.GetContext(ctx, &id, constants.GetPlanIDByName, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.Wrap(err, apperr.CodeNotFound, "Plan not found")
		}
		return "", fmt.Errorf("failed to fetch plan: %w", err)
	}

	return id, nil
}

// Ping backs the health check.
func (r *AccountRepository) Ping(ctx context.Context) error {
	var one int
	return r.db.GetContext(ctx, &one, constants.PingQuery)
}

func (r *AccountRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if rows == 0 {
		return apperr.New(apperr.CodeNotFound, constants.MsgUserNotFound)
	}
	return nil
}
