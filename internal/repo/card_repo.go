package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/cardkeep/internal/model"
	"github.com/xxxsen/cardkeep/internal/pkg/dbutil"
	appErr "github.com/xxxsen/cardkeep/internal/pkg/errors"
)

var cardColumns = []string{"id", "owner", "name", "title", "company", "email", "phone", "ctime"}

type CardRepo struct {
	db *sqlx.DB
}

func NewCardRepo(db *sqlx.DB) *CardRepo {
	return &CardRepo{db: db}
}

func (r *CardRepo) Create(ctx context.Context, card *model.Card) error {
	data := map[string]interface{}{
		"id":      card.ID,
		"owner":   card.Owner,
		"name":    card.Name,
		"title":   card.Title,
		"company": card.Company,
		"email":   card.Email,
		"phone":   card.Phone,
		"ctime":   card.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("cards", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(r.db.DriverName(), sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

func (r *CardRepo) ListByOwner(ctx context.Context, owner string) ([]model.Card, error) {
	where := map[string]interface{}{
		"owner":    owner,
		"_orderby": "seq asc",
	}
	sqlStr, args, err := builder.BuildSelect("cards", where, cardColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.db.DriverName(), sqlStr, args)
	cards := make([]model.Card, 0)
	if err := r.db.SelectContext(ctx, &cards, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("select cards: %w", err)
	}
	if cards == nil {
		cards = []model.Card{}
	}
	return cards, nil
}

func (r *CardRepo) GetByOwner(ctx context.Context, owner, id string) (*model.Card, error) {
	where := map[string]interface{}{
		"id":    id,
		"owner": owner,
	}
	sqlStr, args, err := builder.BuildSelect("cards", where, cardColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.db.DriverName(), sqlStr, args)
	var card model.Card
	if err := r.db.GetContext(ctx, &card, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErr.ErrNotFound
		}
		return nil, fmt.Errorf("select card: %w", err)
	}
	return &card, nil
}

func (r *CardRepo) DeleteByOwner(ctx context.Context, owner, id string) error {
	where := map[string]interface{}{
		"id":    id,
		"owner": owner,
	}
	sqlStr, args, err := builder.BuildDelete("cards", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(r.db.DriverName(), sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}
