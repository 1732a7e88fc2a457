// Package exchangerates maintains the IDR/USD display rates and their audit trail.
package exchangerates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/denimhub/denimhub-backend/internal/activitylog"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/pagination"
	"github.com/denimhub/denimhub-backend/pkg/sanitize"
	"github.com/denimhub/denimhub-backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const rateScale = 6

type Rate struct {
	ID           uint64          `json:"id"`
	CurrencyFrom enums.Currency  `json:"currency_from"`
	CurrencyTo   enums.Currency  `json:"currency_to"`
	Rate         decimal.Decimal `json:"rate"`
	IsActive     bool            `json:"is_active"`
	UpdatedBy    *uint64         `json:"updated_by,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type RateLog struct {
	ID        uint64           `json:"id"`
	OldRate   *decimal.Decimal `json:"old_rate,omitempty"`
	NewRate   decimal.Decimal  `json:"new_rate"`
	Reason    string           `json:"reason,omitempty"`
	ChangedBy *uint64          `json:"changed_by,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type RateLogList struct {
	Logs       []RateLog        `json:"logs"`
	Pagination types.Pagination `json:"-"`
}

// UpsertInput sets the rate for a currency pair, reactivating it if it was deleted.
type UpsertInput struct {
	CurrencyFrom string
	CurrencyTo   string
	Rate         decimal.Decimal
	Reason       string
	Actor        activitylog.Actor
}

// Conversion is the result of converting an amount between currencies.
type Conversion struct {
	From      enums.Currency  `json:"from"`
	To        enums.Currency  `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Rate      decimal.Decimal `json:"rate"`
	Converted decimal.Decimal `json:"converted"`
	Inverse   bool            `json:"inverse"`
}

type Service interface {
	List(ctx context.Context, includeInactive bool) ([]Rate, error)
	Upsert(ctx context.Context, input UpsertInput) (*Rate, error)
	Delete(ctx context.Context, id uint64, reason string, actor activitylog.Actor) error
	Logs(ctx context.Context, id uint64, params pagination.Params) (*RateLogList, error)
	Convert(ctx context.Context, from, to string, amount decimal.Decimal) (*Conversion, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	tx       txRunner
	activity activitylog.Recorder
}

func NewService(repo Repository, tx txRunner, activity activitylog.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("exchange rate repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if activity == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, tx: tx, activity: activity}, nil
}

func (s *service) List(ctx context.Context, includeInactive bool) ([]Rate, error) {
	rows, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list exchange rates")
	}
	out := make([]Rate, 0, len(rows))
	for i := range rows {
		out = append(out, toRate(&rows[i]))
	}
	return out, nil
}

func (s *service) Upsert(ctx context.Context, input UpsertInput) (*Rate, error) {
	from, to, err := parsePair(input.CurrencyFrom, input.CurrencyTo)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currencies must differ")
	}
	if !input.Rate.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate must be positive")
	}
	newRate := input.Rate.Round(rateScale)
	reason := sanitize.Text(input.Reason)

	var (
		saved   *models.ExchangeRate
		oldRate *decimal.Decimal
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindPair(ctx, from, to, true)
		switch {
		case err == nil:
			previous := existing.Rate
			oldRate = &previous
			if err := repo.Update(ctx, existing.ID, map[string]any{
				"rate":       newRate,
				"is_active":  true,
				"updated_by": input.Actor.UserIDPtr(),
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update exchange rate")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			created := &models.ExchangeRate{
				CurrencyFrom: from,
				CurrencyTo:   to,
				Rate:         newRate,
				IsActive:     true,
				UpdatedBy:    input.Actor.UserIDPtr(),
			}
			if err := repo.Create(ctx, created); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create exchange rate")
			}
			existing = created
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load exchange rate")
		}

		if err := repo.CreateLog(ctx, &models.ExchangeRateLog{
			ExchangeRateID: existing.ID,
			OldRate:        oldRate,
			NewRate:        newRate,
			Reason:         reason,
			ChangedBy:      input.Actor.UserIDPtr(),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "log exchange rate change")
		}

		saved, err = repo.FindByID(ctx, existing.ID, false)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload exchange rate")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Set %s/%s rate to %s", from, to, newRate.String())
	if oldRate != nil {
		description = fmt.Sprintf("Changed %s/%s rate from %s to %s", from, to, oldRate.String(), newRate.String())
	}
	s.activity.Record(ctx, activitylog.Entry{
		Actor:       input.Actor,
		Action:      activitylog.ActionUpsertExchangeRate,
		EntityType:  activitylog.EntityExchangeRate,
		EntityID:    saved.ID,
		Description: description,
	})
	rate := toRate(saved)
	return &rate, nil
}

// Delete deactivates a rate. The row and its logs are kept.
func (s *service) Delete(ctx context.Context, id uint64, reason string, actor activitylog.Actor) error {
	if id == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "exchange rate id required")
	}
	reason = sanitize.Text(reason)
	if reason == "" {
		reason = "deactivated"
	}

	var deleted *models.ExchangeRate
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByID(ctx, id, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "exchange rate not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load exchange rate")
		}
		if !existing.IsActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "exchange rate already inactive")
		}
		if err := repo.Update(ctx, id, map[string]any{
			"is_active":  false,
			"updated_by": actor.UserIDPtr(),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate exchange rate")
		}
		current := existing.Rate
		if err := repo.CreateLog(ctx, &models.ExchangeRateLog{
			ExchangeRateID: id,
			OldRate:        &current,
			NewRate:        current,
			Reason:         reason,
			ChangedBy:      actor.UserIDPtr(),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "log exchange rate change")
		}
		deleted = existing
		return nil
	})
	if err != nil {
		return err
	}

	s.activity.Record(ctx, activitylog.Entry{
		Actor:       actor,
		Action:      activitylog.ActionDeleteExchangeRate,
		EntityType:  activitylog.EntityExchangeRate,
		EntityID:    id,
		Description: fmt.Sprintf("Deactivated %s/%s rate", deleted.CurrencyFrom, deleted.CurrencyTo),
	})
	return nil
}

func (s *service) Logs(ctx context.Context, id uint64, params pagination.Params) (*RateLogList, error) {
	if _, err := s.repo.FindByID(ctx, id, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "exchange rate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load exchange rate")
	}
	rows, total, err := s.repo.ListLogs(ctx, id, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list exchange rate logs")
	}
	out := &RateLogList{
		Logs:       make([]RateLog, 0, len(rows)),
		Pagination: pagination.Result(params, total),
	}
	for _, row := range rows {
		out.Logs = append(out.Logs, RateLog{
			ID:        row.ID,
			OldRate:   row.OldRate,
			NewRate:   row.NewRate,
			Reason:    row.Reason,
			ChangedBy: row.ChangedBy,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

// Convert uses the active direct rate, falling back to the inverse of the
// opposite pair. Same-currency conversion is the identity.
func (s *service) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (*Conversion, error) {
	fromCur, toCur, err := parsePair(from, to)
	if err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}

	result := &Conversion{From: fromCur, To: toCur, Amount: amount}
	if fromCur == toCur {
		result.Rate = decimal.NewFromInt(1)
		result.Converted = amount
		return result, nil
	}

	direct, err := s.repo.FindActivePair(ctx, fromCur, toCur)
	switch {
	case err == nil:
		result.Rate = direct.Rate
		result.Converted = amount.Mul(direct.Rate).Round(2)
		return result, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load exchange rate")
	}

	inverse, err := s.repo.FindActivePair(ctx, toCur, fromCur)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "no active rate between %s and %s", fromCur, toCur)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load exchange rate")
	}
	result.Inverse = true
	result.Rate = decimal.NewFromInt(1).DivRound(inverse.Rate, rateScale)
	result.Converted = amount.DivRound(inverse.Rate, 2)
	return result, nil
}

func parsePair(from, to string) (enums.Currency, enums.Currency, error) {
	fromCur, err := enums.ParseCurrency(strings.TrimSpace(from))
	if err != nil {
		return "", "", pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported currency %q", from)
	}
	toCur, err := enums.ParseCurrency(strings.TrimSpace(to))
	if err != nil {
		return "", "", pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported currency %q", to)
	}
	return fromCur, toCur, nil
}

func toRate(row *models.ExchangeRate) Rate {
	return Rate{
		ID:           row.ID,
		CurrencyFrom: row.CurrencyFrom,
		CurrencyTo:   row.CurrencyTo,
		Rate:         row.Rate,
		IsActive:     row.IsActive,
		UpdatedBy:    row.UpdatedBy,
		UpdatedAt:    row.UpdatedAt,
	}
}
