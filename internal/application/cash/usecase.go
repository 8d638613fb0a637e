// Package cash implementa el libro de caja: apertura/cierre y transacciones que mueven el saldo.
package cash

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// UseCase libro de caja. Cada cambio de saldo bloquea la fila de la caja y persiste
// transacción y saldo en la misma transacción de BD.
type UseCase struct {
	txRunner     TxRunner
	registers    repository.CashRegisterRepository
	transactions repository.CashTransactionRepository
	renderer     ReportPDFRenderer
	log          *logger.Logger
}

// NewUseCase construye el libro de caja. renderer puede ser nil si no se exponen reportes PDF.
func NewUseCase(
	txRunner TxRunner,
	registers repository.CashRegisterRepository,
	transactions repository.CashTransactionRepository,
	renderer ReportPDFRenderer,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		registers:    registers,
		transactions: transactions,
		renderer:     renderer,
		log:          log.Component("cash"),
	}
}

// Open abre una caja nueva. Falla si ya hay otra abierta.
func (uc *UseCase) Open(ctx context.Context, actor string, in dto.OpenRegisterRequest) (*dto.CashRegisterResponse, error) {
	if in.Name == "" || in.InitialAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	reg := &entity.CashRegister{
		ID:        uuid.New().String(),
		Name:      in.Name,
		CreatedAt: now,
	}
	if err := reg.Open(in.InitialAmount, actor, now); err != nil {
		return nil, err
	}
	err := uc.txRunner.RunCash(ctx, func(tx repository.CashTx) error {
		if err := tx.Registers.LockOpening(ctx); err != nil {
			return err
		}
		open, err := tx.Registers.GetOpen(ctx)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrRegisterAlreadyOpen
		}
		if err := tx.Registers.Create(ctx, reg); err != nil {
			// el índice único parcial también protege la apertura simultánea
			if errors.Is(err, domain.ErrConflict) {
				return domain.ErrRegisterAlreadyOpen
			}
			return err
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("name", in.Name).Msg("apertura de caja rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("register_id", reg.ID).
		Str("initial_amount", reg.InitialAmount.String()).
		Str("actor", actor).
		Msg("caja abierta")
	return toRegisterResponse(reg), nil
}

// Close cierra la caja (terminal). Si se declara el monto contado queda registrada la diferencia.
func (uc *UseCase) Close(ctx context.Context, id, actor string, in dto.CloseRegisterRequest) (*dto.CashRegisterResponse, error) {
	var reg *entity.CashRegister
	err := uc.txRunner.RunCash(ctx, func(tx repository.CashTx) error {
		r, err := lockRegister(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := r.Close(in.CountedAmount, in.Notes, actor, time.Now()); err != nil {
			return err
		}
		if err := tx.Registers.Update(ctx, r); err != nil {
			return err
		}
		reg = r
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("register_id", id).Msg("cierre de caja rechazado")
		return nil, err
	}
	ev := uc.log.Info().
		Str("register_id", reg.ID).
		Str("current_amount", reg.CurrentAmount.String()).
		Str("actor", actor)
	if reg.Difference != nil {
		ev = ev.Str("difference", reg.Difference.String())
	}
	ev.Msg("caja cerrada")
	return toRegisterResponse(reg), nil
}

// GetCurrent devuelve la caja abierta o ErrNotFound.
func (uc *UseCase) GetCurrent(ctx context.Context) (*dto.CashRegisterResponse, error) {
	reg, err := uc.registers.GetOpen(ctx)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, domain.ErrNotFound
	}
	return toRegisterResponse(reg), nil
}

// Get obtiene una caja por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.CashRegisterResponse, error) {
	reg, err := uc.getRegister(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRegisterResponse(reg), nil
}

// List lista cajas con paginación (más recientes primero).
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CashRegisterListResponse, error) {
	page.DefaultPage()
	list, err := uc.registers.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CashRegisterResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRegisterResponse(r))
	}
	return &dto.CashRegisterListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// CreateTransaction registra una transacción y actualiza el saldo de la caja en la misma transacción.
func (uc *UseCase) CreateTransaction(ctx context.Context, registerID, actor string, in dto.CreateCashTransactionRequest) (*dto.CashTransactionMutationResponse, error) {
	txType := entity.TransactionType(in.Type)
	if err := txType.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	method := entity.PaymentMethod(in.PaymentMethod)
	if method == "" {
		method = entity.PaymentCash
	}
	if !method.Valid() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	row := &entity.CashTransaction{
		ID:            uuid.New().String(),
		RegisterID:    registerID,
		Type:          txType,
		Amount:        in.Amount,
		PaymentMethod: method,
		SaleReference: in.SaleReference,
		Description:   in.Description,
		CreatedBy:     actor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	var balance decimal.Decimal
	err := uc.txRunner.RunCash(ctx, func(tx repository.CashTx) error {
		reg, err := lockRegister(ctx, tx, registerID)
		if err != nil {
			return err
		}
		if err := reg.Apply(row.SignedAmount(), now); err != nil {
			return err
		}
		if err := tx.Transactions.Create(ctx, row); err != nil {
			return err
		}
		if err := tx.Registers.Update(ctx, reg); err != nil {
			return err
		}
		balance = reg.CurrentAmount
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("register_id", registerID).Str("type", in.Type).Msg("transacción de caja rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("register_id", registerID).
		Str("transaction_id", row.ID).
		Str("type", string(row.Type)).
		Str("amount", row.Amount.String()).
		Str("current_amount", balance.String()).
		Msg("transacción de caja registrada")
	return &dto.CashTransactionMutationResponse{Transaction: toTransactionResponse(row), CurrentAmount: balance}, nil
}

// UpdateTransaction modifica una transacción; el saldo cambia en signed(nuevo) - signed(anterior).
func (uc *UseCase) UpdateTransaction(ctx context.Context, id, actor string, in dto.UpdateCashTransactionRequest) (*dto.CashTransactionMutationResponse, error) {
	var (
		row     *entity.CashTransaction
		balance decimal.Decimal
	)
	err := uc.txRunner.RunCash(ctx, func(tx repository.CashTx) error {
		reg, current, err := lockTransaction(ctx, tx, id)
		if err != nil {
			return err
		}

		updated := *current
		if in.Type != nil {
			updated.Type = entity.TransactionType(*in.Type)
		}
		if in.Amount != nil {
			updated.Amount = *in.Amount
		}
		if in.PaymentMethod != nil {
			updated.PaymentMethod = entity.PaymentMethod(*in.PaymentMethod)
			if !updated.PaymentMethod.Valid() {
				return domain.ErrInvalidInput
			}
		}
		if in.SaleReference != nil {
			ref := *in.SaleReference
			updated.SaleReference = &ref
		}
		if in.Description != nil {
			updated.Description = *in.Description
		}
		if err := updated.Type.ValidateAmount(updated.Amount); err != nil {
			return err
		}

		now := time.Now()
		if err := reg.Apply(updated.SignedAmount().Sub(current.SignedAmount()), now); err != nil {
			return err
		}
		updated.UpdatedBy = actor
		updated.UpdatedAt = now
		if err := tx.Transactions.Update(ctx, &updated); err != nil {
			return err
		}
		if err := tx.Registers.Update(ctx, reg); err != nil {
			return err
		}
		row = &updated
		balance = reg.CurrentAmount
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("transaction_id", id).Msg("actualización de transacción rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("register_id", row.RegisterID).
		Str("transaction_id", row.ID).
		Str("current_amount", balance.String()).
		Str("actor", actor).
		Msg("transacción de caja actualizada")
	return &dto.CashTransactionMutationResponse{Transaction: toTransactionResponse(row), CurrentAmount: balance}, nil
}

// RemoveTransaction elimina (soft delete) una transacción y revierte su aporte al saldo.
func (uc *UseCase) RemoveTransaction(ctx context.Context, id, actor string) (*dto.CashTransactionMutationResponse, error) {
	var (
		row     *entity.CashTransaction
		balance decimal.Decimal
	)
	err := uc.txRunner.RunCash(ctx, func(tx repository.CashTx) error {
		reg, current, err := lockTransaction(ctx, tx, id)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := reg.Apply(current.SignedAmount().Neg(), now); err != nil {
			return err
		}
		current.DeletedBy = actor
		current.DeletedAt = &now
		current.UpdatedBy = actor
		current.UpdatedAt = now
		if err := tx.Transactions.Update(ctx, current); err != nil {
			return err
		}
		if err := tx.Registers.Update(ctx, reg); err != nil {
			return err
		}
		row = current
		balance = reg.CurrentAmount
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("transaction_id", id).Msg("eliminación de transacción rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("register_id", row.RegisterID).
		Str("transaction_id", row.ID).
		Str("current_amount", balance.String()).
		Str("actor", actor).
		Msg("transacción de caja eliminada")
	return &dto.CashTransactionMutationResponse{Transaction: toTransactionResponse(row), CurrentAmount: balance}, nil
}

// ListTransactions lista las transacciones vigentes de una caja en orden cronológico.
func (uc *UseCase) ListTransactions(ctx context.Context, registerID string) ([]dto.CashTransactionResponse, error) {
	if _, err := uc.getRegister(ctx, registerID); err != nil {
		return nil, err
	}
	list, err := uc.transactions.List(ctx, repository.CashTransactionFilter{RegisterID: registerID})
	if err != nil {
		return nil, err
	}
	return toTransactionResponses(list), nil
}

// VerifyBalance recalcula initial + Σ firmado y lo compara con el saldo guardado.
func (uc *UseCase) VerifyBalance(ctx context.Context, registerID string) (*dto.BalanceCheckResponse, error) {
	reg, err := uc.getRegister(ctx, registerID)
	if err != nil {
		return nil, err
	}
	list, err := uc.transactions.List(ctx, repository.CashTransactionFilter{RegisterID: registerID})
	if err != nil {
		return nil, err
	}
	expected := reg.InitialAmount
	for _, t := range list {
		expected = expected.Add(t.SignedAmount())
	}
	res := &dto.BalanceCheckResponse{
		RegisterID:    reg.ID,
		InitialAmount: reg.InitialAmount,
		Expected:      expected,
		CurrentAmount: reg.CurrentAmount,
		Balanced:      expected.Equal(reg.CurrentAmount),
	}
	if !res.Balanced {
		uc.log.Error().
			Str("register_id", reg.ID).
			Str("expected", expected.String()).
			Str("current_amount", reg.CurrentAmount.String()).
			Msg("saldo de caja descuadrado")
	}
	return res, nil
}

func (uc *UseCase) getRegister(ctx context.Context, id string) (*entity.CashRegister, error) {
	reg, err := uc.registers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}

// lockRegister bloquea la fila de la caja (FOR UPDATE) dentro de la transacción.
func lockRegister(ctx context.Context, tx repository.CashTx, id string) (*entity.CashRegister, error) {
	reg, err := tx.Registers.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("caja: bloquear %s: %w", id, err)
	}
	if reg == nil {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}

// lockTransaction bloquea la caja y después la fila de la transacción, en el mismo
// orden que CreateTransaction. El monto anterior y DeletedAt se leen con ambos bloqueos tomados.
func lockTransaction(ctx context.Context, tx repository.CashTx, id string) (*entity.CashRegister, *entity.CashTransaction, error) {
	// register_id no cambia nunca; basta una lectura sin bloqueo para saber qué caja bloquear.
	peek, err := tx.Transactions.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if peek == nil {
		return nil, nil, domain.ErrNotFound
	}
	reg, err := lockRegister(ctx, tx, peek.RegisterID)
	if err != nil {
		return nil, nil, err
	}
	current, err := tx.Transactions.GetForUpdate(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("caja: bloquear transacción %s: %w", id, err)
	}
	if current == nil {
		return nil, nil, domain.ErrNotFound
	}
	if current.IsDeleted() {
		return nil, nil, domain.ErrTransactionDeleted
	}
	return reg, current, nil
}

func toRegisterResponse(r *entity.CashRegister) *dto.CashRegisterResponse {
	return &dto.CashRegisterResponse{
		ID:            r.ID,
		Name:          r.Name,
		Status:        string(r.Status),
		InitialAmount: r.InitialAmount,
		CurrentAmount: r.CurrentAmount,
		CountedAmount: r.CountedAmount,
		Difference:    r.Difference,
		Notes:         r.Notes,
		OpenedBy:      r.OpenedBy,
		OpenedAt:      r.OpenedAt,
		ClosedBy:      r.ClosedBy,
		ClosedAt:      r.ClosedAt,
	}
}

func toTransactionResponse(t *entity.CashTransaction) dto.CashTransactionResponse {
	return dto.CashTransactionResponse{
		ID:            t.ID,
		RegisterID:    t.RegisterID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		SignedAmount:  t.Type.Signed(t.Amount),
		PaymentMethod: string(t.PaymentMethod),
		SaleReference: t.SaleReference,
		Description:   t.Description,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
		UpdatedBy:     t.UpdatedBy,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toTransactionResponses(list []*entity.CashTransaction) []dto.CashTransactionResponse {
	out := make([]dto.CashTransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionResponse(t))
	}
	return out
}
