package command

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
)

// UpdateAccountStatus moves an account through its status state machine
// (ACTIVE <-> BLOCKED, any -> CLOSED). The row is write-locked for the
// duration so a concurrent poster cannot slip a posting past a close.
func (uc *UseCase) UpdateAccountStatus(ctx context.Context, id uuid.UUID, targetStatus string) (*mmodel.Account, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.update_account_status")
	defer span.End()

	entityType := reflect.TypeOf(mmodel.Account{}).Name()

	var updated *mmodel.Account

	err := uc.runInTransaction(ctx, entityType, func(ctx context.Context) error {
		accounts, err := uc.AccountRepo.ListByIDsForUpdate(ctx, []uuid.UUID{id})
		if err != nil {
			return err
		}

		if len(accounts) == 0 {
			return pkg.ValidateBusinessError(constant.ErrAccountNotFound, entityType)
		}

		current := accounts[0]

		if !constant.CanTransitionAccount(current.Status, targetStatus) {
			return pkg.ValidateBusinessError(constant.ErrInvalidAccountStateTransition, entityType)
		}

		if targetStatus == constant.AccountStatusClosed {
			// Close does not verify a zero balance; documented limitation.
			logger.Warnf("Closing account %s without zero-balance verification", current.ID)
		}

		updated, err = uc.AccountRepo.UpdateStatus(ctx, id, targetStatus)

		return err
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to update account status", err)

		logger.Errorf("Error updating account status: %v", err)

		return nil, err
	}

	logger.Infof("Account %s moved to status %s", updated.ID, updated.Status)

	return updated, nil
}
