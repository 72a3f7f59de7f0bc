// Package services holds the diary use cases. Each operation picks its unit of
// work (pool connection, transaction or read-only snapshot) from Storage and
// binds repositories to it through the repository manager.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
)

// Storage is the part of storage.Gateway the services depend on.
type Storage interface {
	Run(ctx context.Context, fn func(ctx context.Context, db dbx.DBTX) error) error
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	WithSnapshot(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
}

// fail wraps err into a *common.ServiceError and logs it once.
// Validation failures are the client's fault and only logged at warn.
func fail(ctx context.Context, log logging.Logger, op string, err error) error {
	se := common.NewServiceError(op, dbx.Kind(err), err)
	if errors.Is(se.Kind, common.ErrValidation) {
		log.Warn(ctx, op+" rejected", "error", err)
	} else {
		log.Error(ctx, op+" failed", "kind", se.Kind.Error(), "error", err)
	}
	return se
}
