package arena

import (
	"errors"

	"arena/internal/ledger"
)

// Failure taxonomy for every operation. Funds, overflow and authorization
// failures are the ledger environment's own sentinels so errors.Is works the
// same whether a check fired in the core or in the environment.
var (
	ErrUnauthorized      = ledger.ErrUnauthorized
	ErrInsufficientFunds = ledger.ErrInsufficientFunds
	ErrOverflow          = ledger.ErrOverflow

	ErrInvalidState    = errors.New("invalid state")
	ErrLimitExceeded   = errors.New("limit exceeded")
	ErrAlreadyExists   = errors.New("already exists")
	ErrDuplicate       = errors.New("duplicate")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
