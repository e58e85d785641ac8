package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidTarget       = errors.New("invalid target")
	ErrInvalidDeadline     = errors.New("invalid deadline")
	ErrInactiveCampaign    = errors.New("campaign is not active")
	ErrCampaignExpired     = errors.New("campaign has expired")
	ErrZeroAmount          = errors.New("donation amount must be positive")
	ErrNothingToWithdraw   = errors.New("nothing to withdraw")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrInsufficientCustody = errors.New("insufficient custody balance")
	ErrJournalConflict     = errors.New("journal conflict")
	ErrJournalCorrupt      = errors.New("journal corrupt")
	ErrNotInitialized      = errors.New("ledger not initialized")
)
