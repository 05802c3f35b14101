package energy

import "errors"

// Validation errors: rejected at VerifyPhase, never mutate state.
var (
	ErrUnfreezeAmountZero    = errors.New("unfreeze amount must be greater than zero")
	ErrUnfreezeDelegatedTOS  = errors.New("cannot unfreeze delegated TOS")
	ErrUnfreezingListFull    = errors.New("unfreezing list is full")
	ErrSelfDelegation        = errors.New("cannot delegate to self")
	ErrDelegationTooSmall    = errors.New("delegation amount below minimum")
	ErrDelegationNotWhole    = errors.New("delegation amount must be a whole-coin multiple")
	ErrDelegationInsufficient = errors.New("amount exceeds available-for-delegation balance")
	ErrLockDaysExceedsMax    = errors.New("lock period exceeds maximum delegate lock days")
	ErrDelegationLocked      = errors.New("delegation lock period has not expired")
	ErrDelegationNotFound    = errors.New("no delegation exists between these accounts")
	ErrUndelegateExceeds     = errors.New("undelegate amount exceeds outstanding delegation")
	ErrZeroAddress           = errors.New("zero address is not a valid participant")

	// Invariant errors: a bug, not a user-correctable condition.
	ErrDelegatedExceedsFrozen = errors.New("invariant violated: delegated_frozen_balance exceeds frozen_balance")
)
