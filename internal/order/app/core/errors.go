package core

import "errors"

var (
	ErrParseCmd = errors.New("cannot parse arguments")
	ErrHelp     = errors.New("")

	ErrDBConn = errors.New("db connection failure")
	ErrMBConn = errors.New("message broker connection failure")
	ErrMBCh   = errors.New("message broker channel failure")

	ErrFieldIsEmpty = errors.New("field is empty")
	ErrInvalidEmail = errors.New("email is not valid")
	ErrEmptyItems   = errors.New("order must contain at least one item")
	ErrBadCount     = errors.New("item count must be a positive integer")
	ErrBadPrice     = errors.New("menu price must be positive")
	ErrMaxQuantity  = errors.New("total quantity exceeds the order limit")

	// ErrMenuNotFound is wrapped with the missing id at the failure site.
	ErrMenuNotFound = errors.New("menu does not exist")

	// ErrCustomerConflict surfaces when the on-conflict re-read still finds
	// no row for the email.
	ErrCustomerConflict = errors.New("concurrent customer creation conflict")

	ErrNotOwner = errors.New("email does not own this menu")
)
