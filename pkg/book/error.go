package book

import "errors"

var (
	ErrInvalidSide   = errors.New("invalid order side")
	ErrOrderNotFound = errors.New("order not found")
)
