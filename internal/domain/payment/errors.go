package payment

import "errors"

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")

	// ErrPayment is a gateway failure: nothing was charged or written.
	ErrPayment = errors.New("payment failed")
	// ErrPaymentDeclined means the gateway answered but did not authorize.
	ErrPaymentDeclined = errors.New("payment declined")
)

func IsErrBadRequest(err error) bool      { return errors.Is(err, ErrBadRequest) }
func IsErrUnauthorized(err error) bool    { return errors.Is(err, ErrUnauthorized) }
func IsErrNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsErrPayment(err error) bool         { return errors.Is(err, ErrPayment) }
func IsErrPaymentDeclined(err error) bool { return errors.Is(err, ErrPaymentDeclined) }
