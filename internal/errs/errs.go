package errs

import "errors"

var ErrUserNotFound = errors.New("user not found")
var ErrEmailAlreadyExists = errors.New("email already exists")
var ErrInvalidToken = errors.New("invalid token")
var ErrInsufficientFunds = errors.New("not enough balance")
var ErrServiceNotFound = errors.New("service not found")
var ErrTicketNotFound = errors.New("ticket not found")
var ErrOrderNotFound = errors.New("order not found")
