package payment

import "errors"

var ErrUnknownMethod = errors.New("payment method is not offered by this allocation")
