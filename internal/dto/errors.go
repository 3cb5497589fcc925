package dto

import (
	"errors"
)

var (
	ErrNotFound       = errors.New("errRecordNotFound")
	ErrDuplicateEmail = errors.New("errDuplicateEmail")
	ErrDeliveryFailed = errors.New("errEmailDeliveryFailed")
	ErrPublishFailed  = errors.New("errPublishFailed")
)
