package keyboard

import "errors"

var (
	errAlreadySubscribed = errors.New("keyboard hook already has a subscriber")
	errHookUnavailable   = errors.New("failed to start keyboard hook")
)
