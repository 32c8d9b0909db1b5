package chat

import "errors"

var (
	ErrEmptyUserID     = errors.New("chat: user id cannot be empty")
	ErrEmptyMessage    = errors.New("chat: message cannot be empty")
	ErrEmptyTitle      = errors.New("chat: title cannot be empty")
	ErrSessionNotFound = errors.New("chat: session not found")
)
