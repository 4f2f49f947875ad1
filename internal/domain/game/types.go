package game

import "errors"

var (
	ErrNotFound     = errors.New("game state not found")
	ErrEmptyUserID  = errors.New("user id is empty")
	ErrInvalidState = errors.New("game state must be a JSON object")
)
