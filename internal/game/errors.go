package game

import "errors"

var (
	ErrAgentNotFound = errors.New("agent not found")
	ErrAgentExists   = errors.New("agent already exists")
	ErrItemNotFound  = errors.New("item not found")
	ErrItemExists    = errors.New("item already exists")
)
