package errors

import "errors"

var (
	ErrRepertoireNotFound = errors.New("repertoire not found")
	ErrPositionNotFound   = errors.New("position not found in repertoire")
	ErrMoveNotFound       = errors.New("move not found")
	ErrLineNotFound       = errors.New("no line matches the requested notation and position")
	ErrMoveExists         = errors.New("move already recorded for this position")
	ErrInvalidColor       = errors.New("color must be \"w\" or \"b\"")
	ErrInvalidMove        = errors.New("move notation and resulting position are required")
	ErrInvalidPage        = errors.New("page numbers start at 1")
	ErrInternal           = errors.New("internal error")
)
