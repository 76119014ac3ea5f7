package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrCharetteNotFound = fmt.Errorf("charette not found")
	ErrRoomNotFound     = fmt.Errorf("breakout room not found")
	ErrInvalidPayload   = fmt.Errorf("invalid event payload")
	ErrEmptyVocabulary  = fmt.Errorf("no vocabulary terms have been provided")
)
