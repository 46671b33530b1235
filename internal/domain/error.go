package domain

import "errors"

var (
	// Common domain errors
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrUnmappedKind     = errors.New("event object kind not mapped")
	ErrUnmappedStatus   = errors.New("unmapped payment status")
	ErrEventNotLinked   = errors.New("no customer payment intent linked to event")
	ErrInvalidArgument  = errors.New("invalid argument")
)
