package model

import "errors"

// Common errors used across the application
var (
	// Event errors
	ErrEventNotFound = errors.New("event not found")
	ErrNotReady      = errors.New("event is not ready: not all participants are registered")

	// Participant errors
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrDuplicateParticipant = errors.New("duplicate participant")
	ErrAlreadyRegistered    = errors.New("participant is already registered")
	ErrAuthenticationFailed = errors.New("secret does not match stored hash")

	// Match generation errors
	ErrTooFewParticipants  = errors.New("at least two participants are required")
	ErrGenerationExhausted = errors.New("derangement attempts exhausted")

	// Assignment errors
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAssignmentMissing  = errors.New("event is generated but assignment row is missing")
	ErrDecryptionFailed   = errors.New("assignment ciphertext failed authentication")
)
