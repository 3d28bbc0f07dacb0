package patient

import "errors"

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrNoConversation       = errors.New("patient has no linked conversation")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrInvalidPatient       = errors.New("invalid patient")
	ErrAlreadyLinked        = errors.New("patient is already linked to another conversation")
	ErrConversationClaimed  = errors.New("conversation already belongs to a patient")
)
