package services

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyMember      = errors.New("already a member of this group")
	ErrAlreadyInGroup     = errors.New("already in another group for this workshop")
	ErrAlreadyRegistered  = errors.New("already registered for this workshop")
	ErrInvalidScore       = errors.New("score out of range")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
