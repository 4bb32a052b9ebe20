package command

import (
	mdwerror "github.com/msto63/alarmview/foundation/core/error"
)

// Precondition failures returned by the binder. Compare with errors.Is.
var (
	ErrNilInstance     = mdwerror.New("command: instance must not be nil").WithCode(mdwerror.CodePrecondition)
	ErrNilType         = mdwerror.New("command: type must not be nil").WithCode(mdwerror.CodePrecondition)
	ErrNilDescriptor   = mdwerror.New("command: descriptor must not be nil").WithCode(mdwerror.CodePrecondition)
	ErrUnsupportedType = mdwerror.New("command: type must be a pointer to a struct").WithCode(mdwerror.CodePrecondition)
	ErrTypeMismatch    = mdwerror.New("command: instance does not match the descriptor type").WithCode(mdwerror.CodePrecondition)
)

// ErrAlreadyBound is returned under RebindReject when a slot already holds a command.
var ErrAlreadyBound = mdwerror.New("command: slot already bound").WithCode(mdwerror.CodeInvalidOperation)

// ErrNotBound is returned when executing an empty slot.
var ErrNotBound = mdwerror.New("command: slot not bound").WithCode(mdwerror.CodeInvalidOperation)
