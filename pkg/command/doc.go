// ============================================================================
// alarmview - Einsatz-Monitor
// ============================================================================
//
// Package:     command
// Description: Command objects and the binder that installs them into
//              view-model slots
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

/*
Package command wires view-model command slots to their handler routines.

A view-model exposes one exported field of type Slot per user action. The
binder constructs a Command for each slot from an execute routine and an
optional can-execute routine and installs it; the UI layer then calls
Slot.Execute and Slot.CanExecute. Unbind clears the slots again.

Handlers are registered in one of two ways.

Explicit registration with a Descriptor, built once at composition time.
Handlers are method expressions and may be unexported:

	var viewCommands = command.NewDescriptor[*View]().
		Handle("Next", func(v *View) *command.Slot { return &v.Next },
			(*View).next, (*View).canNext)

	report, err := command.BindDescriptor(binder, viewCommands, view)

Naming convention, discovered by reflection from the exported method set. For
a slot named X the binder looks for XExecute(any) or XExecute(any) error and
XCanExecute(any) bool:

	type Shell struct {
		Quit command.Slot
	}

	func (s *Shell) QuitExecute(param any) { ... }

	report, err := binder.Bind(shell)

A slot without a usable execute routine is skipped and reported in the
returned Report; a missing or malformed can-execute routine leaves the
command always enabled. A nil instance, type or descriptor is a precondition
failure returned as an error.
*/
package command
