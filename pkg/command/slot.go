package command

// Slot is a view-model field that holds at most one Command.
// Only the binder installs or clears the command.
type Slot struct {
	cmd *Command
}

// Command returns the installed command or nil.
func (s *Slot) Command() *Command {
	return s.cmd
}

// Bound reports whether the slot holds a command.
func (s *Slot) Bound() bool {
	return s.cmd != nil
}

// Execute invokes the installed command. An empty slot returns ErrNotBound.
func (s *Slot) Execute(param any) error {
	if s.cmd == nil {
		return ErrNotBound
	}
	return s.cmd.Execute(param)
}

// CanExecute queries the installed command. An empty slot is never enabled.
func (s *Slot) CanExecute(param any) bool {
	if s.cmd == nil {
		return false
	}
	return s.cmd.CanExecute(param)
}

// TryExecute executes the command if it is bound and enabled for param.
// It reports whether the command ran.
func (s *Slot) TryExecute(param any) (bool, error) {
	if !s.CanExecute(param) {
		return false, nil
	}
	return true, s.cmd.Execute(param)
}

// RaiseCanExecuteChanged forwards to the installed command; no-op when empty.
func (s *Slot) RaiseCanExecuteChanged() {
	if s.cmd != nil {
		s.cmd.RaiseCanExecuteChanged()
	}
}

func (s *Slot) set(cmd *Command) {
	s.cmd = cmd
}

func (s *Slot) clear() bool {
	if s.cmd == nil {
		return false
	}
	s.cmd.release()
	s.cmd = nil
	return true
}
