package viewer

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/alarmview/internal/operation"
)

// FeedStatus reports the state of the operation feed
type FeedStatus struct {
	Connected bool
	Err       error
}

// operationMsg carries an operation received from the feed
type operationMsg struct {
	op *operation.Operation
}

// feedStatusMsg carries a feed state change
type feedStatusMsg FeedStatus

// refreshMsg asks the model to reload operations
type refreshMsg struct{}

// tickMsg updates the clock
type tickMsg time.Time

// waitForOperation returns the next operation from ch. A closed channel
// yields nil and stops the subscription.
func waitForOperation(ch <-chan *operation.Operation) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		op, ok := <-ch
		if !ok {
			return nil
		}
		return operationMsg{op: op}
	}
}

// waitForStatus returns the next feed state from ch
func waitForStatus(ch <-chan FeedStatus) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return feedStatusMsg(st)
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
