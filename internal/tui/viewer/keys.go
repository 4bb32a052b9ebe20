package viewer

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/msto63/alarmview/internal/vehicles"
	viewmodel "github.com/msto63/alarmview/internal/viewer"
	"github.com/msto63/alarmview/pkg/command"
)

// keyMap holds the built-in key bindings and the vehicle shortcuts
type keyMap struct {
	Acknowledge key.Binding
	Next        key.Binding
	Previous    key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding

	Vehicles []vehicleKey
}

// vehicleKey binds a vehicle shortcut to the vehicle identifier
type vehicleKey struct {
	binding    key.Binding
	identifier string
}

func defaultKeyMap() keyMap {
	return keyMap{
		Acknowledge: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a/enter", "quittieren"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "j", "n"),
			key.WithHelp("↓/n", "älterer Einsatz"),
		),
		Previous: key.NewBinding(
			key.WithKeys("up", "k", "p"),
			key.WithHelp("↑/p", "neuerer Einsatz"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "neu laden"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Hilfe"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "beenden"),
		),
	}
}

// builtins returns the built-in bindings in priority order
func (k keyMap) builtins() []key.Binding {
	return []key.Binding{k.Quit, k.Help, k.Acknowledge, k.Next, k.Previous, k.Refresh}
}

// withVehicles adds shortcut bindings for the configured vehicles. Keys
// already taken by a built-in binding are left out.
func (k keyMap) withVehicles(cfg *vehicles.Configuration) keyMap {
	k.Vehicles = nil
	if cfg == nil {
		return k
	}

	taken := make(map[string]bool)
	for _, b := range k.builtins() {
		for _, s := range b.Keys() {
			taken[s] = true
		}
	}

	for _, v := range cfg.Vehicles {
		if v.Shortkey.IsNone() || taken[v.Shortkey.Key()] {
			continue
		}
		taken[v.Shortkey.Key()] = true
		k.Vehicles = append(k.Vehicles, vehicleKey{
			binding:    v.Shortkey.Binding(v.DisplayName()),
			identifier: v.Identifier,
		})
	}
	return k
}

// follow keeps the enabled state of the view-model bindings in line with
// their commands. The returned functions end the subscriptions.
func (k *keyMap) follow(vm *viewmodel.ViewModel) []func() {
	type pair struct {
		binding *key.Binding
		slot    *command.Slot
		param   any
	}
	pairs := []pair{
		{&k.Acknowledge, &vm.Acknowledge, nil},
		{&k.Next, &vm.Next, nil},
		{&k.Previous, &vm.Previous, nil},
		{&k.Refresh, &vm.Refresh, nil},
	}
	for i := range k.Vehicles {
		pairs = append(pairs, pair{&k.Vehicles[i].binding, &vm.ToggleVehicle, k.Vehicles[i].identifier})
	}

	var cancels []func()
	for _, p := range pairs {
		update := func() { p.binding.SetEnabled(p.slot.CanExecute(p.param)) }
		update()
		if cmd := p.slot.Command(); cmd != nil {
			cancels = append(cancels, cmd.OnCanExecuteChanged(update))
		}
	}
	return cancels
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Acknowledge, k.Next, k.Previous, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	groups := [][]key.Binding{
		{k.Acknowledge, k.Refresh},
		{k.Next, k.Previous},
		{k.Help, k.Quit},
	}

	var vehicleBindings []key.Binding
	for _, vk := range k.Vehicles {
		vehicleBindings = append(vehicleBindings, vk.binding)
	}
	if len(vehicleBindings) > 0 {
		groups = append(groups, vehicleBindings)
	}
	return groups
}
