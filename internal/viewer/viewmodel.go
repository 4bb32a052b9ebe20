// ============================================================================
// alarmview - Einsatz-Monitor
// ============================================================================
//
// Package:     viewer
// Description: View-model of the operation viewer with its bound commands
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package viewer

import (
	"context"
	"time"

	mdwerror "github.com/msto63/alarmview/foundation/core/error"
	"github.com/msto63/alarmview/foundation/core/log"
	"github.com/msto63/alarmview/internal/operation"
	"github.com/msto63/alarmview/internal/vehicles"
	"github.com/msto63/alarmview/pkg/command"
)

// ErrNilStore is returned by New without a store
var ErrNilStore = mdwerror.New("viewer: store must not be nil").WithCode(mdwerror.CodePrecondition)

// ViewModel holds the operations shown by the viewer. The list is ordered
// newest first; Next moves to older operations. All methods must be called
// from the UI goroutine.
type ViewModel struct {
	Acknowledge   command.Slot
	Next          command.Slot
	Previous      command.Slot
	ToggleVehicle command.Slot
	Refresh       command.Slot

	store    operation.Store
	vehicles *vehicles.Configuration
	binder   *command.Binder
	logger   *log.Logger
	timeout  time.Duration
	limit    int
	now      func() time.Time

	operations []*operation.Operation
	index      int
	// marked vehicle identifiers of the current operation
	marked map[string]bool
}

// Options configures a ViewModel
type Options struct {
	Store        operation.Store
	Vehicles     *vehicles.Configuration
	Binder       *command.Binder
	Logger       *log.Logger
	StoreTimeout time.Duration
	HistoryLimit int
	// Clock returns the acknowledge time; defaults to time.Now.
	Clock func() time.Time
}

// ResourceView is a requested resource of the current operation
type ResourceView struct {
	Resource operation.Resource
	// Vehicle is the matching own vehicle, nil for other units
	Vehicle *vehicles.Vehicle
	Marked  bool
}

// VehicleView is the state of one configured vehicle
type VehicleView struct {
	Vehicle   *vehicles.Vehicle
	Requested bool
	Marked    bool
}

var descriptor = command.NewDescriptor[*ViewModel]().
	Handle("Acknowledge", func(vm *ViewModel) *command.Slot { return &vm.Acknowledge },
		(*ViewModel).acknowledge, (*ViewModel).canAcknowledge).
	Handle("Next", func(vm *ViewModel) *command.Slot { return &vm.Next },
		(*ViewModel).next, (*ViewModel).canNext).
	Handle("Previous", func(vm *ViewModel) *command.Slot { return &vm.Previous },
		(*ViewModel).previous, (*ViewModel).canPrevious).
	Handle("ToggleVehicle", func(vm *ViewModel) *command.Slot { return &vm.ToggleVehicle },
		(*ViewModel).toggleVehicle, (*ViewModel).canToggleVehicle).
	Handle("Refresh", func(vm *ViewModel) *command.Slot { return &vm.Refresh },
		(*ViewModel).refresh, nil)

// New creates a view-model and binds its commands
func New(opts Options) (*ViewModel, error) {
	if opts.Store == nil {
		return nil, ErrNilStore
	}
	if opts.Vehicles == nil {
		opts.Vehicles = &vehicles.Configuration{}
	}
	if opts.Binder == nil {
		opts.Binder = command.Default()
	}
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 5 * time.Second
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	vm := &ViewModel{
		store:    opts.Store,
		vehicles: opts.Vehicles,
		binder:   opts.Binder,
		logger:   opts.Logger.WithField("component", "viewer"),
		timeout:  opts.StoreTimeout,
		limit:    opts.HistoryLimit,
		now:      opts.Clock,
		marked:   make(map[string]bool),
	}

	report, err := command.BindDescriptor(vm.binder, descriptor, vm)
	if err != nil {
		return nil, err
	}
	vm.logger.Debug("view-model commands bound", log.Fields{"report": report.String()})

	return vm, nil
}

// Close unbinds the commands
func (vm *ViewModel) Close() error {
	return command.UnbindDescriptor(vm.binder, descriptor, vm)
}

// VehicleConfiguration returns the vehicle configuration in use
func (vm *ViewModel) VehicleConfiguration() *vehicles.Configuration {
	return vm.vehicles
}

// Current returns the selected operation or nil
func (vm *ViewModel) Current() *operation.Operation {
	if vm.index < 0 || vm.index >= len(vm.operations) {
		return nil
	}
	return vm.operations[vm.index]
}

func (vm *ViewModel) currentID() string {
	if cur := vm.Current(); cur != nil {
		return cur.ID
	}
	return ""
}

// Position returns the selected index and the number of operations
func (vm *ViewModel) Position() (int, int) {
	return vm.index, len(vm.operations)
}

// Operations returns the loaded operations, newest first
func (vm *ViewModel) Operations() []*operation.Operation {
	return vm.operations
}

// Resources returns the resources of the current operation that pass the
// vehicle pre-filter, each with its matching own vehicle.
func (vm *ViewModel) Resources() []ResourceView {
	cur := vm.Current()
	if cur == nil {
		return nil
	}

	var views []ResourceView
	for _, r := range cur.Resources {
		if !vm.vehicles.Accepts(r.Name) {
			continue
		}
		rv := ResourceView{Resource: r, Vehicle: vm.vehicles.Match(r.Name)}
		if rv.Vehicle != nil {
			rv.Marked = vm.marked[rv.Vehicle.Identifier]
		}
		views = append(views, rv)
	}
	return views
}

// Vehicles returns all configured vehicles with their state for the
// current operation.
func (vm *ViewModel) Vehicles() []VehicleView {
	requested := make(map[string]bool)
	for _, rv := range vm.Resources() {
		if rv.Vehicle != nil {
			requested[rv.Vehicle.Identifier] = true
		}
	}

	views := make([]VehicleView, 0, len(vm.vehicles.Vehicles))
	for i := range vm.vehicles.Vehicles {
		v := &vm.vehicles.Vehicles[i]
		views = append(views, VehicleView{
			Vehicle:   v,
			Requested: requested[v.Identifier],
			Marked:    vm.marked[v.Identifier],
		})
	}
	return views
}

// AddOperation stores op and selects it. An operation with a known ID
// replaces the loaded one and keeps its acknowledgment and vehicle marks.
func (vm *ViewModel) AddOperation(op *operation.Operation) error {
	ctx, cancel := vm.context()
	defer cancel()

	if err := vm.store.Save(ctx, op); err != nil {
		return err
	}

	previousID := vm.currentID()
	for i, existing := range vm.operations {
		if existing.ID == op.ID {
			if op.AcknowledgedAt == nil {
				op.AcknowledgedAt = existing.AcknowledgedAt
			}
			vm.operations = append(vm.operations[:i], vm.operations[i+1:]...)
			break
		}
	}
	vm.operations = append([]*operation.Operation{op}, vm.operations...)
	if len(vm.operations) > vm.limit {
		vm.operations = vm.operations[:vm.limit]
	}

	vm.index = 0
	if op.ID != previousID {
		clear(vm.marked)
	}
	vm.invalidate()
	vm.logger.Info("operation added", log.Fields{"id": op.ID, "number": op.Number, "keyword": op.Keyword})
	return nil
}

func (vm *ViewModel) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), vm.timeout)
}

// choose moves to index i and resets the marks when the operation changes
func (vm *ViewModel) choose(i int) {
	before := vm.currentID()
	vm.index = i
	if vm.currentID() != before {
		clear(vm.marked)
	}
	vm.invalidate()
}

// invalidate tells listeners that enablement may have changed
func (vm *ViewModel) invalidate() {
	for _, s := range []*command.Slot{&vm.Acknowledge, &vm.Next, &vm.Previous, &vm.ToggleVehicle, &vm.Refresh} {
		s.RaiseCanExecuteChanged()
	}
}

func (vm *ViewModel) acknowledge(param any) error {
	cur := vm.Current()
	if cur == nil {
		return nil
	}

	ctx, cancel := vm.context()
	defer cancel()

	at := vm.now()
	if err := vm.store.Acknowledge(ctx, cur.ID, at); err != nil {
		vm.logger.ErrorWithErr("acknowledge failed", err, log.Fields{"id": cur.ID})
		return err
	}
	cur.AcknowledgedAt = &at
	vm.invalidate()
	return nil
}

func (vm *ViewModel) canAcknowledge(param any) bool {
	cur := vm.Current()
	return cur != nil && !cur.IsAcknowledged()
}

func (vm *ViewModel) next(param any) error {
	if vm.canNext(param) {
		vm.choose(vm.index + 1)
	}
	return nil
}

func (vm *ViewModel) canNext(param any) bool {
	return vm.index < len(vm.operations)-1
}

func (vm *ViewModel) previous(param any) error {
	if vm.canPrevious(param) {
		vm.choose(vm.index - 1)
	}
	return nil
}

func (vm *ViewModel) canPrevious(param any) bool {
	return vm.index > 0
}

func (vm *ViewModel) toggleVehicle(param any) error {
	v := vm.lookup(param)
	if v == nil {
		return mdwerror.Newf("unknown vehicle %v", param).WithCode(mdwerror.CodeInvalidInput)
	}
	vm.marked[v.Identifier] = !vm.marked[v.Identifier]
	vm.logger.Debug("vehicle toggled", log.Fields{"vehicle": v.Identifier, "marked": vm.marked[v.Identifier]})
	return nil
}

func (vm *ViewModel) canToggleVehicle(param any) bool {
	return vm.lookup(param) != nil
}

func (vm *ViewModel) lookup(param any) *vehicles.Vehicle {
	id, ok := param.(string)
	if !ok {
		return nil
	}
	return vm.vehicles.Lookup(id)
}

func (vm *ViewModel) refresh(param any) error {
	ctx, cancel := vm.context()
	defer cancel()

	ops, err := vm.store.ListRecent(ctx, vm.limit)
	if err != nil {
		vm.logger.ErrorWithErr("refresh failed", err)
		return err
	}

	currentID := vm.currentID()

	index, kept := 0, false
	for i, op := range ops {
		if currentID != "" && op.ID == currentID {
			index, kept = i, true
			break
		}
	}

	vm.operations = ops
	vm.index = index
	if !kept {
		clear(vm.marked)
	}
	vm.invalidate()
	return nil
}
