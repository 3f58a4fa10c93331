package dashboard

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jefrnc/optionsdash/internal/filter"
	"github.com/jefrnc/optionsdash/internal/lifecycle"
	"github.com/jefrnc/optionsdash/internal/models"
)

// ViewModel owns the fetched trades and the user's filters and keeps the
// derived trade table in step with both. All methods are safe to call from
// several goroutines; each call is applied in turn.
type ViewModel struct {
	log    *zap.Logger
	status StatusSource

	mu         sync.Mutex
	lc         *lifecycle.Lifecycle
	predicates filter.Predicates
	view       View
}

// New attaches a view-model to a lifecycle. The lifecycle may still be
// loading; the table is refreshed when it settles.
func New(lc *lifecycle.Lifecycle, status StatusSource, log *zap.Logger) *ViewModel {
	if log == nil {
		log = zap.NewNop()
	}
	if status == nil {
		status = StaticStatus{}
	}
	vm := &ViewModel{
		log:        log,
		status:     status,
		predicates: filter.Defaults(),
	}
	vm.attach(lc)
	return vm
}

// Replace swaps in a new lifecycle, closing the one it replaces. Filters
// are kept. Concurrent calls each close exactly the lifecycle they displaced.
func (vm *ViewModel) Replace(lc *lifecycle.Lifecycle) {
	vm.watch(lc)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	old := vm.lc
	vm.lc = lc
	vm.recomputeLocked()
	if old != nil && old != lc {
		old.Close()
	}
}

func (vm *ViewModel) attach(lc *lifecycle.Lifecycle) {
	vm.watch(lc)

	vm.mu.Lock()
	vm.lc = lc
	vm.recomputeLocked()
	vm.mu.Unlock()
}

// watch registers the settle callback before lc becomes current, so a
// fetch settling in between is still picked up.
func (vm *ViewModel) watch(lc *lifecycle.Lifecycle) {
	lc.OnSettled(func(s lifecycle.State) {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		if vm.lc != lc {
			return
		}
		vm.recomputeLocked()
		vm.log.Debug("trade view refreshed", zap.Stringer("state", s), zap.Int("shown", vm.view.Shown))
	})
}

func (vm *ViewModel) recomputeLocked() {
	vm.view = Derive(vm.lc.Trades(), vm.predicates)
}

// Lifecycle returns the lifecycle currently feeding the view.
func (vm *ViewModel) Lifecycle() *lifecycle.Lifecycle {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.lc
}

// State reports the lifecycle phase and failure message.
func (vm *ViewModel) State() (lifecycle.State, string) {
	lc := vm.Lifecycle()
	return lc.State(), lc.Message()
}

// SetFilter updates one filter field by name and re-derives the table.
func (vm *ViewModel) SetFilter(field, value string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	p, ok := vm.predicates.Set(field, value)
	if !ok {
		return fmt.Errorf("unknown filter field %q", field)
	}
	vm.predicates = p
	vm.recomputeLocked()
	return nil
}

// SetPredicates replaces all filters at once.
func (vm *ViewModel) SetPredicates(p filter.Predicates) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.predicates = p
	vm.recomputeLocked()
}

// ResetFilters restores every filter to inactive.
func (vm *ViewModel) ResetFilters() {
	vm.SetPredicates(filter.Defaults())
}

// Predicates returns the current filters.
func (vm *ViewModel) Predicates() filter.Predicates {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.predicates
}

// View returns the trade table for the current filters.
func (vm *ViewModel) View() View {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.view
}

// Filtered returns the trades passing the current filters.
func (vm *ViewModel) Filtered() []models.TradeRecord {
	return vm.View().Trades
}

// Preview derives a table for p without changing the stored filters.
func (vm *ViewModel) Preview(p filter.Predicates) View {
	return Derive(vm.Lifecycle().Trades(), p)
}

// Snapshot returns the loaded snapshot or lifecycle.ErrNotReady.
func (vm *ViewModel) Snapshot() (*models.AnalyticsSnapshot, error) {
	return vm.Lifecycle().Snapshot()
}

// Overview formats the headline cards once the snapshot is loaded.
func (vm *ViewModel) Overview() (Overview, error) {
	s, err := vm.Snapshot()
	if err != nil {
		return Overview{}, err
	}
	return BuildOverview(s), nil
}

// Metrics formats the compact metrics panel once the snapshot is loaded.
func (vm *ViewModel) Metrics() ([]Card, error) {
	s, err := vm.Snapshot()
	if err != nil {
		return nil, err
	}
	return BuildMetrics(s), nil
}

// Strategy formats the strategy status. It does not depend on the fetch.
func (vm *ViewModel) Strategy() StrategyPanel {
	return BuildStrategyPanel(vm.status.StrategyStatus())
}
