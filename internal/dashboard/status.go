package dashboard

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jefrnc/optionsdash/internal/models"
)

// StatusSource supplies the current strategy status. It is passed to the
// view-model explicitly so tests can use a fixed value.
type StatusSource interface {
	StrategyStatus() *models.StrategyStatus
}

// StaticStatus is a StatusSource with a fixed value; the zero value has no status.
type StaticStatus struct {
	Status *models.StrategyStatus
}

func (s StaticStatus) StrategyStatus() *models.StrategyStatus { return s.Status }

// LoadStatusFile reads a strategy status JSON document. An empty path
// yields an empty source.
func LoadStatusFile(path string) (StaticStatus, error) {
	if path == "" {
		return StaticStatus{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return StaticStatus{}, fmt.Errorf("reading status file: %w", err)
	}

	var st models.StrategyStatus
	if err := json.Unmarshal(data, &st); err != nil {
		return StaticStatus{}, fmt.Errorf("parsing status file %s: %w", path, err)
	}
	return StaticStatus{Status: &st}, nil
}
