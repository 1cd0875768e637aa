package dashboard

import (
	"fmt"

	"github.com/Veraticus/ecgdash/internal/common"
	"github.com/Veraticus/ecgdash/internal/model"
)

// Messages shown when an action's data dependency is missing.
const (
	msgSignalRequired = "Please generate ECG data first"
	errSignalRequired = "ECG data required"
)

// checkDependencies rejects kind if the data it needs does not exist yet.
// Callers hold c.mu.
func (c *Core) checkDependencies(kind model.OperationKind) error {
	if kind == model.ComputeRisk && c.store.Bundle() == nil {
		return common.NewUserError(msgSignalRequired,
			fmt.Errorf("%w: %s", common.ErrPrecondition, errSignalRequired))
	}
	return nil
}

// RequestComputeRisk scores the active channel of the current signal bundle.
// Without a bundle it fails immediately with ErrPrecondition, contacts nobody
// and leaves every operation state as it was.
func (c *Core) RequestComputeRisk() (*Call, error) {
	return c.Dispatch(model.ComputeRisk)
}

// CanComputeRisk reports whether a signal bundle exists to score.
func (c *Core) CanComputeRisk() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Bundle() != nil
}
