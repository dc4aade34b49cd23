package service

import (
	"context"

	"github.com/NextStepSol/workshop-app/internal/model"
)

// SetSlotCollapsed stores the collapse flag of slot id.  The slot must
// exist.  It runs under the same lock as DeleteSlot and ReplaceAll, which
// rewrite the collapsed set too.
func (m *Manager) SetSlotCollapsed(ctx context.Context, id string, collapsed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, err := m.repo.Slots(ctx)
	if err != nil {
		return err
	}
	if indexSlot(slots, id) < 0 {
		return &model.NotFoundError{Kind: "slot", ID: id}
	}
	if err := m.prefs.SetSlotCollapsed(ctx, id, collapsed); err != nil {
		return err
	}
	m.stats.op("collapse_slot")
	return nil
}

// SetSectionCollapsed stores the collapse flag of one display section.
func (m *Manager) SetSectionCollapsed(ctx context.Context, sec model.Section, collapsed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.prefs.SetSectionCollapsed(ctx, sec, collapsed); err != nil {
		return err
	}
	m.stats.op("collapse_section")
	return nil
}

// SetTemplate stores the confirmation template ("" restores the default).
func (m *Manager) SetTemplate(ctx context.Context, tpl string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs.SetTemplate(ctx, tpl)
}
