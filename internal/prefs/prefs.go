// Package prefs persists operator preferences next to the slot and
// booking collections: which display sections and slot cards are
// collapsed, the confirmation message template and the day of the last
// backup.
package prefs

import (
	"context"
	"slices"
	"time"

	"github.com/NextStepSol/workshop-app/internal/model"
	"github.com/NextStepSol/workshop-app/internal/repository"
)

// DefaultTemplate is the confirmation message used until the operator
// saves their own.  See message.Render for the placeholder tokens.
const DefaultTemplate = `[Anrede] [Name],

hiermit bestätige ich [Du_Dat] die Teilnahme am [Datum]
für [Anzahl] Person(en).

Ich freue mich auf [Du_Akk] und wünsche [Du_Dat] bis dahin alles Gute.

Ganz liebe Grüße
Stefanie`

const dayLayout = "2006-01-02"

// State is the full set of collapse flags.
type State struct {
	ActiveCollapsed  bool                `json:"active_collapsed"`
	ArchiveCollapsed bool                `json:"archive_collapsed"`
	CollapsedSlots   map[string]struct{} `json:"-"`
}

// SectionCollapsed returns the flag for sec.
func (s State) SectionCollapsed(sec model.Section) bool {
	if sec == model.SectionArchived {
		return s.ArchiveCollapsed
	}
	return s.ActiveCollapsed
}

// SlotCollapsed reports whether the card of slot id is collapsed.
func (s State) SlotCollapsed(id string) bool {
	_, ok := s.CollapsedSlots[id]
	return ok
}

// Prefs reads and writes preferences through a repository.
type Prefs struct {
	repo *repository.Repo
}

// New returns Prefs backed by repo.
func New(repo *repository.Repo) *Prefs {
	return &Prefs{repo: repo}
}

// State loads all collapse flags.  The archive section starts collapsed,
// the active one expanded.
func (p *Prefs) State(ctx context.Context) (State, error) {
	st := State{ArchiveCollapsed: true}
	if err := p.repo.GetJSON(ctx, repository.KeyActiveCollapsed, &st.ActiveCollapsed); err != nil {
		return State{}, err
	}
	if err := p.repo.GetJSON(ctx, repository.KeyArchCollapsed, &st.ArchiveCollapsed); err != nil {
		return State{}, err
	}
	ids, err := p.collapsedIDs(ctx)
	if err != nil {
		return State{}, err
	}
	st.CollapsedSlots = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		st.CollapsedSlots[id] = struct{}{}
	}
	return st, nil
}

// SetSectionCollapsed stores the collapse flag of one section.
func (p *Prefs) SetSectionCollapsed(ctx context.Context, sec model.Section, collapsed bool) error {
	key := repository.KeyActiveCollapsed
	if sec == model.SectionArchived {
		key = repository.KeyArchCollapsed
	}
	return p.repo.SetJSON(ctx, key, collapsed)
}

// SetSlotCollapsed adds or removes id from the collapsed set without
// touching any other id.  The read and the write are separate store
// calls, so concurrent callers must serialize; service.Manager does.
func (p *Prefs) SetSlotCollapsed(ctx context.Context, id string, collapsed bool) error {
	ids, err := p.collapsedIDs(ctx)
	if err != nil {
		return err
	}
	has := slices.Contains(ids, id)
	switch {
	case collapsed && !has:
		ids = append(ids, id)
	case !collapsed && has:
		ids = slices.DeleteFunc(ids, func(v string) bool { return v == id })
	default:
		return nil
	}
	return p.repo.SetJSON(ctx, repository.KeyCollapsedSlots, ids)
}

// PruneInto stages a collapsed set without the ids for which keep returns
// false.  Nothing is staged when no id is dropped.
func (p *Prefs) PruneInto(ctx context.Context, b *repository.Batch, keep func(id string) bool) error {
	ids, err := p.collapsedIDs(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return !keep(v) })
	if len(kept) != len(ids) {
		b.PutJSON(repository.KeyCollapsedSlots, kept)
	}
	return nil
}

func (p *Prefs) collapsedIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	if err := p.repo.GetJSON(ctx, repository.KeyCollapsedSlots, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Template returns the stored message template or DefaultTemplate.
func (p *Prefs) Template(ctx context.Context) (string, error) {
	tpl := DefaultTemplate
	if err := p.repo.GetJSON(ctx, repository.KeyMessageTemplate, &tpl); err != nil {
		return "", err
	}
	return tpl, nil
}

// SetTemplate stores the message template.  An empty template restores
// the default.
func (p *Prefs) SetTemplate(ctx context.Context, tpl string) error {
	if tpl == "" {
		tpl = DefaultTemplate
	}
	return p.repo.SetJSON(ctx, repository.KeyMessageTemplate, tpl)
}

// MarkBackup records that a backup was taken on now's calendar day.
func (p *Prefs) MarkBackup(ctx context.Context, now time.Time) error {
	return p.repo.SetJSON(ctx, repository.KeyLastBackup, now.Format(dayLayout))
}

// LastBackup returns the recorded backup day ("" if none).
func (p *Prefs) LastBackup(ctx context.Context) (string, error) {
	var day string
	if err := p.repo.GetJSON(ctx, repository.KeyLastBackup, &day); err != nil {
		return "", err
	}
	return day, nil
}

// BackupDue reports whether no backup was recorded on now's calendar day.
func (p *Prefs) BackupDue(ctx context.Context, now time.Time) (bool, error) {
	day, err := p.LastBackup(ctx)
	if err != nil {
		return false, err
	}
	return day != now.Format(dayLayout), nil
}
