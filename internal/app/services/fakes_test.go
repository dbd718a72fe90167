package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
)

// memStore is an in-memory implementation of every store interface in this
// package. Tests share one instance across the stores a service needs, so
// cross-store semantics (mapping entries referencing outcomes) stay
// consistent.
type memStore struct {
	users    map[int64]*models.User
	programs map[int64]*models.Program
	terms    []*models.Term
	plos     map[int64]*models.ProgramOutcome
	clos     map[int64]*models.CourseOutcome
	mappings map[uuid.UUID]*models.OutcomeMapping
	entries  map[uuid.UUID][]*models.MappingEntry
	sections map[int64][]*models.SectionAssessment
	prefs    map[string]string
	events   []*models.AuditEvent
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]*models.User{},
		programs: map[int64]*models.Program{},
		plos:     map[int64]*models.ProgramOutcome{},
		clos:     map[int64]*models.CourseOutcome{},
		mappings: map[uuid.UUID]*models.OutcomeMapping{},
		entries:  map[uuid.UUID][]*models.MappingEntry{},
		sections: map[int64][]*models.SectionAssessment{},
		prefs:    map[string]string{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// --- seeding helpers ---

func (m *memStore) addUser(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = m.id()
	}
	m.users[user.ID] = user
	return user
}

func (m *memStore) addProgram(code, name string) *models.Program {
	p := &models.Program{ID: m.id(), Code: code, Name: name}
	m.programs[p.ID] = p
	return p
}

func (m *memStore) addPLO(programID int64, number int, description string) *models.ProgramOutcome {
	plo := &models.ProgramOutcome{ID: m.id(), ProgramID: programID, Number: number, Description: description}
	m.plos[plo.ID] = plo
	return plo
}

func (m *memStore) addCLO(programID, courseID int64, number int, description string) *models.CourseOutcome {
	clo := &models.CourseOutcome{ID: m.id(), CourseID: courseID, Number: number, Description: description, ProgramID: programID}
	m.clos[clo.ID] = clo
	return clo
}

func (m *memStore) addSection(cloID, termID int64, label string, assessed, passed int) {
	m.sections[cloID] = append(m.sections[cloID], &models.SectionAssessment{
		ID:               m.id(),
		CourseOutcomeID:  cloID,
		TermID:           termID,
		SectionLabel:     label,
		StudentsAssessed: assessed,
		StudentsPassed:   passed,
	})
}

// --- UserStore ---

func (m *memStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memStore) TouchLastLogin(_ context.Context, id int64) error {
	if u, ok := m.users[id]; ok {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

// --- ProgramStore ---

func (m *memStore) Create(_ context.Context, program *models.Program) error {
	program.ID = m.id()
	m.programs[program.ID] = program
	return nil
}

func (m *memStore) GetProgram(_ context.Context, id int64) (*models.Program, error) {
	if p, ok := m.programs[id]; ok {
		return p, nil
	}
	return nil, apperrors.ErrProgramNotFound
}

func (m *memStore) GetAll(_ context.Context, offset uint64, limit int) ([]*models.Program, int64, error) {
	ids := make([]int64, 0, len(m.programs))
	for id := range m.programs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	programs := make([]*models.Program, 0, len(ids))
	for _, id := range ids {
		programs = append(programs, m.programs[id])
	}
	return programs, int64(len(programs)), nil
}

func (m *memStore) Update(_ context.Context, program *models.Program) error {
	if _, ok := m.programs[program.ID]; !ok {
		return apperrors.ErrProgramNotFound
	}
	m.programs[program.ID] = program
	return nil
}

// --- TermStore ---

func (m *memStore) Upsert(_ context.Context, term *models.Term) error {
	for i, existing := range m.terms {
		if existing.SISTermID == term.SISTermID {
			term.ID = existing.ID
			m.terms[i] = term
			return nil
		}
	}
	term.ID = m.id()
	m.terms = append(m.terms, term)
	return nil
}

func (m *memStore) GetTermByID(_ context.Context, id int64) (*models.Term, error) {
	for _, t := range m.terms {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, apperrors.ErrTermNotFound
}

func (m *memStore) GetAllTerms(_ context.Context) ([]*models.Term, error) {
	return append([]*models.Term(nil), m.terms...), nil
}

// --- OutcomeStore ---

func (m *memStore) CreateProgramOutcome(_ context.Context, outcome *models.ProgramOutcome) error {
	outcome.ID = m.id()
	m.plos[outcome.ID] = outcome
	return nil
}

func (m *memStore) GetProgramOutcomeByID(_ context.Context, id int64) (*models.ProgramOutcome, error) {
	if plo, ok := m.plos[id]; ok {
		return plo, nil
	}
	return nil, apperrors.ErrOutcomeNotFound
}

func (m *memStore) ListProgramOutcomes(_ context.Context, programID int64) ([]*models.ProgramOutcome, error) {
	var plos []*models.ProgramOutcome
	for _, plo := range m.plos {
		if plo.ProgramID == programID {
			plos = append(plos, plo)
		}
	}
	sort.Slice(plos, func(i, j int) bool { return plos[i].Number < plos[j].Number })
	return plos, nil
}

func (m *memStore) UpdateProgramOutcome(_ context.Context, outcome *models.ProgramOutcome) error {
	if _, ok := m.plos[outcome.ID]; !ok {
		return apperrors.ErrOutcomeNotFound
	}
	m.plos[outcome.ID] = outcome
	return nil
}

func (m *memStore) DeleteProgramOutcome(_ context.Context, id int64) error {
	if _, ok := m.plos[id]; !ok {
		return apperrors.ErrOutcomeNotFound
	}
	for _, entries := range m.entries {
		for _, e := range entries {
			if e.ProgramOutcomeID == id {
				return apperrors.ErrOutcomeInUse
			}
		}
	}
	delete(m.plos, id)
	return nil
}

func (m *memStore) GetCourseOutcomeByID(_ context.Context, id int64) (*models.CourseOutcome, error) {
	if clo, ok := m.clos[id]; ok {
		return clo, nil
	}
	return nil, apperrors.ErrCourseOutcomeNotFound
}

func (m *memStore) ListCourseOutcomesByIDs(_ context.Context, ids []int64) (map[int64]*models.CourseOutcome, error) {
	result := make(map[int64]*models.CourseOutcome, len(ids))
	for _, id := range ids {
		if clo, ok := m.clos[id]; ok {
			result[id] = clo
		}
	}
	return result, nil
}

func (m *memStore) ListUnmappedCourseOutcomes(_ context.Context, programID int64, mappingID *uuid.UUID) ([]*models.CourseOutcome, error) {
	mapped := map[int64]bool{}
	if mappingID != nil {
		for _, e := range m.entries[*mappingID] {
			mapped[e.CourseOutcomeID] = true
		}
	}

	var unmapped []*models.CourseOutcome
	for _, clo := range m.clos {
		if clo.ProgramID == programID && !mapped[clo.ID] {
			unmapped = append(unmapped, clo)
		}
	}
	sort.Slice(unmapped, func(i, j int) bool { return unmapped[i].ID < unmapped[j].ID })
	return unmapped, nil
}

// --- MappingStore ---

func (m *memStore) GetMapping(_ context.Context, id uuid.UUID) (*models.OutcomeMapping, error) {
	if mapping, ok := m.mappings[id]; ok {
		return mapping, nil
	}
	return nil, apperrors.ErrMappingNotFound
}

func (m *memStore) GetDraft(_ context.Context, programID int64) (*models.OutcomeMapping, error) {
	for _, mapping := range m.mappings {
		if mapping.ProgramID == programID && mapping.Status == models.MappingDraft {
			return mapping, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetLatestPublished(_ context.Context, programID int64) (*models.OutcomeMapping, error) {
	var latest *models.OutcomeMapping
	for _, mapping := range m.mappings {
		if mapping.ProgramID != programID || mapping.Status != models.MappingPublished {
			continue
		}
		if latest == nil || *mapping.Version > *latest.Version {
			latest = mapping
		}
	}
	return latest, nil
}

func (m *memStore) EnsureDraft(ctx context.Context, programID int64) (*models.OutcomeMapping, error) {
	if _, ok := m.programs[programID]; !ok {
		return nil, apperrors.ErrProgramNotFound
	}
	if draft, _ := m.GetDraft(ctx, programID); draft != nil {
		return draft, nil
	}
	draft := &models.OutcomeMapping{
		ID:        uuid.New(),
		ProgramID: programID,
		Status:    models.MappingDraft,
		CreatedAt: time.Now(),
	}
	m.mappings[draft.ID] = draft
	return draft, nil
}

func (m *memStore) ListEntries(_ context.Context, mappingID uuid.UUID) ([]*models.MappingEntry, error) {
	return append([]*models.MappingEntry(nil), m.entries[mappingID]...), nil
}

func (m *memStore) AddEntry(_ context.Context, entry *models.MappingEntry) error {
	for _, e := range m.entries[entry.MappingID] {
		if e.ProgramOutcomeID == entry.ProgramOutcomeID && e.CourseOutcomeID == entry.CourseOutcomeID {
			return apperrors.ErrEntryAlreadyMapped
		}
	}
	m.entries[entry.MappingID] = append(m.entries[entry.MappingID], entry)
	return nil
}

func (m *memStore) RemoveEntry(_ context.Context, entry *models.MappingEntry) error {
	entries := m.entries[entry.MappingID]
	for i, e := range entries {
		if e.ProgramOutcomeID == entry.ProgramOutcomeID && e.CourseOutcomeID == entry.CourseOutcomeID {
			m.entries[entry.MappingID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrEntryNotFound
}

func (m *memStore) Publish(_ context.Context, draftID uuid.UUID, baseVersion *int) (*models.OutcomeMapping, error) {
	draft, ok := m.mappings[draftID]
	if !ok {
		return nil, apperrors.ErrMappingNotFound
	}
	if draft.Status != models.MappingDraft {
		return nil, apperrors.ErrMappingNotDraft
	}
	if len(m.entries[draftID]) == 0 {
		return nil, apperrors.ErrNothingToPublish
	}

	maxVersion := 0
	for _, mapping := range m.mappings {
		if mapping.ProgramID == draft.ProgramID && mapping.Version != nil && *mapping.Version > maxVersion {
			maxVersion = *mapping.Version
		}
	}
	if baseVersion != nil && *baseVersion != maxVersion {
		return nil, apperrors.ErrMappingConflict
	}

	version := maxVersion + 1
	now := time.Now()
	draft.Status = models.MappingPublished
	draft.Version = &version
	draft.PublishedAt = &now
	return draft, nil
}

func (m *memStore) DeleteDraft(_ context.Context, draftID uuid.UUID) error {
	draft, ok := m.mappings[draftID]
	if !ok {
		return apperrors.ErrMappingNotFound
	}
	if draft.Status != models.MappingDraft {
		return apperrors.ErrMappingNotDraft
	}
	delete(m.mappings, draftID)
	delete(m.entries, draftID)
	return nil
}

// --- AssessmentStore ---

func (m *memStore) ListByCourseOutcomes(_ context.Context, courseOutcomeIDs []int64, termID int64) (map[int64][]*models.SectionAssessment, error) {
	result := map[int64][]*models.SectionAssessment{}
	for _, id := range courseOutcomeIDs {
		for _, sa := range m.sections[id] {
			if termID == 0 || sa.TermID == termID {
				result[id] = append(result[id], sa)
			}
		}
	}
	return result, nil
}

// --- PreferenceStore ---

func (m *memStore) Get(_ context.Context, userID int64, key string) (string, error) {
	return m.prefs[prefKey(userID, key)], nil
}

func (m *memStore) Set(_ context.Context, userID int64, key, value string) error {
	m.prefs[prefKey(userID, key)] = value
	return nil
}

func prefKey(userID int64, key string) string {
	return fmt.Sprintf("%d/%s", userID, key)
}

// --- AuditStore ---

func (m *memStore) Record(_ context.Context, event *models.AuditEvent) error {
	event.ID = m.id()
	m.events = append(m.events, event)
	return nil
}

func (m *memStore) ListRecent(_ context.Context, entity string, limit int) ([]*models.AuditEvent, error) {
	var events []*models.AuditEvent
	for i := len(m.events) - 1; i >= 0 && len(events) < limit; i-- {
		if entity == "" || m.events[i].Entity == entity {
			events = append(events, m.events[i])
		}
	}
	return events, nil
}

// Interface adapters: the real repositories split by entity, the fake holds
// everything, so the method sets collide on names. Narrow views fix that.

type programStoreView struct{ *memStore }

func (v programStoreView) GetByID(ctx context.Context, id int64) (*models.Program, error) {
	return v.GetProgram(ctx, id)
}

type termStoreView struct{ *memStore }

func (v termStoreView) GetByID(ctx context.Context, id int64) (*models.Term, error) {
	return v.GetTermByID(ctx, id)
}

func (v termStoreView) GetAll(ctx context.Context) ([]*models.Term, error) {
	return v.GetAllTerms(ctx)
}

type mappingStoreView struct{ *memStore }

func (v mappingStoreView) GetByID(ctx context.Context, id uuid.UUID) (*models.OutcomeMapping, error) {
	return v.GetMapping(ctx, id)
}
