package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"surat-portal/internal/model"
	"surat-portal/internal/repository"
)

// errInvalidUUID is what PostgreSQL raises (22P02) when a non-UUID string is
// compared against a uuid column.
var errInvalidUUID = errors.New(`ERROR: invalid input syntax for type uuid (SQLSTATE 22P02)`)

// mockClock hands out strictly increasing timestamps so ordering by
// creation time is deterministic.
type mockClock struct {
	t time.Time
}

func (c *mockClock) next() time.Time {
	if c.t.IsZero() {
		c.t = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	c.t = c.t.Add(time.Second)
	return c.t
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	clock *mockClock
	users map[string]*model.User
}

func newMockUserRepo(clock *mockClock) *mockUserRepo {
	return &mockUserRepo{clock: clock, users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := m.clock.next()
	user.CreatedAt, user.UpdatedAt = now, now
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FirstAdmin(_ context.Context) (*model.User, error) {
	var first *model.User
	for _, u := range m.users {
		if u.Role != model.RoleAdmin {
			continue
		}
		if first == nil || u.CreatedAt.Before(first.CreatedAt) {
			first = u
		}
	}
	if first == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return first, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

// ── Mock TemplateRepository ──

type mockTemplateRepo struct {
	clock     *mockClock
	templates map[string]*model.FormTemplate
	err       error // returned by every read when set
}

func newMockTemplateRepo(clock *mockClock) *mockTemplateRepo {
	return &mockTemplateRepo{clock: clock, templates: make(map[string]*model.FormTemplate)}
}

func (m *mockTemplateRepo) Create(_ context.Context, tpl *model.FormTemplate) error {
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	now := m.clock.next()
	tpl.CreatedAt, tpl.UpdatedAt = now, now
	m.templates[tpl.ID] = tpl
	return nil
}

func (m *mockTemplateRepo) GetByID(_ context.Context, id string) (*model.FormTemplate, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, errInvalidUUID
	}
	if t, ok := m.templates[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTemplateRepo) GetBySlug(_ context.Context, slug string) (*model.FormTemplate, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, t := range m.sorted() {
		if strings.EqualFold(t.Slug, slug) {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTemplateRepo) GetByTitle(_ context.Context, title string) (*model.FormTemplate, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, t := range m.sorted() {
		if strings.EqualFold(t.Title, title) {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTemplateRepo) List(_ context.Context, includeInactive bool) ([]model.FormTemplate, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.FormTemplate
	sorted := m.sorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		if !includeInactive && !sorted[i].IsActive {
			continue
		}
		result = append(result, *sorted[i])
	}
	return result, nil
}

func (m *mockTemplateRepo) ExistingSlugs(_ context.Context, slugs []string) ([]string, error) {
	var found []string
	for _, s := range slugs {
		for _, t := range m.templates {
			if t.Slug == s {
				found = append(found, s)
				break
			}
		}
	}
	return found, nil
}

func (m *mockTemplateRepo) CreateMany(ctx context.Context, tpls []model.FormTemplate) error {
	for i := range tpls {
		existing, _ := m.ExistingSlugs(ctx, []string{tpls[i].Slug})
		if len(existing) > 0 {
			continue
		}
		tpl := tpls[i]
		if err := m.Create(ctx, &tpl); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockTemplateRepo) Update(_ context.Context, tpl *model.FormTemplate) error {
	tpl.UpdatedAt = m.clock.next()
	m.templates[tpl.ID] = tpl
	return nil
}

func (m *mockTemplateRepo) Delete(_ context.Context, id string) error {
	delete(m.templates, id)
	return nil
}

// sorted returns templates oldest first.
func (m *mockTemplateRepo) sorted() []*model.FormTemplate {
	out := make([]*model.FormTemplate, 0, len(m.templates))
	for _, t := range m.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct {
	clock       *mockClock
	templates   *mockTemplateRepo
	users       *mockUserRepo
	submissions map[string]*model.LetterSubmission
	updates     int
}

func newMockSubmissionRepo(clock *mockClock, templates *mockTemplateRepo, users *mockUserRepo) *mockSubmissionRepo {
	return &mockSubmissionRepo{
		clock:       clock,
		templates:   templates,
		users:       users,
		submissions: make(map[string]*model.LetterSubmission),
	}
}

func (m *mockSubmissionRepo) Create(_ context.Context, sub *model.LetterSubmission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := m.clock.next()
	sub.CreatedAt, sub.UpdatedAt = now, now
	for i := range sub.Attachments {
		sub.Attachments[i].ID = uuid.NewString()
		sub.Attachments[i].SubmissionID = sub.ID
		sub.Attachments[i].CreatedAt = now
	}
	stored := *sub
	stored.Template = nil
	m.submissions[sub.ID] = &stored
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.LetterSubmission, error) {
	s, ok := m.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.hydrate(s), nil
}

func (m *mockSubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter) ([]model.LetterSubmission, error) {
	var result []model.LetterSubmission
	for _, s := range m.submissions {
		if filter.CreatedByID != "" && s.CreatedByID != filter.CreatedByID {
			continue
		}
		if filter.TemplateID != "" && s.TemplateID != filter.TemplateID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		result = append(result, *m.hydrate(s))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockSubmissionRepo) UpdateStatus(_ context.Context, sub *model.LetterSubmission, log *model.SubmissionStatusLog) error {
	s, ok := m.submissions[sub.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.updates++
	now := m.clock.next()
	s.Status = sub.Status
	s.Notes = sub.Notes
	s.UpdatedAt = now
	if log != nil {
		entry := *log
		entry.ID = uuid.NewString()
		entry.CreatedAt = now
		s.StatusLogs = append(s.StatusLogs, entry)
	}
	return nil
}

func (m *mockSubmissionRepo) CountByTemplate(_ context.Context, templateID string) (int64, error) {
	var n int64
	for _, s := range m.submissions {
		if s.TemplateID == templateID {
			n++
		}
	}
	return n, nil
}

// hydrate returns a copy with the associations a real preload would fill.
func (m *mockSubmissionRepo) hydrate(s *model.LetterSubmission) *model.LetterSubmission {
	out := *s
	out.Template = m.templates.templates[s.TemplateID]
	out.CreatedBy = m.users.users[s.CreatedByID]
	out.Attachments = append([]model.SubmissionAttachment(nil), s.Attachments...)
	out.StatusLogs = append([]model.SubmissionStatusLog(nil), s.StatusLogs...)
	return &out
}

// ── fixture ──

type testRepos struct {
	repo        *repository.Repository
	users       *mockUserRepo
	templates   *mockTemplateRepo
	submissions *mockSubmissionRepo
}

func newTestRepos() *testRepos {
	clock := &mockClock{}
	users := newMockUserRepo(clock)
	templates := newMockTemplateRepo(clock)
	submissions := newMockSubmissionRepo(clock, templates, users)
	return &testRepos{
		repo: &repository.Repository{
			User:       users,
			Template:   templates,
			Submission: submissions,
		},
		users:       users,
		templates:   templates,
		submissions: submissions,
	}
}

func (r *testRepos) addUser(name string, role model.Role) *Actor {
	u := &model.User{
		Name:     name,
		Email:    strings.ToLower(name) + "@kampus.ac.id",
		Role:     role,
		IsActive: true,
	}
	_ = r.users.Create(context.Background(), u)
	return &Actor{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
