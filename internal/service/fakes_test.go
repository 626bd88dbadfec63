package service

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"research-link-be/internal/dto"
	"research-link-be/internal/entity"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/internal/repository/contract"
	"research-link-be/internal/repository/specification"
	"research-link-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// fakeStore is the shared in-memory backing for all fake repositories in
// this package. Specifications are interpreted by type-switching on their
// concrete structs, so no database is involved.
type fakeStore struct {
	users             []*entity.User
	colleges          []*entity.College
	studentProfiles   []*entity.StudentProfile
	professorProfiles []*entity.ProfessorProfile
	skills            []entity.Skill
	plans             []*entity.Plan
	subscriptions     []*entity.Subscription
	projects          []*entity.Project
	applications      []*entity.Application
	emailTokens       []*entity.EmailVerificationToken
	resetTokens       []*entity.PasswordResetToken
	refreshTokens     []*entity.UserRefreshToken
}

type fakeFactory struct {
	store *fakeStore
}

func newFakeFactory(store *fakeStore) unitofwork.RepositoryFactory {
	return &fakeFactory{store: store}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

type fakeUnitOfWork struct {
	store *fakeStore
	inTx  bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.inTx = true
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	u.inTx = false
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.inTx = false
	return nil
}

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUnitOfWork) CollegeRepository() contract.CollegeRepository {
	return &fakeCollegeRepo{store: u.store}
}

func (u *fakeUnitOfWork) ProfileRepository() contract.ProfileRepository {
	return &fakeProfileRepo{store: u.store}
}

func (u *fakeUnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return &fakeSubscriptionRepo{store: u.store}
}

func (u *fakeUnitOfWork) ProjectRepository() contract.ProjectRepository {
	return &fakeProjectRepo{store: u.store}
}

func (u *fakeUnitOfWork) ApplicationRepository() contract.ApplicationRepository {
	return &fakeApplicationRepo{store: u.store}
}

// querySpecs splits ordering and limiting from the filtering predicates.
type querySpecs struct {
	orderField string
	orderDesc  bool
	limit      int
	filters    []specification.Specification
}

func splitSpecs(specs []specification.Specification) querySpecs {
	q := querySpecs{limit: -1}
	for _, s := range specs {
		switch v := s.(type) {
		case specification.OrderBy:
			q.orderField = v.Field
			q.orderDesc = v.Desc
		case specification.Limit:
			q.limit = v.N
		default:
			q.filters = append(q.filters, s)
		}
	}
	return q
}

// Users

type fakeUserRepo struct {
	store *fakeStore
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			if u.Id != v.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != v.Email {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.users = append(r.store.users, user)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	for i, u := range r.store.users {
		if u.Id == user.Id {
			r.store.users[i] = user
		}
	}
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	q := splitSpecs(specs)
	for _, u := range r.store.users {
		if userMatches(u, q.filters) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	q := splitSpecs(specs)
	var n int64
	for _, u := range r.store.users {
		if userMatches(u, q.filters) {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) ActivateUser(ctx context.Context, userId uuid.UUID) error {
	for _, u := range r.store.users {
		if u.Id == userId {
			u.Status = entity.UserStatusActive
			u.EmailVerified = true
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userId uuid.UUID, passwordHash string) error {
	for _, u := range r.store.users {
		if u.Id == userId {
			u.PasswordHash = &passwordHash
		}
	}
	return nil
}

func (r *fakeUserRepo) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	r.store.emailTokens = append(r.store.emailTokens, token)
	return nil
}

func (r *fakeUserRepo) FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	q := splitSpecs(specs)
	for _, tok := range r.store.emailTokens {
		match := true
		for _, s := range q.filters {
			switch v := s.(type) {
			case specification.UserOwnedBy:
				if tok.UserId != v.UserID {
					match = false
				}
			case specification.ByToken:
				if tok.Token != v.Token {
					match = false
				}
			}
		}
		if match {
			return tok, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error {
	out := r.store.emailTokens[:0]
	for _, tok := range r.store.emailTokens {
		if tok.Id != id {
			out = append(out, tok)
		}
	}
	r.store.emailTokens = out
	return nil
}

func (r *fakeUserRepo) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	r.store.resetTokens = append(r.store.resetTokens, token)
	return nil
}

func (r *fakeUserRepo) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	q := splitSpecs(specs)
	for _, tok := range r.store.resetTokens {
		match := true
		for _, s := range q.filters {
			if v, ok := s.(specification.ByToken); ok && tok.Token != v.Token {
				match = false
			}
		}
		if match {
			return tok, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) MarkTokenUsed(ctx context.Context, id uuid.UUID) error {
	for _, tok := range r.store.resetTokens {
		if tok.Id == id {
			tok.Used = true
		}
	}
	return nil
}

func (r *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	r.store.refreshTokens = append(r.store.refreshTokens, token)
	return nil
}

func (r *fakeUserRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	for _, tok := range r.store.refreshTokens {
		if tok.TokenHash == tokenHash {
			tok.Revoked = true
		}
	}
	return nil
}

// Colleges

type fakeCollegeRepo struct {
	store *fakeStore
}

func collegeMatches(c *entity.College, specs []specification.Specification) bool {
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			if c.Id != v.ID {
				return false
			}
		case specification.ByIDs:
			found := false
			for _, id := range v.IDs {
				if c.Id == id {
					found = true
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func (r *fakeCollegeRepo) Create(ctx context.Context, college *entity.College) error {
	r.store.colleges = append(r.store.colleges, college)
	return nil
}

func (r *fakeCollegeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.College, error) {
	q := splitSpecs(specs)
	for _, c := range r.store.colleges {
		if collegeMatches(c, q.filters) {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCollegeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.College, error) {
	q := splitSpecs(specs)
	var out []*entity.College
	for _, c := range r.store.colleges {
		if collegeMatches(c, q.filters) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Profiles

type fakeProfileRepo struct {
	store *fakeStore
}

func (r *fakeProfileRepo) CreateStudent(ctx context.Context, profile *entity.StudentProfile) error {
	r.store.studentProfiles = append(r.store.studentProfiles, profile)
	return nil
}

func (r *fakeProfileRepo) UpdateStudent(ctx context.Context, profile *entity.StudentProfile) error {
	for i, p := range r.store.studentProfiles {
		if p.Id == profile.Id {
			r.store.studentProfiles[i] = profile
		}
	}
	return nil
}

func (r *fakeProfileRepo) FindStudent(ctx context.Context, specs ...specification.Specification) (*entity.StudentProfile, error) {
	q := splitSpecs(specs)
	for _, p := range r.store.studentProfiles {
		match := true
		for _, s := range q.filters {
			switch v := s.(type) {
			case specification.ByID:
				if p.Id != v.ID {
					match = false
				}
			case specification.UserOwnedBy:
				if p.UserId != v.UserID {
					match = false
				}
			}
		}
		if match {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) ReplaceStudentSkills(ctx context.Context, studentId uuid.UUID, skills []entity.Skill) error {
	for _, p := range r.store.studentProfiles {
		if p.Id == studentId {
			p.Skills = skills
		}
	}
	return nil
}

func (r *fakeProfileRepo) CreateProfessor(ctx context.Context, profile *entity.ProfessorProfile) error {
	r.store.professorProfiles = append(r.store.professorProfiles, profile)
	return nil
}

func (r *fakeProfileRepo) UpdateProfessor(ctx context.Context, profile *entity.ProfessorProfile) error {
	for i, p := range r.store.professorProfiles {
		if p.Id == profile.Id {
			r.store.professorProfiles[i] = profile
		}
	}
	return nil
}

func (r *fakeProfileRepo) FindProfessor(ctx context.Context, specs ...specification.Specification) (*entity.ProfessorProfile, error) {
	q := splitSpecs(specs)
	for _, p := range r.store.professorProfiles {
		match := true
		for _, s := range q.filters {
			switch v := s.(type) {
			case specification.ByID:
				if p.Id != v.ID {
					match = false
				}
			case specification.UserOwnedBy:
				if p.UserId != v.UserID {
					match = false
				}
			}
		}
		if match {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) UpsertSkills(ctx context.Context, names []string) ([]entity.Skill, error) {
	out := make([]entity.Skill, 0, len(names))
	for _, name := range names {
		var existing *entity.Skill
		for i := range r.store.skills {
			if strings.EqualFold(r.store.skills[i].Name, name) {
				existing = &r.store.skills[i]
			}
		}
		if existing == nil {
			r.store.skills = append(r.store.skills, entity.Skill{Id: uuid.New(), Name: name})
			existing = &r.store.skills[len(r.store.skills)-1]
		}
		out = append(out, *existing)
	}
	return out, nil
}

// Subscriptions and plans

type fakeSubscriptionRepo struct {
	store *fakeStore
}

func (r *fakeSubscriptionRepo) CreatePlan(ctx context.Context, plan *entity.Plan) error {
	r.store.plans = append(r.store.plans, plan)
	return nil
}

func (r *fakeSubscriptionRepo) UpdatePlan(ctx context.Context, plan *entity.Plan) error {
	for i, p := range r.store.plans {
		if p.Id == plan.Id {
			r.store.plans[i] = plan
		}
	}
	return nil
}

func planMatches(p *entity.Plan, specs []specification.Specification) bool {
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			if p.Id != v.ID {
				return false
			}
		case specification.BySlug:
			if p.Slug != v.Slug {
				return false
			}
		case specification.ActivePlansOnly:
			if !p.IsActive {
				return false
			}
		}
	}
	return true
}

func (r *fakeSubscriptionRepo) FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.Plan, error) {
	q := splitSpecs(specs)
	for _, p := range r.store.plans {
		if planMatches(p, q.filters) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.Plan, error) {
	q := splitSpecs(specs)
	var out []*entity.Plan
	for _, p := range r.store.plans {
		if planMatches(p, q.filters) {
			out = append(out, p)
		}
	}
	if q.orderField == "sort_order" {
		sort.SliceStable(out, func(i, j int) bool {
			if q.orderDesc {
				return out[i].SortOrder > out[j].SortOrder
			}
			return out[i].SortOrder < out[j].SortOrder
		})
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) AddCollegeToPlan(ctx context.Context, planId uuid.UUID, collegeId uuid.UUID) error {
	return nil
}

func (r *fakeSubscriptionRepo) RemoveCollegeFromPlan(ctx context.Context, planId uuid.UUID, collegeId uuid.UUID) error {
	return nil
}

func (r *fakeSubscriptionRepo) CreateSubscription(ctx context.Context, sub *entity.Subscription) error {
	r.store.subscriptions = append(r.store.subscriptions, sub)
	return nil
}

func (r *fakeSubscriptionRepo) UpdateSubscription(ctx context.Context, sub *entity.Subscription) error {
	for i, s := range r.store.subscriptions {
		if s.Id == sub.Id {
			r.store.subscriptions[i] = sub
		}
	}
	return nil
}

func subscriptionMatches(sub *entity.Subscription, specs []specification.Specification) bool {
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			if sub.Id != v.ID {
				return false
			}
		case specification.UserOwnedBy:
			if sub.UserId != v.UserID {
				return false
			}
		case specification.EffectivelyActive:
			if sub.Status != entity.SubscriptionStatusActive || sub.EndsAt.Before(v.Now) {
				return false
			}
		case specification.ByStatus:
			if string(sub.Status) != v.Status {
				return false
			}
		}
	}
	return true
}

func (r *fakeSubscriptionRepo) FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	q := splitSpecs(specs)
	for _, sub := range r.store.subscriptions {
		if subscriptionMatches(sub, q.filters) {
			r.attachPlan(sub)
			return sub, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	q := splitSpecs(specs)
	var out []*entity.Subscription
	for _, sub := range r.store.subscriptions {
		if subscriptionMatches(sub, q.filters) {
			r.attachPlan(sub)
			out = append(out, sub)
		}
	}
	if q.orderField == "created_at" {
		sort.SliceStable(out, func(i, j int) bool {
			if q.orderDesc {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	return out, nil
}

// attachPlan emulates the repository's plan preload.
func (r *fakeSubscriptionRepo) attachPlan(sub *entity.Subscription) {
	if sub.Plan != nil {
		return
	}
	for _, p := range r.store.plans {
		if p.Id == sub.PlanId {
			sub.Plan = p
		}
	}
}

// Projects

type fakeProjectRepo struct {
	store *fakeStore
}

func projectMatches(p *entity.Project, specs []specification.Specification) bool {
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			if p.Id != v.ID {
				return false
			}
		case specification.ByColleges:
			found := false
			for _, id := range v.CollegeIDs {
				if p.CollegeId == id {
					found = true
				}
			}
			if !found {
				return false
			}
		case specification.ClosedIs:
			if p.Closed != v.Closed {
				return false
			}
		case specification.DeadlineNotBefore:
			if p.Deadline.Before(v.Now) {
				return false
			}
		case specification.IDBefore:
			if bytes.Compare(p.Id[:], v.ID[:]) >= 0 {
				return false
			}
		case specification.OwnedByProfessor:
			if p.ProfessorId != v.ProfessorID {
				return false
			}
		}
	}
	return true
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	r.store.projects = append(r.store.projects, project)
	return nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *entity.Project) error {
	for i, p := range r.store.projects {
		if p.Id == project.Id {
			r.store.projects[i] = project
		}
	}
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	out := r.store.projects[:0]
	for _, p := range r.store.projects {
		if p.Id != id {
			out = append(out, p)
		}
	}
	r.store.projects = out
	return nil
}

func (r *fakeProjectRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error) {
	q := splitSpecs(specs)
	for _, p := range r.store.projects {
		if projectMatches(p, q.filters) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProjectRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error) {
	q := splitSpecs(specs)
	var out []*entity.Project
	for _, p := range r.store.projects {
		if projectMatches(p, q.filters) {
			out = append(out, p)
		}
	}
	if q.orderField == "created_at" {
		sort.SliceStable(out, func(i, j int) bool {
			if q.orderDesc {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	if q.limit >= 0 && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out, nil
}

func (r *fakeProjectRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	q := splitSpecs(specs)
	var n int64
	for _, p := range r.store.projects {
		if projectMatches(p, q.filters) {
			n++
		}
	}
	return n, nil
}

// Applications

type fakeApplicationRepo struct {
	store *fakeStore
}

func applicationMatches(a *entity.Application, specs []specification.Specification) bool {
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			if a.Id != v.ID {
				return false
			}
		case specification.ByProject:
			if a.ProjectId != v.ProjectID {
				return false
			}
		case specification.ByStudent:
			if a.StudentId != v.StudentID {
				return false
			}
		case specification.StatusIn:
			found := false
			for _, st := range v.Statuses {
				if string(a.Status) == st {
					found = true
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func (r *fakeApplicationRepo) Create(ctx context.Context, application *entity.Application) error {
	// Mirrors the unique index on (project_id, student_id): a second row
	// for the same pair comes back as the mapped Conflict.
	for _, a := range r.store.applications {
		if a.ProjectId == application.ProjectId && a.StudentId == application.StudentId {
			return apperror.Conflict("BUSINESS_RULE_VIOLATION", "You have already applied to this project")
		}
	}
	r.store.applications = append(r.store.applications, application)
	return nil
}

func (r *fakeApplicationRepo) Update(ctx context.Context, application *entity.Application) error {
	for i, a := range r.store.applications {
		if a.Id == application.Id {
			r.store.applications[i] = application
		}
	}
	return nil
}

func (r *fakeApplicationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	out := r.store.applications[:0]
	for _, a := range r.store.applications {
		if a.Id != id {
			out = append(out, a)
		}
	}
	r.store.applications = out
	return nil
}

func (r *fakeApplicationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Application, error) {
	q := splitSpecs(specs)
	for _, a := range r.store.applications {
		if applicationMatches(a, q.filters) {
			r.attachProject(a)
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeApplicationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Application, error) {
	q := splitSpecs(specs)
	var out []*entity.Application
	for _, a := range r.store.applications {
		if applicationMatches(a, q.filters) {
			r.attachProject(a)
			out = append(out, a)
		}
	}
	if q.orderField == "applied_at" {
		sort.SliceStable(out, func(i, j int) bool {
			if q.orderDesc {
				return out[i].AppliedAt.After(out[j].AppliedAt)
			}
			return out[i].AppliedAt.Before(out[j].AppliedAt)
		})
	}
	if q.limit >= 0 && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out, nil
}

func (r *fakeApplicationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	q := splitSpecs(specs)
	var n int64
	for _, a := range r.store.applications {
		if applicationMatches(a, q.filters) {
			n++
		}
	}
	return n, nil
}

// attachProject emulates the repository's project-with-college preload.
func (r *fakeApplicationRepo) attachProject(a *entity.Application) {
	if a.Project != nil {
		return
	}
	for _, p := range r.store.projects {
		if p.Id == a.ProjectId {
			a.Project = p
		}
	}
}

// Collaborator fakes

type fakeAccessService struct {
	access      *entity.CollegeAccess
	err         error
	invalidated []uuid.UUID
}

func (f *fakeAccessService) ResolveAccessibleColleges(ctx context.Context, userId uuid.UUID) (*entity.CollegeAccess, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.access, nil
}

func (f *fakeAccessService) Invalidate(userId uuid.UUID) {
	f.invalidated = append(f.invalidated, userId)
}

type fakePublisher struct {
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakePublisher) lastMessage() (*dto.OutboundNotificationMessage, bool) {
	if len(f.payloads) == 0 {
		return nil, false
	}
	var msg dto.OutboundNotificationMessage
	if err := json.Unmarshal(f.payloads[len(f.payloads)-1], &msg); err != nil {
		return nil, false
	}
	return &msg, true
}

// newV7At builds a time-ordered id for cursor tests without sleeping.
func newV7At(t time.Time, seq byte) uuid.UUID {
	var id uuid.UUID
	ms := uint64(t.UnixMilli())
	id[0] = byte(ms >> 40)
	id[1] = byte(ms >> 32)
	id[2] = byte(ms >> 24)
	id[3] = byte(ms >> 16)
	id[4] = byte(ms >> 8)
	id[5] = byte(ms)
	id[6] = 0x70
	id[7] = seq
	id[8] = 0x80
	id[15] = seq
	return id
}
