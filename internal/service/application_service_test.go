package service

import (
	"context"
	"testing"
	"time"

	"research-link-be/internal/dto"
	"research-link-be/internal/entity"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type applicationFixture struct {
	store       *fakeStore
	publisher   *fakePublisher
	service     IApplicationService
	professorId uuid.UUID
	studentUser uuid.UUID
	studentId   uuid.UUID
	project     *entity.Project
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	f := &applicationFixture{
		store:       &fakeStore{},
		publisher:   &fakePublisher{},
		professorId: uuid.New(),
		studentUser: uuid.New(),
		studentId:   uuid.New(),
	}
	collegeId := uuid.New()
	f.store.users = []*entity.User{
		{Id: f.professorId, FullName: "Dr. Rao", Role: entity.UserRoleProfessor, CollegeId: collegeId},
		{Id: f.studentUser, FullName: "Asha Verma", Role: entity.UserRoleStudent, CollegeId: collegeId},
	}
	f.store.studentProfiles = []*entity.StudentProfile{
		{
			Id:     f.studentId,
			UserId: f.studentUser,
			Branch: "Computer Science",
			Year:   3,
			Skills: []entity.Skill{{Id: uuid.New(), Name: "Python"}, {Id: uuid.New(), Name: "PyTorch"}},
		},
	}
	f.project = &entity.Project{
		Id:                     uuid.New(),
		Title:                  "Federated Learning on Edge Devices",
		Deadline:               time.Now().Add(14 * 24 * time.Hour),
		CollegeId:              collegeId,
		ProfessorId:            f.professorId,
		NumberOfStudentsNeeded: 1,
	}
	f.store.projects = []*entity.Project{f.project}
	f.service = NewApplicationService(newFakeFactory(f.store), f.publisher, nil)
	return f
}

func (f *applicationFixture) addApplication(status entity.ApplicationStatus) *entity.Application {
	app := &entity.Application{
		Id:        uuid.New(),
		ProjectId: f.project.Id,
		StudentId: f.studentId,
		Status:    status,
		AppliedAt: time.Now(),
	}
	f.store.applications = append(f.store.applications, app)
	return app
}

func TestListApplicants(t *testing.T) {
	t.Run("non-owner is denied", func(t *testing.T) {
		f := newApplicationFixture(t)
		_, err := f.service.ListApplicants(context.Background(), uuid.New(), f.project.Id)
		requireAppError(t, err, apperror.KindAccessDenied)
	})

	t.Run("missing project", func(t *testing.T) {
		f := newApplicationFixture(t)
		_, err := f.service.ListApplicants(context.Background(), f.professorId, uuid.New())
		requireAppError(t, err, apperror.KindNotFound)
	})

	t.Run("rows carry the student profile", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.addApplication(entity.ApplicationStatusPending)

		rows, err := f.service.ListApplicants(context.Background(), f.professorId, f.project.Id)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Asha Verma", rows[0].StudentName)
		assert.Equal(t, "Computer Science", rows[0].Branch)
		assert.Equal(t, 3, rows[0].Year)
		assert.ElementsMatch(t, []string{"Python", "PyTorch"}, rows[0].Skills)
	})

	t.Run("ordered oldest application first", func(t *testing.T) {
		f := newApplicationFixture(t)
		late := f.addApplication(entity.ApplicationStatusPending)
		late.AppliedAt = time.Now()
		early := &entity.Application{
			Id:        uuid.New(),
			ProjectId: f.project.Id,
			StudentId: f.studentId,
			Status:    entity.ApplicationStatusPending,
			AppliedAt: time.Now().Add(-time.Hour),
		}
		f.store.applications = append(f.store.applications, early)

		rows, err := f.service.ListApplicants(context.Background(), f.professorId, f.project.Id)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, early.Id, rows[0].ApplicationId)
		assert.Equal(t, late.Id, rows[1].ApplicationId)
	})
}

func TestUpdateApplicationStatus(t *testing.T) {
	update := func(f *applicationFixture, professorId, applicationId uuid.UUID, status string) (*dto.ApplicationDTO, error) {
		return f.service.UpdateStatus(context.Background(), professorId, applicationId, &dto.UpdateApplicationStatusRequest{Status: status})
	}

	t.Run("rejects statuses outside the review vocabulary", func(t *testing.T) {
		f := newApplicationFixture(t)
		app := f.addApplication(entity.ApplicationStatusPending)
		for _, status := range []string{"pending", "withdrawn", "APPROVED", ""} {
			_, err := update(f, f.professorId, app.Id, status)
			appErr := requireAppError(t, err, apperror.KindInvalidRequest)
			assert.Equal(t, "INVALID_STATUS", appErr.Code)
		}
	})

	t.Run("missing application", func(t *testing.T) {
		f := newApplicationFixture(t)
		_, err := update(f, f.professorId, uuid.New(), "shortlisted")
		requireAppError(t, err, apperror.KindNotFound)
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		f := newApplicationFixture(t)
		app := f.addApplication(entity.ApplicationStatusPending)
		_, err := update(f, uuid.New(), app.Id, "shortlisted")
		requireAppError(t, err, apperror.KindAccessDenied)
	})

	t.Run("workflow transitions", func(t *testing.T) {
		cases := []struct {
			name    string
			from    entity.ApplicationStatus
			to      string
			allowed bool
		}{
			{"pending to shortlisted", entity.ApplicationStatusPending, "shortlisted", true},
			{"pending to accepted", entity.ApplicationStatusPending, "accepted", true},
			{"pending to rejected", entity.ApplicationStatusPending, "rejected", true},
			{"shortlisted to accepted", entity.ApplicationStatusShortlisted, "accepted", true},
			{"shortlisted to rejected", entity.ApplicationStatusShortlisted, "rejected", true},
			{"shortlisted to shortlisted", entity.ApplicationStatusShortlisted, "shortlisted", false},
			{"accepted is terminal", entity.ApplicationStatusAccepted, "rejected", false},
			{"rejected is terminal", entity.ApplicationStatusRejected, "shortlisted", false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newApplicationFixture(t)
				app := f.addApplication(tc.from)
				res, err := update(f, f.professorId, app.Id, tc.to)
				if tc.allowed {
					require.NoError(t, err)
					assert.Equal(t, tc.to, res.Status)
					assert.Equal(t, entity.ApplicationStatus(tc.to), f.store.applications[0].Status)
				} else {
					requireAppError(t, err, apperror.KindBusinessRule)
					assert.Equal(t, tc.from, f.store.applications[0].Status)
				}
			})
		}
	})

	t.Run("student is notified of the change", func(t *testing.T) {
		f := newApplicationFixture(t)
		app := f.addApplication(entity.ApplicationStatusPending)
		_, err := update(f, f.professorId, app.Id, "shortlisted")
		require.NoError(t, err)

		msg, ok := f.publisher.lastMessage()
		require.True(t, ok)
		assert.Equal(t, events.TypeApplicationStatusChanged, msg.TypeCode)
		assert.Equal(t, f.studentUser, msg.RecipientUserId)
		assert.Equal(t, "pending", msg.Metadata["previous_status"])
		assert.Equal(t, "shortlisted", msg.Metadata["new_status"])
	})
}
