package views

import (
	"context"

	"eventhub/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListWorkshops(ctx context.Context) ([]models.Workshop, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Workshop), args.Error(1)
}

func (m *MockStore) RegisteredWorkshopIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockStore) Register(ctx context.Context, userID, workshopID uuid.UUID) error {
	args := m.Called(ctx, userID, workshopID)
	return args.Error(0)
}

func (m *MockStore) GetWorkshop(ctx context.Context, id uuid.UUID) (*models.Workshop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workshop), args.Error(1)
}

func (m *MockStore) MembershipForWorkshop(ctx context.Context, userID, workshopID uuid.UUID) (*models.Group, error) {
	args := m.Called(ctx, userID, workshopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockStore) GetGroupMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GroupMember), args.Error(1)
}

func (m *MockStore) ListTasks(ctx context.Context, workshopID uuid.UUID) ([]models.Task, error) {
	args := m.Called(ctx, workshopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockStore) GroupSubmissions(ctx context.Context, groupID uuid.UUID) ([]models.Submission, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Submission), args.Error(1)
}

func (m *MockStore) GetLeaderboard(ctx context.Context, workshopID uuid.UUID) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, workshopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

func (m *MockStore) ListJudges(ctx context.Context, workshopID uuid.UUID) ([]models.Judge, error) {
	args := m.Called(ctx, workshopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Judge), args.Error(1)
}

func (m *MockStore) JoinGroup(ctx context.Context, userID, workshopID uuid.UUID, code string) (*models.Group, error) {
	args := m.Called(ctx, userID, workshopID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockStore) CreateSubmission(ctx context.Context, groupID, taskID uuid.UUID, text string, fileURLs []string) (*models.Submission, error) {
	args := m.Called(ctx, groupID, taskID, text, fileURLs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockStore) SubmitFeedback(ctx context.Context, f *models.Feedback) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockStore) RequestMentorship(ctx context.Context, r *models.MentorshipRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
