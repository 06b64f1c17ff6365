package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atelier116/fashionweek-api/internal/models"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
	"github.com/atelier116/fashionweek-api/pkg/notify"
)

type mockUserRepo struct {
	users      map[int64]*models.User
	emailTaken bool
	nextID     int64
	auditLogs  []*models.AuditLog
	deletedIDs []int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[int64]*models.User{}, nextID: 1}
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var out []models.User
	for _, user := range m.users {
		out = append(out, *user)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) Search(ctx context.Context, term string) ([]models.UserSmall, error) {
	return []models.UserSmall{}, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	delete(m.users, id)
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return m.emailTaken, nil
}

func (m *mockUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func TestUserServiceCreate(t *testing.T) {
	repo := newMockUserRepo()
	dispatcher := &mockDispatcher{}
	svc := NewUserService(repo, dispatcher, validator.New(), zap.NewNop())

	user, err := svc.Create(context.Background(), adminClaims(), models.CreateUserRequest{
		FirstName: "Lena",
		LastName:  "Petit",
		Email:     "lena@example.com",
		RoleID:    models.RoleSalesAssistant,
		Position:  "Sales",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.True(t, user.Active)
	assert.NotEmpty(t, user.PasswordHash)
	assert.Equal(t, []notify.EventType{notify.EventUserCreated}, dispatcher.events)
	assert.Equal(t, []string{"Lena Petit"}, dispatcher.refs)
	assert.NotEmpty(t, repo.auditLogs)
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	repo.emailTaken = true
	svc := NewUserService(repo, &mockDispatcher{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), adminClaims(), models.CreateUserRequest{
		FirstName: "Lena",
		LastName:  "Petit",
		Email:     "lena@example.com",
		RoleID:    models.RoleSalesAssistant,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserServiceCreateInvalidPayload(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), &mockDispatcher{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), adminClaims(), models.CreateUserRequest{
		FirstName: "Lena",
		Email:     "not-an-email",
		RoleID:    models.RoleSalesAssistant,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceUpdateStampsBadgeReceipt(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, &mockDispatcher{}, validator.New(), zap.NewNop())

	user, err := svc.Create(context.Background(), adminClaims(), models.CreateUserRequest{
		FirstName: "Lena",
		LastName:  "Petit",
		Email:     "lena@example.com",
		RoleID:    models.RoleSalesAssistant,
	})
	require.NoError(t, err)
	require.False(t, user.BadgeReceived)

	updated, err := svc.Update(context.Background(), adminClaims(), user.ID, models.UpdateUserRequest{
		FirstName:     "Lena",
		LastName:      "Petit",
		Email:         "lena@example.com",
		RoleID:        models.RoleSalesAssistant,
		BadgeReceived: true,
	})
	require.NoError(t, err)
	assert.True(t, updated.BadgeReceived)
	require.NotNil(t, updated.BadgeReceivedAt)
}

func TestUserServiceDelete(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, &mockDispatcher{}, validator.New(), zap.NewNop())

	user, err := svc.Create(context.Background(), adminClaims(), models.CreateUserRequest{
		FirstName: "Lena",
		LastName:  "Petit",
		Email:     "lena@example.com",
		RoleID:    models.RoleSalesAssistant,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), adminClaims(), user.ID))
	assert.Equal(t, []int64{user.ID}, repo.deletedIDs)

	err = svc.Delete(context.Background(), adminClaims(), user.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
