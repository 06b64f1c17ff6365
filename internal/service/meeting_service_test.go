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

type mockMeetingRepo struct {
	byCode   map[string]*models.Meeting
	statuses map[int64]models.MeetingStatus
	created  *models.Meeting
	updated  *models.Meeting
	deleted  []string
	guestIDs []int64
}

func newMockMeetingRepo() *mockMeetingRepo {
	return &mockMeetingRepo{byCode: map[string]*models.Meeting{}, statuses: map[int64]models.MeetingStatus{}}
}

func (m *mockMeetingRepo) List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, error) {
	var out []models.Meeting
	for _, meeting := range m.byCode {
		out = append(out, *meeting)
	}
	return out, nil
}

func (m *mockMeetingRepo) FindByID(ctx context.Context, id int64) (*models.Meeting, error) {
	for _, meeting := range m.byCode {
		if meeting.ID == id {
			return meeting, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockMeetingRepo) FindByCode(ctx context.Context, code string) (*models.Meeting, error) {
	meeting, ok := m.byCode[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *meeting
	return &copied, nil
}

func (m *mockMeetingRepo) Create(ctx context.Context, meeting *models.Meeting, guestIDs []int64) error {
	meeting.ID = int64(len(m.byCode) + 1)
	m.created = meeting
	m.guestIDs = guestIDs
	stored := *meeting
	m.byCode[meeting.MeetingID] = &stored
	return nil
}

func (m *mockMeetingRepo) Update(ctx context.Context, meeting *models.Meeting, guestIDs []int64) error {
	m.updated = meeting
	m.guestIDs = guestIDs
	stored := *meeting
	m.byCode[meeting.MeetingID] = &stored
	return nil
}

func (m *mockMeetingRepo) UpdateStatus(ctx context.Context, id int64, status models.MeetingStatus) error {
	m.statuses[id] = status
	for _, meeting := range m.byCode {
		if meeting.ID == id {
			meeting.Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockMeetingRepo) DeleteByCode(ctx context.Context, code string) error {
	if _, ok := m.byCode[code]; !ok {
		return sql.ErrNoRows
	}
	delete(m.byCode, code)
	m.deleted = append(m.deleted, code)
	return nil
}

type mockAreaLoader struct {
	areas map[int64]*models.Area
}

func (m *mockAreaLoader) FindByID(ctx context.Context, id int64) (*models.Area, error) {
	area, ok := m.areas[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return area, nil
}

type mockAuditLogger struct {
	logs []*models.AuditLog
}

func (m *mockAuditLogger) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

type mockDispatcher struct {
	events []notify.EventType
	refs   []string
}

func (m *mockDispatcher) Notify(event notify.EventType, reference string) {
	m.events = append(m.events, event)
	m.refs = append(m.refs, reference)
}

func fixtureAreas() *mockAreaLoader {
	return &mockAreaLoader{areas: map[int64]*models.Area{
		1: {ID: 1, Label: "Main Showroom", Type: "Showroom"},
		2: {ID: 2, Label: "Meeting Room Flat Paris", Type: "Meeting Room", MeetingConfirmation: true},
		5: {ID: 5, Label: "Ogla Preview", Type: "Preview"},
	}}
}

func newMeetingServiceForTest(repo *mockMeetingRepo, dispatcher *mockDispatcher) (*MeetingService, *mockAuditLogger) {
	audits := &mockAuditLogger{}
	svc := NewMeetingService(repo, fixtureAreas(), audits, dispatcher, nil, validator.New(), zap.NewNop())
	return svc, audits
}

func salesClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: 11, RoleID: models.RoleSalesManager}
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: 1, RoleID: models.RoleAdmin}
}

func TestMeetingServiceCreateAccepted(t *testing.T) {
	repo := newMockMeetingRepo()
	dispatcher := &mockDispatcher{}
	svc, audits := newMeetingServiceForTest(repo, dispatcher)

	meeting, err := svc.Create(context.Background(), adminClaims(), models.MeetingRequest{
		Title:     "Buyer preview",
		AreaID:    1,
		StartDate: "2026-03-02 09:30",
		EndDate:   "2026-03-02 11:00",
		GuestIDs:  []int64{7, 8},
	})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusAccepted, meeting.Status)
	assert.NotEmpty(t, meeting.MeetingID)
	assert.Equal(t, []int64{7, 8}, repo.guestIDs)
	assert.Equal(t, []notify.EventType{notify.EventMeetingCreated}, dispatcher.events)
	assert.NotEmpty(t, audits.logs)
}

func TestMeetingServiceCreateNeedsApproval(t *testing.T) {
	repo := newMockMeetingRepo()
	dispatcher := &mockDispatcher{}
	svc, _ := newMeetingServiceForTest(repo, dispatcher)

	meeting, err := svc.Create(context.Background(), salesClaims(), models.MeetingRequest{
		AreaID:    2,
		StartDate: "2026-03-02 09:30",
		EndDate:   "2026-03-02 10:30",
		GuestIDs:  []int64{7},
	})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusInProgress, meeting.Status)
	assert.Equal(t, []notify.EventType{notify.EventMeetingNeedApproval}, dispatcher.events)
}

func TestMeetingServiceCreateRejectsOverDuration(t *testing.T) {
	repo := newMockMeetingRepo()
	svc, _ := newMeetingServiceForTest(repo, &mockDispatcher{})

	_, err := svc.Create(context.Background(), salesClaims(), models.MeetingRequest{
		AreaID:    2,
		StartDate: "2026-03-02 09:00",
		EndDate:   "2026-03-02 10:30",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrBookingRejected.Code, appErr.Code)
	assert.Equal(t, "Warning: The max allowed duration is 60 min", appErr.Message)
	assert.Nil(t, repo.created)
}

func TestMeetingServiceCreateRejectsOverAttendees(t *testing.T) {
	repo := newMockMeetingRepo()
	svc, _ := newMeetingServiceForTest(repo, &mockDispatcher{})

	_, err := svc.Create(context.Background(), salesClaims(), models.MeetingRequest{
		AreaID:    2,
		StartDate: "2026-03-02 09:00",
		EndDate:   "2026-03-02 10:00",
		GuestIDs:  []int64{1, 2, 3, 4},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "Warning: The max allowed attendees is 3", appErr.Message)
}

func TestMeetingServiceCreateAdminBypassesPolicy(t *testing.T) {
	repo := newMockMeetingRepo()
	svc, _ := newMeetingServiceForTest(repo, &mockDispatcher{})

	meeting, err := svc.Create(context.Background(), adminClaims(), models.MeetingRequest{
		AreaID:    5,
		StartDate: "2026-03-02 09:00",
		EndDate:   "2026-03-02 12:00",
		GuestIDs:  []int64{1, 2, 3, 4, 5},
	})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusAccepted, meeting.Status)
}

func TestMeetingServiceCreateRejectsBackwardsDates(t *testing.T) {
	svc, _ := newMeetingServiceForTest(newMockMeetingRepo(), &mockDispatcher{})

	_, err := svc.Create(context.Background(), adminClaims(), models.MeetingRequest{
		AreaID:    1,
		StartDate: "2026-03-02 11:00",
		EndDate:   "2026-03-02 09:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMeetingServiceAcceptRequiresAdmin(t *testing.T) {
	repo := newMockMeetingRepo()
	repo.byCode["m-1"] = &models.Meeting{ID: 1, MeetingID: "m-1", Status: models.MeetingStatusInProgress}
	svc, _ := newMeetingServiceForTest(repo, &mockDispatcher{})

	_, err := svc.Accept(context.Background(), salesClaims(), "m-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestMeetingServiceAcceptAndReject(t *testing.T) {
	repo := newMockMeetingRepo()
	repo.byCode["m-1"] = &models.Meeting{ID: 1, MeetingID: "m-1", Status: models.MeetingStatusInProgress}
	repo.byCode["m-2"] = &models.Meeting{ID: 2, MeetingID: "m-2", Status: models.MeetingStatusInProgress}
	dispatcher := &mockDispatcher{}
	svc, _ := newMeetingServiceForTest(repo, dispatcher)

	accepted, err := svc.Accept(context.Background(), adminClaims(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusAccepted, accepted.Status)

	rejected, err := svc.Reject(context.Background(), adminClaims(), "m-2")
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusRejected, rejected.Status)

	assert.Equal(t, []notify.EventType{notify.EventMeetingAccepted, notify.EventMeetingRejected}, dispatcher.events)
}

func TestMeetingServiceDelete(t *testing.T) {
	repo := newMockMeetingRepo()
	repo.byCode["m-1"] = &models.Meeting{ID: 1, MeetingID: "m-1"}
	svc, audits := newMeetingServiceForTest(repo, &mockDispatcher{})

	err := svc.Delete(context.Background(), adminClaims(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m-1"}, repo.deleted)
	assert.NotEmpty(t, audits.logs)

	err = svc.Delete(context.Background(), adminClaims(), "m-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMeetingServiceUpdateKeepsCode(t *testing.T) {
	repo := newMockMeetingRepo()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	repo.byCode["m-1"] = &models.Meeting{ID: 1, MeetingID: "m-1", AreaID: 1, StartDate: start, EndDate: start.Add(time.Hour)}
	svc, _ := newMeetingServiceForTest(repo, &mockDispatcher{})

	meeting, err := svc.Update(context.Background(), adminClaims(), "m-1", models.MeetingRequest{
		Title:     "Reworked",
		AreaID:    1,
		StartDate: "2026-03-03 14:00",
		EndDate:   "2026-03-03 15:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "m-1", meeting.MeetingID)
	assert.Equal(t, "Reworked", meeting.Title)
	require.NotNil(t, repo.updated)
}
