package service

import (
	"context"
	"testing"

	agentService "OpsLink/internal/modules/agent/application/service"
	"OpsLink/internal/modules/collab/domain/entity"
	"OpsLink/pkg/xerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionRepo struct {
	sessions map[string]*entity.CollabSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*entity.CollabSession{}}
}

func (f *fakeSessionRepo) CreateSession(ctx context.Context, session *entity.CollabSession) error {
	f.sessions[session.SessionId] = session
	return nil
}

func (f *fakeSessionRepo) GetSessionByID(ctx context.Context, sessionId, companyId string) (*entity.CollabSession, error) {
	s := f.sessions[sessionId]
	if s == nil || s.CompanyId != companyId {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSessionRepo) ListSessions(ctx context.Context, companyId string, limit, offset int) ([]*entity.CollabSession, error) {
	var out []*entity.CollabSession
	for _, s := range f.sessions {
		if s.CompanyId == companyId {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) UpdateSession(ctx context.Context, sessionId string, updates map[string]interface{}) error {
	s := f.sessions[sessionId]
	if s == nil {
		return nil
	}
	if v, ok := updates["meeting_mode"]; ok {
		s.MeetingMode = v.(bool)
	}
	if v, ok := updates["settings_json"]; ok {
		s.SettingsJson = v.(string)
	}
	return nil
}

type fakeMessageRepo struct {
	messages []*entity.CollabMessage
}

func (f *fakeMessageRepo) AppendMessage(ctx context.Context, m *entity.CollabMessage) error {
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeMessageRepo) ListMessages(ctx context.Context, sessionId string, limit, offset int) ([]*entity.CollabMessage, error) {
	return f.messages, nil
}

type routedCall struct {
	role string
	task string
}

type fakeRouter struct {
	result agentService.TaskResult
	calls  []routedCall
}

func (f *fakeRouter) RouteTask(ctx context.Context, companyId, role, task string) agentService.TaskResult {
	f.calls = append(f.calls, routedCall{role: role, task: task})
	return f.result
}

func (f *fakeRouter) GetAvailableAgentRoles(ctx context.Context, companyId string) []string {
	return nil
}

func (f *fakeRouter) IsAgentRoleAvailable(ctx context.Context, companyId, role string) bool {
	return true
}

func meetingParticipants() []entity.Participant {
	return []entity.Participant{
		{Id: "U0001", Type: entity.ParticipantUser, Name: "Alice"},
		{Id: "Asales", Type: entity.ParticipantAgent, Name: "Sales", Role: "sales"},
		{Id: "U0002", Type: entity.ParticipantUser, Name: "Bob"},
	}
}

func seedSession(t *testing.T, repo *fakeSessionRepo, participants []entity.Participant) *entity.CollabSession {
	t.Helper()
	session := &entity.CollabSession{
		SessionId: "C0001",
		CompanyId: "T0001",
		Title:     "Quarterly Planning",
		CreatedBy: "U0001",
	}
	require.NoError(t, session.SetParticipants(participants))
	repo.sessions[session.SessionId] = session
	return session
}

func newTestMeeting(repo *fakeSessionRepo, msgs *fakeMessageRepo, router agentService.RouterService) MeetingService {
	return NewMeetingService(repo, msgs, router, nil)
}

func TestStartMeetingModeInitializesTurnOrder(t *testing.T) {
	repo := newFakeSessionRepo()
	seedSession(t, repo, meetingParticipants())
	svc := newTestMeeting(repo, &fakeMessageRepo{}, &fakeRouter{})

	state, err := svc.StartMeetingMode(context.Background(), "C0001", "T0001")

	require.NoError(t, err)
	assert.Equal(t, 0, state.CurrentTurn)
	assert.Equal(t, "U0001", state.HolderId)
	assert.Equal(t, entity.ParticipantUser, state.HolderType)

	session := repo.sessions["C0001"]
	assert.True(t, session.MeetingMode)
	settings := session.Settings()
	require.NotNil(t, settings)
	assert.Equal(t, []string{"U0001", "Asales", "U0002"}, settings.TurnOrder)
}

func TestStartMeetingModeSessionNotFound(t *testing.T) {
	svc := newTestMeeting(newFakeSessionRepo(), &fakeMessageRepo{}, &fakeRouter{})

	_, err := svc.StartMeetingMode(context.Background(), "C-missing", "T0001")

	assert.ErrorIs(t, err, xerr.ErrNotFound)
}

func TestNextMeetingTurnWrapsAround(t *testing.T) {
	repo := newFakeSessionRepo()
	seedSession(t, repo, meetingParticipants())
	router := &fakeRouter{result: agentService.TaskResult{Success: true, Response: "my view"}}
	svc := newTestMeeting(repo, &fakeMessageRepo{}, router)

	_, err := svc.StartMeetingMode(context.Background(), "C0001", "T0001")
	require.NoError(t, err)

	// 连续推进两整轮，轮次始终落在 [0, n) 内
	n := 3
	for i := 1; i <= 2*n; i++ {
		state, err := svc.NextMeetingTurn(context.Background(), "C0001", "T0001")
		require.NoError(t, err)
		assert.Equal(t, i%n, state.CurrentTurn)
		assert.GreaterOrEqual(t, state.CurrentTurn, 0)
		assert.Less(t, state.CurrentTurn, n)
	}
}

func TestNextMeetingTurnAgentSpeaks(t *testing.T) {
	repo := newFakeSessionRepo()
	seedSession(t, repo, meetingParticipants())
	msgs := &fakeMessageRepo{}
	router := &fakeRouter{result: agentService.TaskResult{Success: true, Response: "sales perspective"}}
	svc := newTestMeeting(repo, msgs, router)

	_, err := svc.StartMeetingMode(context.Background(), "C0001", "T0001")
	require.NoError(t, err)

	state, err := svc.NextMeetingTurn(context.Background(), "C0001", "T0001")
	require.NoError(t, err)
	assert.Equal(t, "Asales", state.HolderId)
	assert.Equal(t, entity.ParticipantAgent, state.HolderType)

	require.Len(t, router.calls, 1)
	assert.Equal(t, "sales", router.calls[0].role)
	assert.Contains(t, router.calls[0].task, "Quarterly Planning")
	assert.Contains(t, router.calls[0].task, "It is your turn to speak")

	require.Len(t, msgs.messages, 1)
	assert.Equal(t, "Asales", msgs.messages[0].SenderId)
	assert.Equal(t, entity.ParticipantAgent, msgs.messages[0].SenderType)
	assert.Equal(t, "sales perspective", msgs.messages[0].Content)
}

func TestNextMeetingTurnAgentFailureTolerated(t *testing.T) {
	repo := newFakeSessionRepo()
	seedSession(t, repo, meetingParticipants())
	msgs := &fakeMessageRepo{}
	router := &fakeRouter{result: agentService.TaskResult{Success: false, Error: "provider down"}}
	svc := newTestMeeting(repo, msgs, router)

	_, err := svc.StartMeetingMode(context.Background(), "C0001", "T0001")
	require.NoError(t, err)

	// 轮转到Agent，调度失败但轮转成功且不留转写
	state, err := svc.NextMeetingTurn(context.Background(), "C0001", "T0001")
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentTurn)
	assert.Empty(t, msgs.messages)
}

func TestNextMeetingTurnOutsideMeetingMode(t *testing.T) {
	repo := newFakeSessionRepo()
	seedSession(t, repo, meetingParticipants())
	svc := newTestMeeting(repo, &fakeMessageRepo{}, &fakeRouter{})

	_, err := svc.NextMeetingTurn(context.Background(), "C0001", "T0001")

	require.Error(t, err)
}

func TestEndMeetingModeWritesSummary(t *testing.T) {
	repo := newFakeSessionRepo()
	seedSession(t, repo, meetingParticipants())
	msgs := &fakeMessageRepo{}
	router := &fakeRouter{result: agentService.TaskResult{Success: true, Response: "key points and action items"}}
	svc := newTestMeeting(repo, msgs, router)

	_, err := svc.StartMeetingMode(context.Background(), "C0001", "T0001")
	require.NoError(t, err)

	err = svc.EndMeetingMode(context.Background(), "C0001", "T0001")
	require.NoError(t, err)

	session := repo.sessions["C0001"]
	assert.False(t, session.MeetingMode)
	assert.Empty(t, session.SettingsJson)

	require.Len(t, router.calls, 1)
	assert.Equal(t, "chief", router.calls[0].role)
	assert.Contains(t, router.calls[0].task, "Summarize the key points")

	require.Len(t, msgs.messages, 1)
	assert.Equal(t, entity.SenderSystem, msgs.messages[0].SenderId)
	assert.Equal(t, entity.SenderSystem, msgs.messages[0].SenderType)
	assert.Equal(t, "key points and action items", msgs.messages[0].Content)
}

func TestEndMeetingModeSummaryFailureSwallowed(t *testing.T) {
	repo := newFakeSessionRepo()
	seedSession(t, repo, meetingParticipants())
	msgs := &fakeMessageRepo{}
	router := &fakeRouter{result: agentService.TaskResult{Success: false, Error: "no chief configured"}}
	svc := newTestMeeting(repo, msgs, router)

	_, err := svc.StartMeetingMode(context.Background(), "C0001", "T0001")
	require.NoError(t, err)

	err = svc.EndMeetingMode(context.Background(), "C0001", "T0001")
	require.NoError(t, err)
	assert.Empty(t, msgs.messages)

	session := repo.sessions["C0001"]
	assert.False(t, session.MeetingMode)
}

func TestEndMeetingModeRequiresMeeting(t *testing.T) {
	repo := newFakeSessionRepo()
	seedSession(t, repo, meetingParticipants())
	svc := newTestMeeting(repo, &fakeMessageRepo{}, &fakeRouter{})

	err := svc.EndMeetingMode(context.Background(), "C0001", "T0001")

	require.Error(t, err)
}

func TestCreateSessionValidation(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestMeeting(repo, &fakeMessageRepo{}, &fakeRouter{})

	_, err := svc.CreateSession(context.Background(), "T0001", "U0001", "  ", meetingParticipants())
	assert.ErrorIs(t, err, xerr.ErrParam)

	_, err = svc.CreateSession(context.Background(), "T0001", "U0001", "Standup", nil)
	assert.ErrorIs(t, err, xerr.ErrParam)

	session, err := svc.CreateSession(context.Background(), "T0001", "U0001", "Standup", meetingParticipants())
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionId)
	assert.Len(t, session.Participants(), 3)
}
