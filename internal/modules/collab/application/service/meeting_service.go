package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	agentService "OpsLink/internal/modules/agent/application/service"
	agentEntity "OpsLink/internal/modules/agent/domain/entity"
	"OpsLink/internal/modules/collab/domain/entity"
	"OpsLink/internal/modules/collab/domain/repository"
	"OpsLink/pkg/util"
	"OpsLink/pkg/ws"
	"OpsLink/pkg/xerr"
	"OpsLink/pkg/zlog"

	"go.uber.org/zap"
)

// 会议事件类型（ws广播）
const (
	EventMeetingStarted  = "meeting_started"
	EventTurnChanged     = "turn_changed"
	EventMeetingEnded    = "meeting_ended"
	EventMessageAppended = "message_appended"
)

// TurnState 轮转结果
type TurnState struct {
	SessionId   string `json:"session_id"`
	CurrentTurn int    `json:"current_turn"`
	HolderId    string `json:"holder_id"`
	HolderType  string `json:"holder_type"`
}

type MeetingService interface {
	CreateSession(ctx context.Context, companyId, userId, title string, participants []entity.Participant) (*entity.CollabSession, error)
	GetSessionList(ctx context.Context, companyId string, limit, offset int) ([]*entity.CollabSession, error)
	GetMessages(ctx context.Context, sessionId, companyId string, limit, offset int) ([]*entity.CollabMessage, error)
	StartMeetingMode(ctx context.Context, sessionId, companyId string) (*TurnState, error)
	NextMeetingTurn(ctx context.Context, sessionId, companyId string) (*TurnState, error)
	EndMeetingMode(ctx context.Context, sessionId, companyId string) error
}

type meetingServiceImpl struct {
	sessionRepo repository.CollabSessionRepository
	msgRepo     repository.CollabMessageRepository
	router      agentService.RouterService
	hub         *ws.Hub
}

func NewMeetingService(
	sessionRepo repository.CollabSessionRepository,
	msgRepo repository.CollabMessageRepository,
	router agentService.RouterService,
	hub *ws.Hub,
) MeetingService {
	return &meetingServiceImpl{
		sessionRepo: sessionRepo,
		msgRepo:     msgRepo,
		router:      router,
		hub:         hub,
	}
}

func (s *meetingServiceImpl) CreateSession(ctx context.Context, companyId, userId, title string, participants []entity.Participant) (*entity.CollabSession, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(participants) == 0 {
		return nil, xerr.ErrParam
	}

	session := &entity.CollabSession{
		SessionId: util.GenerateID("C"),
		CompanyId: companyId,
		Title:     title,
		CreatedBy: userId,
	}
	if err := session.SetParticipants(participants); err != nil {
		return nil, xerr.ErrParam
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		zlog.Error("collab session create error", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	return session, nil
}

func (s *meetingServiceImpl) GetSessionList(ctx context.Context, companyId string, limit, offset int) ([]*entity.CollabSession, error) {
	sessions, err := s.sessionRepo.ListSessions(ctx, companyId, limit, offset)
	if err != nil {
		zlog.Error("collab session list error", zap.String("company_id", companyId), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	return sessions, nil
}

func (s *meetingServiceImpl) GetMessages(ctx context.Context, sessionId, companyId string, limit, offset int) ([]*entity.CollabMessage, error) {
	session, err := s.loadSession(ctx, sessionId, companyId)
	if err != nil {
		return nil, err
	}

	msgs, err := s.msgRepo.ListMessages(ctx, session.SessionId, limit, offset)
	if err != nil {
		zlog.Error("collab message list error", zap.String("session_id", sessionId), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	return msgs, nil
}

// StartMeetingMode 开启会议模式
//
// 发言顺序取参与者列表顺序，当前轮次归零
func (s *meetingServiceImpl) StartMeetingMode(ctx context.Context, sessionId, companyId string) (*TurnState, error) {
	session, err := s.loadSession(ctx, sessionId, companyId)
	if err != nil {
		return nil, err
	}

	participants := session.Participants()
	if len(participants) == 0 {
		return nil, xerr.New(xerr.BadRequest, "会话没有参与者")
	}

	order := make([]string, 0, len(participants))
	for _, p := range participants {
		order = append(order, p.Id)
	}
	settings := &entity.MeetingSettings{TurnOrder: order, CurrentTurn: 0}
	if err := session.SetSettings(settings); err != nil {
		return nil, xerr.ErrServerError
	}

	err = s.sessionRepo.UpdateSession(ctx, session.SessionId, map[string]interface{}{
		"meeting_mode":  true,
		"settings_json": session.SettingsJson,
	})
	if err != nil {
		zlog.Error("meeting start update error", zap.String("session_id", sessionId), zap.Error(err))
		return nil, xerr.ErrServerError
	}

	state := s.turnState(session, participants, settings)
	s.broadcast(participants, EventMeetingStarted, state)
	return state, nil
}

// NextMeetingTurn 轮转到下一位发言者
//
// 新持有者若是Agent，则以会话标题构造提示触发一次RouteTask；
// 该调用是副作用，失败只记日志，不影响轮转本身
func (s *meetingServiceImpl) NextMeetingTurn(ctx context.Context, sessionId, companyId string) (*TurnState, error) {
	session, err := s.loadSession(ctx, sessionId, companyId)
	if err != nil {
		return nil, err
	}
	settings := session.Settings()
	if !session.MeetingMode || settings == nil || len(settings.TurnOrder) == 0 {
		return nil, xerr.New(xerr.BadRequest, "会话未处于会议模式")
	}

	settings.CurrentTurn = (settings.CurrentTurn + 1) % len(settings.TurnOrder)
	if err := session.SetSettings(settings); err != nil {
		return nil, xerr.ErrServerError
	}
	err = s.sessionRepo.UpdateSession(ctx, session.SessionId, map[string]interface{}{
		"settings_json": session.SettingsJson,
	})
	if err != nil {
		zlog.Error("meeting turn update error", zap.String("session_id", sessionId), zap.Error(err))
		return nil, xerr.ErrServerError
	}

	participants := session.Participants()
	state := s.turnState(session, participants, settings)
	s.broadcast(participants, EventTurnChanged, state)

	if holder := findParticipant(participants, state.HolderId); holder != nil && holder.Type == entity.ParticipantAgent {
		s.triggerAgentTurn(ctx, session, participants, holder)
	}
	return state, nil
}

// EndMeetingMode 结束会议模式并生成总结
//
// 总结走一次chief路由，结果作为system消息写入转写；失败被吞掉
func (s *meetingServiceImpl) EndMeetingMode(ctx context.Context, sessionId, companyId string) error {
	session, err := s.loadSession(ctx, sessionId, companyId)
	if err != nil {
		return err
	}
	if !session.MeetingMode {
		return xerr.New(xerr.BadRequest, "会话未处于会议模式")
	}

	err = s.sessionRepo.UpdateSession(ctx, session.SessionId, map[string]interface{}{
		"meeting_mode":  false,
		"settings_json": "",
	})
	if err != nil {
		zlog.Error("meeting end update error", zap.String("session_id", sessionId), zap.Error(err))
		return xerr.ErrServerError
	}

	participants := session.Participants()
	if s.router != nil {
		task := fmt.Sprintf("The meeting \"%s\" has ended. Summarize the key points and action items discussed.", session.Title)
		result := s.router.RouteTask(ctx, session.CompanyId, agentEntity.RoleChief, task)
		if result.Success {
			s.appendAndNotify(ctx, session, participants, &entity.CollabMessage{
				SessionId:  session.SessionId,
				SenderId:   entity.SenderSystem,
				SenderType: entity.SenderSystem,
				Content:    result.Response,
			})
		} else {
			zlog.Warn("meeting summary failed", zap.String("session_id", sessionId), zap.String("error", result.Error))
		}
	}

	s.broadcast(participants, EventMeetingEnded, map[string]interface{}{
		"session_id": session.SessionId,
		"ended_at":   time.Now(),
	})
	return nil
}

func (s *meetingServiceImpl) loadSession(ctx context.Context, sessionId, companyId string) (*entity.CollabSession, error) {
	session, err := s.sessionRepo.GetSessionByID(ctx, sessionId, companyId)
	if err != nil {
		zlog.Error("collab session lookup error", zap.String("session_id", sessionId), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if session == nil {
		return nil, xerr.ErrNotFound
	}
	return session, nil
}

func (s *meetingServiceImpl) turnState(session *entity.CollabSession, participants []entity.Participant, settings *entity.MeetingSettings) *TurnState {
	state := &TurnState{
		SessionId:   session.SessionId,
		CurrentTurn: settings.CurrentTurn,
	}
	if settings.CurrentTurn < len(settings.TurnOrder) {
		state.HolderId = settings.TurnOrder[settings.CurrentTurn]
	}
	if p := findParticipant(participants, state.HolderId); p != nil {
		state.HolderType = p.Type
	}
	return state
}

// triggerAgentTurn 轮到Agent发言时触发一次任务路由并写入转写
func (s *meetingServiceImpl) triggerAgentTurn(ctx context.Context, session *entity.CollabSession, participants []entity.Participant, holder *entity.Participant) {
	if s.router == nil || holder.Role == "" {
		return
	}

	task := fmt.Sprintf("You are participating in the meeting \"%s\". It is your turn to speak. Provide your perspective.", session.Title)
	result := s.router.RouteTask(ctx, session.CompanyId, holder.Role, task)
	if !result.Success {
		zlog.Warn("agent turn dispatch failed",
			zap.String("session_id", session.SessionId),
			zap.String("role", holder.Role),
			zap.String("error", result.Error))
		return
	}

	s.appendAndNotify(ctx, session, participants, &entity.CollabMessage{
		SessionId:  session.SessionId,
		SenderId:   holder.Id,
		SenderType: entity.ParticipantAgent,
		Content:    result.Response,
	})
}

func (s *meetingServiceImpl) appendAndNotify(ctx context.Context, session *entity.CollabSession, participants []entity.Participant, m *entity.CollabMessage) {
	if err := s.msgRepo.AppendMessage(ctx, m); err != nil {
		zlog.Error("collab message append error", zap.String("session_id", session.SessionId), zap.Error(err))
		return
	}
	s.broadcast(participants, EventMessageAppended, m)
}

// broadcast 仅向真人参与者推送事件
func (s *meetingServiceImpl) broadcast(participants []entity.Participant, event string, payload interface{}) {
	if s.hub == nil {
		return
	}
	var userIDs []string
	for _, p := range participants {
		if p.Type == entity.ParticipantUser {
			userIDs = append(userIDs, p.Id)
		}
	}
	if len(userIDs) == 0 {
		return
	}
	s.hub.Broadcast(userIDs, map[string]interface{}{
		"type": event,
		"data": payload,
	})
}

func findParticipant(participants []entity.Participant, id string) *entity.Participant {
	for i := range participants {
		if participants[i].Id == id {
			return &participants[i]
		}
	}
	return nil
}
