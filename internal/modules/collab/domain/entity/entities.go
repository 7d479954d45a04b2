package entity

import (
	"encoding/json"
	"time"
)

// Participant 会话参与者，可以是真人用户也可以是Agent
type Participant struct {
	Id       string     `json:"id"`
	Type     string     `json:"type"`
	Name     string     `json:"name"`
	Role     string     `json:"role,omitempty"`
	IsOnline bool       `json:"is_online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// 参与者/发言者类型
const (
	ParticipantUser  = "user"
	ParticipantAgent = "agent"
	SenderSystem     = "system"
)

// MeetingSettings 会议模式下的发言轮转状态
//
// meeting_mode 为 true 期间恒有 0 <= CurrentTurn < len(TurnOrder)
type MeetingSettings struct {
	TurnOrder   []string `json:"turnOrder"`
	CurrentTurn int      `json:"currentTurn"`
}

// CollabSession 协作会话
type CollabSession struct {
	Id               int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionId        string    `gorm:"type:char(20);uniqueIndex;not null" json:"session_id"`
	CompanyId        string    `gorm:"type:char(20);index;not null" json:"company_id"`
	Title            string    `gorm:"type:varchar(255);not null" json:"title"`
	ParticipantsJson string    `gorm:"type:text" json:"-"`
	MeetingMode      bool      `gorm:"not null;default:false" json:"meeting_mode"`
	SettingsJson     string    `gorm:"type:text" json:"-"`
	CreatedBy        string    `gorm:"type:char(20);not null" json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (CollabSession) TableName() string {
	return "collab_session"
}

// Participants 反序列化参与者列表，脏数据按空列表处理
func (s *CollabSession) Participants() []Participant {
	if s.ParticipantsJson == "" {
		return nil
	}
	var ps []Participant
	if err := json.Unmarshal([]byte(s.ParticipantsJson), &ps); err != nil {
		return nil
	}
	return ps
}

func (s *CollabSession) SetParticipants(ps []Participant) error {
	b, err := json.Marshal(ps)
	if err != nil {
		return err
	}
	s.ParticipantsJson = string(b)
	return nil
}

// Settings 反序列化会议设置，非会议模式或脏数据返回nil
func (s *CollabSession) Settings() *MeetingSettings {
	if s.SettingsJson == "" {
		return nil
	}
	var ms MeetingSettings
	if err := json.Unmarshal([]byte(s.SettingsJson), &ms); err != nil {
		return nil
	}
	return &ms
}

func (s *CollabSession) SetSettings(ms *MeetingSettings) error {
	if ms == nil {
		s.SettingsJson = ""
		return nil
	}
	b, err := json.Marshal(ms)
	if err != nil {
		return err
	}
	s.SettingsJson = string(b)
	return nil
}

// CollabMessage 会话转写记录
type CollabMessage struct {
	Id         int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	MessageId  string    `gorm:"type:char(20);uniqueIndex;not null" json:"message_id"`
	SessionId  string    `gorm:"type:char(20);index;not null" json:"session_id"`
	SenderId   string    `gorm:"type:char(20);not null" json:"sender_id"`
	SenderType string    `gorm:"type:varchar(16);not null" json:"sender_type"`
	Content    string    `gorm:"type:text" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func (CollabMessage) TableName() string {
	return "collab_message"
}
