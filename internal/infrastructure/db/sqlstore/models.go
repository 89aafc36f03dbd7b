package sqlstore

import (
	"time"

	"github.com/99minutos/users-api/internal/core/domain"
)

type userModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"size:150;not null;uniqueIndex:idx_users_username"`
	FirstName    string    `gorm:"size:150;not null"`
	LastName     string    `gorm:"size:150;not null"`
	Email        string    `gorm:"size:254;not null;uniqueIndex:idx_users_email"`
	PasswordHash string    `gorm:"size:128;not null"`
	IsStaff      bool      `gorm:"not null;default:false"`
	DateJoined   time.Time `gorm:"not null"`
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsStaff:      m.IsStaff,
		DateJoined:   m.DateJoined.UTC(),
	}
}

func userFromDomain(u *domain.User) *userModel {
	return &userModel{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsStaff:      u.IsStaff,
		DateJoined:   u.DateJoined,
	}
}

type requestLogModel struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	UserID      *int64     `gorm:"index"`
	User        *userModel `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Username    *string    `gorm:"size:120;index:idx_request_logs_username"`
	RequestedAt time.Time  `gorm:"not null;autoCreateTime"`
	Host        string     `gorm:"size:200;not null"`
	URLPath     string     `gorm:"size:200;not null"`
	ViewMethod  *string    `gorm:"size:200"`
	RemoteAddr  string     `gorm:"size:200;not null"`
	StatusCode  *int
}

func (requestLogModel) TableName() string { return "request_logs" }

func (m *requestLogModel) toDomain() domain.RequestLog {
	out := domain.RequestLog{
		ID:          m.ID,
		UserID:      m.UserID,
		RequestedAt: m.RequestedAt.UTC(),
		Host:        m.Host,
		URLPath:     m.URLPath,
		RemoteAddr:  m.RemoteAddr,
	}
	if m.Username != nil {
		out.Username = *m.Username
	}
	if m.ViewMethod != nil {
		out.ViewMethod = *m.ViewMethod
	}
	if m.StatusCode != nil {
		out.StatusCode = *m.StatusCode
	}
	return out
}

func requestLogFromDomain(e *domain.RequestLog) *requestLogModel {
	status := e.StatusCode
	m := &requestLogModel{
		UserID:     e.UserID,
		Host:       e.Host,
		URLPath:    e.URLPath,
		RemoteAddr: e.RemoteAddr,
		StatusCode: &status,
	}
	if e.Username != "" {
		username := e.Username
		m.Username = &username
	}
	if e.ViewMethod != "" {
		method := e.ViewMethod
		m.ViewMethod = &method
	}
	return m
}
