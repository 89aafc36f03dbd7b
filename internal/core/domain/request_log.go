package domain

import "time"

// RequestLog is one audit row per inbound HTTP request. Field order matches
// the JSON returned by the security log endpoint.
type RequestLog struct {
	ID          int64     `json:"id"`
	UserID      *int64    `json:"user"`
	Username    string    `json:"username" validate:"omitempty,max=120"`
	RequestedAt time.Time `json:"requested_at"`
	Host        string    `json:"host" validate:"required,max=200"`
	URLPath     string    `json:"url_path" validate:"required,max=200"`
	ViewMethod  string    `json:"view_method" validate:"omitempty,max=200"`
	RemoteAddr  string    `json:"remote_addr" validate:"required,max=200"`
	StatusCode  int       `json:"status_code" validate:"gte=0"`
}
