package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/core/domain"
)

type stubAuditService struct {
	logs map[string][]domain.RequestLog
}

func (s *stubAuditService) Record(context.Context, *domain.RequestLog) error { return nil }

func (s *stubAuditService) ListByUsername(_ context.Context, username string) ([]domain.RequestLog, error) {
	if logs, ok := s.logs[username]; ok {
		return logs, nil
	}
	return []domain.RequestLog{}, nil
}

func TestAuditHandler_Logs(t *testing.T) {
	uid := int64(3)
	stub := &stubAuditService{logs: map[string][]domain.RequestLog{
		"alice": {
			{ID: 1, UserID: &uid, Username: "alice", URLPath: "/difference/2021-01-01/2022-01-01/", StatusCode: 200},
			{ID: 2, UserID: &uid, Username: "alice", URLPath: "/security/logs/alice/", StatusCode: 200},
		},
	}}

	tests := []struct {
		username string
		want     int
	}{
		{"alice", 2},
		{"nobody", 0},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			c.SetParamNames("username")
			c.SetParamValues(tt.username)

			if err := NewAuditHandler(stub).Logs(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}

			var resp []map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp == nil || len(resp) != tt.want {
				t.Fatalf("expected %d rows, got %v", tt.want, resp)
			}
		})
	}
}
