package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/core/domain"
)

func TestDateHandler_Difference(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		final    string
		wantBody string
		wantErr  error
	}{
		{name: "one year", initial: "2021-01-01", final: "2022-01-01", wantBody: `{"difference":"365 days"}`},
		{name: "leap day", initial: "2020-02-28", final: "2020-03-01", wantBody: `{"difference":"2 days"}`},
		{name: "equal dates", initial: "2021-05-05", final: "2021-05-05", wantErr: domain.ErrDateOrder},
		{name: "reversed", initial: "2022-01-01", final: "2021-01-01", wantErr: domain.ErrDateOrder},
		{name: "bad format", initial: "01-01-2021", final: "2022-01-01", wantErr: domain.ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			c.SetParamNames("initial_date", "final_date")
			c.SetParamValues(tt.initial, tt.final)

			err := NewDateHandler().Difference(c)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if got := rec.Body.String(); got != tt.wantBody+"\n" {
				t.Fatalf("expected %s, got %s", tt.wantBody, got)
			}
		})
	}
}
