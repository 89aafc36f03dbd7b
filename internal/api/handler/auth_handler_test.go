package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/api/middleware"
	"github.com/99minutos/users-api/internal/core/domain"
)

type stubAuthService struct {
	signupFn  func(ctx context.Context, in domain.SignupInput) (*domain.User, error)
	loginFn   func(ctx context.Context, username, password string) (*domain.LoginResult, error)
	logoutFn  func(ctx context.Context, user *domain.User) error
	refreshFn func(ctx context.Context, refreshToken string) (string, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in domain.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, user *domain.User) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, user)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrTokenInvalid
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const aliceSignupBody = `{"email":"alice@example.com","username":"alice","password":"s3cretpass","password_confirmation":"s3cretpass","first_name":"Alice","last_name":"Liddell"}`

func TestAuthHandler_Signup_Success(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(_ context.Context, in domain.SignupInput) (*domain.User, error) {
			if in.Username != "alice" || in.Email != "alice@example.com" || in.PasswordConfirmation != "s3cretpass" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 1, Username: in.Username, Email: in.Email, FirstName: in.FirstName, LastName: in.LastName}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/users/signup/", aliceSignupBody)

	if err := NewAuthHandler(stub).Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	want := map[string]any{"username": "alice", "email": "alice@example.com", "first_name": "Alice", "last_name": "Liddell"}
	if len(resp) != len(want) {
		t.Fatalf("unexpected profile keys: %+v", resp)
	}
	for k, v := range want {
		if resp[k] != v {
			t.Fatalf("expected %s=%v, got %v", k, v, resp[k])
		}
	}
}

func TestAuthHandler_Signup_TrimsFields(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(_ context.Context, in domain.SignupInput) (*domain.User, error) {
			if in.Username != "alice" || in.FirstName != "Alice" {
				t.Fatalf("fields not trimmed: %+v", in)
			}
			return &domain.User{Username: in.Username}, nil
		},
	}
	body := strings.Replace(aliceSignupBody, `"alice"`, `"  alice  "`, 1)
	body = strings.Replace(body, `"Alice"`, `" Alice "`, 1)
	c, _ := newJSONContext(http.MethodPost, "/users/signup/", body)

	if err := NewAuthHandler(stub).Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthHandler_Signup_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"missing email", `{"username":"alice","password":"s3cretpass","password_confirmation":"s3cretpass","first_name":"Al","last_name":"Li"}`, "email", domain.MsgRequired},
		{"blank username", strings.Replace(aliceSignupBody, `"alice"`, `"   "`, 1), "username", domain.MsgBlank},
		{"short username", strings.Replace(aliceSignupBody, `"alice"`, `"ali"`, 1), "username", "Ensure this field has at least 4 characters."},
		{"long first name", strings.Replace(aliceSignupBody, `"Alice"`, `"`+strings.Repeat("a", 31)+`"`, 1), "first_name", "Ensure this field has no more than 30 characters."},
		{"bad email", strings.Replace(aliceSignupBody, `alice@example.com`, `not-an-email`, 1), "email", domain.MsgInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAuthService{
				signupFn: func(context.Context, domain.SignupInput) (*domain.User, error) {
					t.Fatalf("service must not be called")
					return nil, nil
				},
			}
			c, _ := newJSONContext(http.MethodPost, "/users/signup/", tt.body)

			err := NewAuthHandler(stub).Signup(c)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			msgs := verr.Fields[tt.field]
			if len(msgs) != 1 || msgs[0] != tt.msg {
				t.Fatalf("expected %s: [%q], got %v", tt.field, tt.msg, verr.Fields)
			}
		})
	}
}

func TestAuthHandler_Signup_EmptyBodyReportsEveryField(t *testing.T) {
	c, _ := newJSONContext(http.MethodPost, "/users/signup/", "")

	err := NewAuthHandler(&stubAuthService{}).Signup(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"email", "username", "password", "password_confirmation", "first_name", "last_name"} {
		if msgs := verr.Fields[field]; len(msgs) != 1 || msgs[0] != domain.MsgRequired {
			t.Fatalf("expected %s to be required, got %v", field, verr.Fields)
		}
	}
}

func TestAuthHandler_Signup_MalformedJSON(t *testing.T) {
	c, _ := newJSONContext(http.MethodPost, "/users/signup/", `{"username":`)

	err := NewAuthHandler(&stubAuthService{}).Signup(c)
	if !errors.Is(err, domain.ErrMalformedBody) {
		t.Fatalf("expected ErrMalformedBody, got %v", err)
	}
}

func TestAuthHandler_Signup_ServiceError(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(context.Context, domain.SignupInput) (*domain.User, error) {
			verr := domain.NewValidationError()
			verr.Add("username", domain.MsgNotUnique)
			return nil, verr
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/users/signup/", aliceSignupBody)

	err := NewAuthHandler(stub).Signup(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields["username"][0] != domain.MsgNotUnique {
		t.Fatalf("expected uniqueness error, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*domain.LoginResult, error) {
			if username != "alice" || password != "s3cretpass" {
				t.Fatalf("unexpected credentials: %s %s", username, password)
			}
			return &domain.LoginResult{
				User:   &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"},
				Tokens: domain.TokenPair{Access: "access-token", Refresh: "refresh-token"},
			}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/users/login/", `{"username":"alice","password":"s3cretpass"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Access != "access-token" || resp.Refresh != "refresh-token" || resp.User.Username != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/users/login/", `{"username":"alice","password":"wrongpass"}`)

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_ShortPassword(t *testing.T) {
	c, _ := newJSONContext(http.MethodPost, "/users/login/", `{"username":"alice","password":"short"}`)

	err := NewAuthHandler(&stubAuthService{}).Login(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["password"]; !ok {
		t.Fatalf("expected password error, got %v", verr.Fields)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var loggedOut *domain.User
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, user *domain.User) error {
			loggedOut = user
			return nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/users/logout/", "")
	c.Set(middleware.UserKey, &domain.User{ID: 7, Username: "alice"})

	if err := NewAuthHandler(stub).Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if loggedOut == nil || loggedOut.ID != 7 {
		t.Fatalf("logout not forwarded: %+v", loggedOut)
	}
	if !strings.Contains(rec.Body.String(), `"success":"Session closed."`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Logout_Anonymous(t *testing.T) {
	c, _ := newJSONContext(http.MethodPost, "/users/logout/", "")

	if err := NewAuthHandler(&stubAuthService{}).Logout(c); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, token string) (string, error) {
			if token != "refresh-token" {
				return "", domain.ErrRefreshTokenInvalid
			}
			return "new-access", nil
		},
	}

	t.Run("valid", func(t *testing.T) {
		c, rec := newJSONContext(http.MethodPost, "/users/token/refresh/", `{"refresh":"refresh-token"}`)
		if err := NewAuthHandler(stub).Refresh(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if !strings.Contains(rec.Body.String(), `"access":"new-access"`) {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("invalid", func(t *testing.T) {
		c, _ := newJSONContext(http.MethodPost, "/users/token/refresh/", `{"refresh":"garbage"}`)
		if err := NewAuthHandler(stub).Refresh(c); !errors.Is(err, domain.ErrRefreshTokenInvalid) {
			t.Fatalf("expected ErrRefreshTokenInvalid, got %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		c, _ := newJSONContext(http.MethodPost, "/users/token/refresh/", `{}`)
		var verr *domain.ValidationError
		if err := NewAuthHandler(stub).Refresh(c); !errors.As(err, &verr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}
