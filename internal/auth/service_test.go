package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-hoursledger/internal/session"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, resolver Resolver) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	if resolver == nil {
		resolver = DelegatedResolver{}
	}
	return NewService("test-secret", mock, session.NewStore(nil), nil, resolver, nil), mock
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func expectUserSelect(mock pgxmock.PgxPoolIface, email, hash string) {
	mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
		WithArgs(email).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("user-1", email, hash, time.Now()))
}

func TestSignUp(t *testing.T) {
	svc, mock := newTestService(t, nil)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "owner@example.com", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	user, err := svc.SignUp(context.Background(), "owner@example.com", "hunter2")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if user.ID == "" || user.Email != "owner@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSignUpMissingFields(t *testing.T) {
	svc, _ := newTestService(t, nil)
	if _, err := svc.SignUp(context.Background(), "", ""); err == nil {
		t.Fatalf("expected error for empty credentials")
	}
}

func TestSignInSuccess(t *testing.T) {
	svc, mock := newTestService(t, nil)
	expectUserSelect(mock, "owner@example.com", hashOf(t, "hunter2"))

	res, err := svc.SignIn(context.Background(), "owner@example.com", "hunter2")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if res.Session.ID == "" || res.Session.UserID != "user-1" {
		t.Fatalf("expected provider-issued session, got %+v", res.Session)
	}
	if res.Tokens.AccessToken == "" || res.Tokens.TokenType != "Bearer" {
		t.Fatalf("expected bearer token")
	}

	// Token resolves back to the live session.
	sess, err := svc.Validate(context.Background(), res.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if sess.ID != res.Session.ID {
		t.Fatalf("session mismatch")
	}
}

func TestSignInUnknownEmail(t *testing.T) {
	svc, mock := newTestService(t, nil)
	mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.SignIn(context.Background(), "nobody@example.com", "x")
	if !errors.Is(err, ErrProviderAuth) {
		t.Fatalf("expected ErrProviderAuth, got %v", err)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	svc, mock := newTestService(t, nil)
	expectUserSelect(mock, "owner@example.com", hashOf(t, "hunter2"))

	_, err := svc.SignIn(context.Background(), "owner@example.com", "wrong")
	if !errors.Is(err, ErrProviderAuth) {
		t.Fatalf("expected ErrProviderAuth, got %v", err)
	}
}

func TestSignInTransportFailure(t *testing.T) {
	svc, mock := newTestService(t, nil)
	mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
		WithArgs("owner@example.com").
		WillReturnError(errors.New("connection refused"))

	_, err := svc.SignIn(context.Background(), "owner@example.com", "hunter2")
	if !errors.Is(err, ErrUnexpectedAuth) {
		t.Fatalf("expected ErrUnexpectedAuth, got %v", err)
	}
}

func TestLocalPairMismatchSkipsProvider(t *testing.T) {
	resolver := DelegatedResolver{LocalEmail: "owner@example.com", LocalPassword: "hunter2"}
	svc, mock := newTestService(t, resolver)

	_, err := svc.SignIn(context.Background(), "owner@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// No expectations were registered: any provider call would have failed
	// the mock, so a clean pass proves the store was never consulted.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("provider was consulted on local mismatch: %v", err)
	}
}

func TestLocalPairMatchDelegates(t *testing.T) {
	resolver := DelegatedResolver{LocalEmail: "owner@example.com", LocalPassword: "hunter2"}
	svc, mock := newTestService(t, resolver)
	expectUserSelect(mock, "owner@example.com", hashOf(t, "hunter2"))

	res, err := svc.SignIn(context.Background(), "owner@example.com", "hunter2")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if res.Session.UserID != "user-1" {
		t.Fatalf("expected delegated session, got %+v", res.Session)
	}
}

func TestAutoProvisionRetry(t *testing.T) {
	resolver := DelegatedResolver{
		LocalEmail:    "owner@example.com",
		LocalPassword: "hunter2",
		AutoProvision: true,
	}
	svc, mock := newTestService(t, resolver)

	mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
		WithArgs("owner@example.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "owner@example.com", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	expectUserSelect(mock, "owner@example.com", hashOf(t, "hunter2"))

	res, err := svc.SignIn(context.Background(), "owner@example.com", "hunter2")
	if err != nil {
		t.Fatalf("expected auto-provision retry to succeed: %v", err)
	}
	if res.User.Email != "owner@example.com" {
		t.Fatalf("unexpected user %+v", res.User)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAutoProvisionSingleRetry(t *testing.T) {
	resolver := DelegatedResolver{
		LocalEmail:    "owner@example.com",
		LocalPassword: "hunter2",
		AutoProvision: true,
	}
	svc, mock := newTestService(t, resolver)

	mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
		WithArgs("owner@example.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "owner@example.com", pgxmock.AnyArg()).
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
		WithArgs("owner@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.SignIn(context.Background(), "owner@example.com", "hunter2")
	if !errors.Is(err, ErrProviderAuth) {
		t.Fatalf("expected ErrProviderAuth after single retry, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected exactly one retry: %v", err)
	}
}

func TestSignOutRevokes(t *testing.T) {
	svc, mock := newTestService(t, nil)
	expectUserSelect(mock, "owner@example.com", hashOf(t, "hunter2"))

	res, err := svc.SignIn(context.Background(), "owner@example.com", "hunter2")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	svc.SignOut(context.Background(), res.Session.ID)

	if _, err := svc.Validate(context.Background(), res.Tokens.AccessToken); err == nil {
		t.Fatalf("expected token rejected after sign-out")
	}
	if _, err := svc.CurrentSession(context.Background(), res.Session.ID); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}

func TestSignOutUnknownSession(t *testing.T) {
	svc, _ := newTestService(t, nil)
	svc.SignOut(context.Background(), "no-such-session")
}

func TestValidateGarbageToken(t *testing.T) {
	svc, _ := newTestService(t, nil)
	if _, err := svc.Validate(context.Background(), "not-a-jwt"); err == nil {
		t.Fatalf("expected parse error")
	}
}
