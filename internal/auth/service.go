package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend-hoursledger/internal/db"
	"backend-hoursledger/internal/events"
	"backend-hoursledger/internal/observability"
	"backend-hoursledger/internal/session"
	"backend-hoursledger/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 24 * time.Hour

type Service struct {
	secret   []byte
	db       db.Querier
	sessions *session.Store
	hub      *events.Hub
	log      *zap.Logger
	resolver Resolver
}

type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, querier db.Querier, sessions *session.Store, hub *events.Hub, resolver Resolver, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		secret:   []byte(secret),
		db:       querier,
		sessions: sessions,
		hub:      hub,
		log:      log,
		resolver: resolver,
	}
}

// SignIn authenticates a credential pair and issues a fresh session. The
// resolver decides whether the stored account is consulted at all; a local
// pair mismatch fails fast with ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	res, err := s.resolver.Resolve(ctx, s, email, password)
	if err != nil {
		observability.RecordSignIn(signInOutcome(err))
		s.log.Warn("sign-in failed",
			zap.String(logger.FieldOperation, "sign_in"),
			zap.Error(err))
		return SignInResult{}, err
	}

	observability.RecordSignIn("success")
	s.hub.Publish(res.User.ID, events.Event{Type: events.TypeSignedIn})
	s.log.Info("sign-in",
		zap.String(logger.FieldUserID, res.User.ID),
		zap.String(logger.FieldSessionID, res.Session.ID))
	return res, nil
}

// delegate performs the real provider sign-in: account lookup, password
// check, session issuance, token signing.
func (s *Service) delegate(ctx context.Context, email, password string) (SignInResult, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users WHERE email = $1
	`, email)

	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SignInResult{}, ErrProviderAuth
		}
		return SignInResult{}, fmt.Errorf("%w: %v", ErrUnexpectedAuth, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return SignInResult{}, ErrProviderAuth
	}

	sess, err := s.sessions.Create(ctx, user.ID, user.Email)
	if err != nil {
		return SignInResult{}, fmt.Errorf("%w: %v", ErrUnexpectedAuth, err)
	}

	token, err := s.signToken(user.ID, sess.ID)
	if err != nil {
		return SignInResult{}, fmt.Errorf("%w: %v", ErrUnexpectedAuth, err)
	}

	return SignInResult{
		User:    user,
		Session: sess,
		Tokens: TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(accessTokenTTL.Seconds()),
		},
	}, nil
}

// SignUp provisions an account. Used by the register endpoint and by the
// resolver's auto-provision retry.
func (s *Service) SignUp(ctx context.Context, email, password string) (User, error) {
	if email == "" || password == "" {
		return User{}, errors.New("email and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1,$2,$3)
		RETURNING created_at
	`, user.ID, user.Email, user.PasswordHash)
	if err := row.Scan(&user.CreatedAt); err != nil {
		return User{}, err
	}
	return user, nil
}

// SignOut terminates the session. Best-effort: store failures are swallowed
// and the caller always observes a signed-out state.
func (s *Service) SignOut(ctx context.Context, sessionID string) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err == nil {
		s.hub.Publish(sess.UserID, events.Event{Type: events.TypeSignedOut})
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.log.Warn("session delete failed",
			zap.String(logger.FieldSessionID, sessionID),
			zap.Error(err))
	}
}

// CurrentSession answers the explicit "get current session" query.
func (s *Service) CurrentSession(ctx context.Context, sessionID string) (session.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

// Validate parses a bearer token and confirms its session handle is still
// live, so sign-out actually revokes access.
func (s *Service) Validate(ctx context.Context, token string) (session.Session, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return session.Session{}, err
	}
	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return session.Session{}, err
	}
	if sess.UserID != claims.UserID {
		return session.Session{}, errors.New("token invalid")
	}
	return sess, nil
}

func (s *Service) signToken(userID, sessionID string) (string, error) {
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func signInOutcome(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrProviderAuth):
		return "rejected"
	default:
		return "error"
	}
}
