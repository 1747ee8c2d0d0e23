package auth

import (
	"context"
	"errors"

	"backend-hoursledger/internal/config"
)

// Resolver decides, per sign-in attempt, how submitted credentials are
// checked. The shipped policy is delegated-always: even when a local
// credential pair matches, the same credentials are forwarded to the real
// account store so a capability-bearing session exists. (The alternative of
// fabricating a client-only session on a local match would never satisfy
// owner-scoped data access and is deliberately not implemented.)
type Resolver interface {
	Resolve(ctx context.Context, svc *Service, email, password string) (SignInResult, error)
}

// DelegatedResolver checks an optional configured local pair first, then
// always delegates matching credentials to the stored account.
type DelegatedResolver struct {
	LocalEmail    string
	LocalPassword string

	// AutoProvision registers the local account and retries once when the
	// store rejects a locally matching pair. Development convenience only.
	AutoProvision bool
}

func NewResolver(cfg config.Config) DelegatedResolver {
	return DelegatedResolver{
		LocalEmail:    cfg.LocalUserEmail,
		LocalPassword: cfg.LocalUserPassword,
		AutoProvision: cfg.AutoCreateLocal,
	}
}

func (r DelegatedResolver) Resolve(ctx context.Context, svc *Service, email, password string) (SignInResult, error) {
	if r.LocalEmail == "" || r.LocalPassword == "" {
		return svc.delegate(ctx, email, password)
	}

	// A configured pair gates every attempt: mismatches fail fast without
	// touching the account store.
	if email != r.LocalEmail || password != r.LocalPassword {
		return SignInResult{}, ErrInvalidCredentials
	}

	res, err := svc.delegate(ctx, email, password)
	if errors.Is(err, ErrProviderAuth) && r.AutoProvision {
		if _, suErr := svc.SignUp(ctx, email, password); suErr != nil {
			svc.log.Warn("auto-provision sign-up failed")
		}
		return svc.delegate(ctx, email, password)
	}
	return res, err
}
