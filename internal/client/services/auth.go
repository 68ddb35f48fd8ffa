// Package services contains application services for the BabelX client.
// This file defines the authentication service: local sign-up and login,
// the remembered session, password changes and the encrypted profile.
package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/babelx/internal/client/models"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/securestore"
	"github.com/dmitrijs2005/babelx/internal/common"
	"github.com/dmitrijs2005/babelx/internal/cryptox"
)

const sessionKey = "session/current"

func saltKey(user string) string     { return "account/" + user + "/salt" }
func verifierKey(user string) string { return "account/" + user + "/verifier" }
func profileName(user string) string { return user + "/profile" }
func secureScope(user string) string { return user + "/" }

// Session is a logged-in user together with the master key derived from
// their password. Secure values of the user are read through Secure.
type Session struct {
	User   string
	Key    []byte
	Secure *securestore.Store
}

// Close wipes the master key. The session must not be used afterwards.
func (s *Session) Close() {
	if s == nil {
		return
	}
	common.WipeByteArray(s.Key)
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignUp: create a local account; fails with common.ErrAccountExists.
//   - Login: verify the password, remember the user, return a Session.
//   - Logout: forget the remembered user.
//   - CurrentUser: the remembered user or common.ErrNoSession.
//   - ChangePassword: verify the old password and re-encrypt the user's
//     secure values under the new one.
//   - SaveProfile / Profile: the encrypted profile of the session user.
type AuthService interface {
	SignUp(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) (*Session, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (string, error)
	ChangePassword(ctx context.Context, s *Session, oldPassword, newPassword []byte) (*Session, error)
	SaveProfile(ctx context.Context, s *Session, p models.Profile) error
	Profile(ctx context.Context, s *Session) (models.Profile, error)
}

// authService keeps accounts in the key-value store: a random salt and a
// verifier of the argon2id master key per user. Passwords are never stored.
type authService struct {
	kv kvstore.Store
}

func NewAuthService(kv kvstore.Store) AuthService {
	return &authService{kv: kv}
}

func validateUsername(u string) error {
	if u == "" || strings.ContainsAny(u, " \t\n/") {
		return fmt.Errorf("%w: username must be non-empty without spaces or '/'", common.ErrorInvalidInput)
	}
	return nil
}

// SignUp generates a salt, derives the master key and stores its verifier.
func (a *authService) SignUp(ctx context.Context, username string, password []byte) error {
	if err := validateUsername(username); err != nil {
		return err
	}
	if len(password) == 0 {
		return fmt.Errorf("%w: password is required", common.ErrorInvalidInput)
	}

	existing, err := a.kv.Get(ctx, saltKey(username))
	if err != nil {
		return fmt.Errorf("account lookup error: %w", err)
	}
	if existing != nil {
		return common.ErrAccountExists
	}

	salt := common.GenerateRandByteArray(32)
	key := cryptox.DeriveMasterKey(password, salt)
	defer common.WipeByteArray(key)

	return kvstore.SetAll(ctx, a.kv, map[string][]byte{
		saltKey(username):     salt,
		verifierKey(username): cryptox.MakeVerifier(key),
	})
}

// verify derives the master key from password and checks it against the
// stored verifier. Unknown users and wrong passwords both yield
// common.ErrorUnauthorized.
func (a *authService) verify(ctx context.Context, username string, password []byte) ([]byte, error) {
	salt, err := a.kv.Get(ctx, saltKey(username))
	if err != nil {
		return nil, fmt.Errorf("account lookup error: %w", err)
	}
	verifier, err := a.kv.Get(ctx, verifierKey(username))
	if err != nil {
		return nil, fmt.Errorf("account lookup error: %w", err)
	}
	if salt == nil || verifier == nil {
		return nil, common.ErrorUnauthorized
	}

	candidate := cryptox.DeriveMasterKey(password, salt)
	if subtle.ConstantTimeCompare(verifier, cryptox.MakeVerifier(candidate)) == 0 {
		common.WipeByteArray(candidate)
		return nil, common.ErrorUnauthorized
	}
	return candidate, nil
}

func (a *authService) Login(ctx context.Context, username string, password []byte) (*Session, error) {
	key, err := a.verify(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := a.kv.Set(ctx, sessionKey, []byte(username)); err != nil {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return &Session{User: username, Key: key, Secure: securestore.New(a.kv, key)}, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.kv.Delete(ctx, sessionKey)
}

func (a *authService) CurrentUser(ctx context.Context) (string, error) {
	v, err := a.kv.Get(ctx, sessionKey)
	if err != nil {
		return "", err
	}
	if len(v) == 0 {
		return "", common.ErrNoSession
	}
	return string(v), nil
}

// ChangePassword re-seals the user's secure values and replaces salt and
// verifier in one batch. The old session is closed on success.
func (a *authService) ChangePassword(ctx context.Context, s *Session, oldPassword, newPassword []byte) (*Session, error) {
	if s == nil {
		return nil, common.ErrNoSession
	}
	if len(oldPassword) == 0 || len(newPassword) == 0 {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrorInvalidInput)
	}
	if subtle.ConstantTimeCompare(oldPassword, newPassword) == 1 {
		return nil, fmt.Errorf("%w: new password must be different", common.ErrorInvalidInput)
	}

	oldKey, err := a.verify(ctx, s.User, oldPassword)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(oldKey)

	salt := common.GenerateRandByteArray(32)
	newKey := cryptox.DeriveMasterKey(newPassword, salt)

	batch, err := securestore.New(a.kv, oldKey).Reseal(ctx, secureScope(s.User), newKey)
	if err != nil {
		common.WipeByteArray(newKey)
		return nil, err
	}
	batch[saltKey(s.User)] = salt
	batch[verifierKey(s.User)] = cryptox.MakeVerifier(newKey)

	if err := kvstore.SetAll(ctx, a.kv, batch); err != nil {
		common.WipeByteArray(newKey)
		return nil, fmt.Errorf("password saving error: %w", err)
	}

	s.Close()
	return &Session{User: s.User, Key: newKey, Secure: securestore.New(a.kv, newKey)}, nil
}

func (a *authService) SaveProfile(ctx context.Context, s *Session, p models.Profile) error {
	if s == nil {
		return common.ErrNoSession
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorInvalidInput, err)
	}
	return s.Secure.SetJSON(ctx, profileName(s.User), p)
}

// Profile returns the saved profile, or a zero Profile when none exists.
func (a *authService) Profile(ctx context.Context, s *Session) (models.Profile, error) {
	if s == nil {
		return models.Profile{}, common.ErrNoSession
	}
	var p models.Profile
	if _, err := s.Secure.GetJSON(ctx, profileName(s.User), &p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}
