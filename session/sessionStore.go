package session

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"sync"

	"go-restaurant-tracker/client"
	"go-restaurant-tracker/helpers"
	"go-restaurant-tracker/models"
)

// Store owns the session: the bearer token and the normalized user, both in
// memory and in the persisted file. Nothing else reads or writes that file.
type Store struct {
	client *client.Client
	path   string

	mu      sync.Mutex
	current *models.Session
}

// persistedState mirrors the auth_token/auth_user keys the dashboard has
// always stored, so a file written by an older build still restores.
type persistedState struct {
	Auth_token string      `json:"auth_token"`
	Auth_user  models.User `json:"auth_user"`
}

func NewStore(c *client.Client, path string) *Store {
	return &Store{client: c, path: path}
}

// Login authenticates against the API, normalizes the role and persists the
// session. Errors pass through untouched so callers can tell an AuthError
// from ErrNetworkUnavailable.
func (s *Store) Login(ctx context.Context, email, password string) (*models.Session, error) {
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	sess := &models.Session{
		Token: res.Token,
		User: models.User{
			User_id:   res.User_id,
			Name:      res.Name,
			Email:     res.Email,
			User_type: res.User_type,
			Role:      models.NormalizeRole(res.User_type),
		},
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	s.client.SetToken(sess.Token)

	if err := s.persist(sess); err != nil {
		// the in-memory session is still good; only reloads lose it
		log.Printf("session: could not persist session file: %v", err)
	}
	return sess, nil
}

// Logout tells the API and then clears local state. Local state is cleared
// even when the remote call fails; the returned error is informational.
func (s *Store) Logout(ctx context.Context) error {
	var remoteErr error
	if s.client.Token() != "" {
		remoteErr = s.client.Logout(ctx)
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.client.SetToken("")
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		log.Printf("session: could not remove session file: %v", err)
	}
	return remoteErr
}

// Restore loads a persisted session on startup. A missing, corrupt or
// expired session file yields (nil, nil): not logged in, not an error.
func (s *Store) Restore() (*models.Session, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state persistedState
	if err := json.Unmarshal(raw, &state); err != nil || state.Auth_token == "" {
		log.Printf("session: discarding unreadable session file")
		os.Remove(s.path)
		return nil, nil
	}
	if helpers.TokenExpired(state.Auth_token) {
		log.Printf("session: stored token expired, discarding")
		os.Remove(s.path)
		return nil, nil
	}

	user := state.Auth_user
	if user.Role == "" {
		user.Role = models.NormalizeRole(user.User_type)
	}
	sess := &models.Session{Token: state.Auth_token, User: user}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	s.client.SetToken(sess.Token)
	return sess, nil
}

// Current returns the in-memory session, or nil when logged out.
func (s *Store) Current() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Store) persist(sess *models.Session) error {
	raw, err := json.MarshalIndent(persistedState{
		Auth_token: sess.Token,
		Auth_user:  sess.User,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}
