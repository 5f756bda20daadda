// Package auth gates the dashboard behind one shared access key and tracks
// per-session state: the detector sensitivity and the last completed run.
// There is one identity; sessions only scope settings, not permissions.
package auth

import (
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"certifier/internal/audit"
	dErrors "certifier/pkg/domain-errors"
	"certifier/pkg/sentinel"
)

// Sensitivity bounds accepted from the session settings endpoint.
const (
	MinSensitivity = 0.01
	MaxSensitivity = 0.20
)

// Session is the per-token state. Fields are read and written only through
// Service methods, which hold the lock.
type Session struct {
	ID          string
	CreatedAt   time.Time
	Sensitivity float64
	LastResult  *audit.Result
}

// Service verifies the shared access key and owns the in-memory session
// store. Wrong keys are recoverable indefinitely: no lockout, no rate cap.
type Service struct {
	accessKey          []byte
	defaultSensitivity float64

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewService(accessKey string, defaultSensitivity float64) *Service {
	if defaultSensitivity < MinSensitivity || defaultSensitivity > MaxSensitivity {
		defaultSensitivity = 0.05
	}
	return &Service{
		accessKey:          []byte(accessKey),
		defaultSensitivity: defaultSensitivity,
		sessions:           make(map[string]*Session),
	}
}

// Login compares the submitted key in constant time and, on success, issues
// an opaque bearer token backed by a fresh session.
func (s *Service) Login(key string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(key), s.accessKey) != 1 {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid access key")
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = &Session{
		ID:          token,
		CreatedAt:   time.Now(),
		Sensitivity: s.defaultSensitivity,
	}
	s.mu.Unlock()
	return token, nil
}

// Logout discards the session. Unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Validate implements middleware.SessionValidator.
func (s *Service) Validate(token string) (string, error) {
	s.mu.RLock()
	_, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("session %w", sentinel.ErrNotFound)
	}
	return token, nil
}

// Sensitivity returns the session's detector sensitivity.
func (s *Service) Sensitivity(token string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "session expired")
	}
	return sess.Sensitivity, nil
}

// SetSensitivity updates the session-scoped sensitivity. Values outside
// [0.01, 0.20] are rejected rather than clamped so the operator sees the
// boundary instead of a silent adjustment.
func (s *Service) SetSensitivity(token string, v float64) error {
	if v < MinSensitivity || v > MaxSensitivity {
		return dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("sensitivity must be between %.2f and %.2f", MinSensitivity, MaxSensitivity))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "session expired")
	}
	sess.Sensitivity = v
	return nil
}

// StoreResult records the session's last completed run for the export
// endpoints.
func (s *Service) StoreResult(token string, result *audit.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "session expired")
	}
	sess.LastResult = result
	return nil
}

// LastResult returns the session's last completed run, or
// sentinel.ErrNoCompletedRun when none exists yet.
func (s *Service) LastResult(token string) (*audit.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session expired")
	}
	if sess.LastResult == nil {
		return nil, dErrors.Wrap(dErrors.CodeNotFound, "no completed audit run in this session", sentinel.ErrNoCompletedRun)
	}
	return sess.LastResult, nil
}
