package auth

import (
	"CiviPortal/internal/logger"
	"CiviPortal/internal/serviceiface"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

type UserSession struct {
	SessionID     string `json:"session_id"`
	UserID        string `json:"user_id"`
	TenantID      string `json:"tenant_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	LastLoginTime string `json:"last_login_time"`
	ClientIP      string `json:"client_ip"`
	IsLoggedIn    bool   `json:"is_logged_in"`
}

type AuthService struct {
	db             *sql.DB
	maxUsers       int
	sessionTimeout time.Duration
	sessions       map[string]*UserSession
	byUserID       map[string]*UserSession
	mu             sync.Mutex
	stopCh         chan struct{}
}

func NewAuthService(db *sql.DB, maxUsers, sessionTimeoutMinutes int) serviceiface.Service {
	if maxUsers <= 0 {
		maxUsers = 200
	}
	if sessionTimeoutMinutes <= 0 {
		sessionTimeoutMinutes = 8 * 60
	}
	return &AuthService{
		db:             db,
		maxUsers:       maxUsers,
		sessionTimeout: time.Duration(sessionTimeoutMinutes) * time.Minute,
		sessions:       make(map[string]*UserSession),
		byUserID:       make(map[string]*UserSession),
		stopCh:         make(chan struct{}),
	}
}

func (a *AuthService) Name() string { return "auth" }

func (a *AuthService) Start() error {
	go a.sessionCleaner()
	return nil
}

func (a *AuthService) Stop() error {
	close(a.stopCh)
	return nil
}

// Login authenticates a city staff account against the users table and
// returns an in-memory session. A user already logged in gets their existing
// session back rather than a second one, but only after the password check
// passes again.
func (a *AuthService) Login(email, password, clientIP string) (*UserSession, error) {
	var (
		userID, tenantID, name string
		role, status           sql.NullString
	)
	query := `
    SELECT u.id, u.tenant_id, u.display_name, u.role, u.status
    FROM users u
    WHERE u.email = $1 AND u.password_hash = crypt($2, u.password_hash)
    `
	err := a.db.QueryRow(query, email, password).Scan(&userID, &tenantID, &name, &role, &status)
	if err != nil {
		return nil, errors.New("invalid credentials or user not found")
	}
	if status.Valid && status.String != "active" {
		return nil, errors.New("account is not active")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if session, ok := a.byUserID[userID]; ok && session.IsLoggedIn {
		session.LastLoginTime = time.Now().Format(time.RFC3339)
		session.ClientIP = clientIP
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("User %s re-logged in, returning existing session", email))
		}
		return session, nil
	}

	if len(a.sessions) >= a.maxUsers {
		return nil, errors.New("maximum concurrent users reached")
	}

	session := &UserSession{
		SessionID:     generateSessionID(),
		UserID:        userID,
		TenantID:      tenantID,
		Name:          name,
		Email:         email,
		Role:          role.String,
		LastLoginTime: time.Now().Format(time.RFC3339),
		ClientIP:      clientIP,
		IsLoggedIn:    true,
	}
	a.sessions[session.SessionID] = session
	a.byUserID[userID] = session

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("User logged in: " + email)
	}
	return session, nil
}

func (a *AuthService) Logout(sessionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	session, exists := a.sessions[sessionID]
	if !exists {
		return errors.New("session not found")
	}
	delete(a.sessions, sessionID)
	delete(a.byUserID, session.UserID)

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("User logged out: " + session.UserID)
	}
	return nil
}

var globalAuthService *AuthService

// SetGlobalAuthService sets the global AuthService instance
func SetGlobalAuthService(svc *AuthService) {
	globalAuthService = svc
}

// GetActiveSessions returns active sessions from the global AuthService
func GetActiveSessions() []*UserSession {
	if globalAuthService == nil {
		return nil
	}
	return globalAuthService.GetActiveSessions()
}

// SessionForUser returns the active session for a user id, or nil.
func SessionForUser(userID string) *UserSession {
	if globalAuthService == nil {
		return nil
	}
	return globalAuthService.SessionForUser(userID)
}

func (a *AuthService) GetActiveSessions() []*UserSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	sessions := make([]*UserSession, 0, len(a.sessions))
	for _, s := range a.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

func (a *AuthService) SessionForUser(userID string) *UserSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.byUserID[userID]
}

// sessionCleaner drops sessions idle past the configured timeout.
func (a *AuthService) sessionCleaner() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			a.mu.Lock()
			cutoff := time.Now().Add(-a.sessionTimeout)
			for id, s := range a.sessions {
				last, err := time.Parse(time.RFC3339, s.LastLoginTime)
				if err != nil || last.Before(cutoff) {
					delete(a.sessions, id)
					delete(a.byUserID, s.UserID)
					if logger.GlobalLogger != nil {
						logger.GlobalLogger.LogAudit("Session expired for user " + s.UserID)
					}
				}
			}
			a.mu.Unlock()
		}
	}
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
