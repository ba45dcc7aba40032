package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	controlTokenExpiry = 10 * time.Minute
	bcryptCost         = 10
	passRateWindow     = 60 * time.Second
	maxPassAttempts    = 10
	secretSetting      = "jwt_secret"
)

var (
	ErrBadPass     = errors.New("invalid pass phrase")
	ErrRateLimited = errors.New("too many attempts, try again later")
	ErrBadToken    = errors.New("invalid controller token")
)

// SettingStore persists the signing secret across restarts
type SettingStore interface {
	GetSetting(key string) string
	SetSetting(key, value string) error
}

// Auth guards session creation with an optional host pass phrase and signs
// the short-lived tokens a phone uses to pair as controller.
type Auth struct {
	passHash []byte // nil = open host
	secret   []byte

	// Rate limiting for pass attempts (IP -> attempts)
	rateMu  sync.Mutex
	rateMap map[string]*rateEntry
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewAuth hashes pass (empty disables the check) and loads or creates the
// signing secret. settings may be nil.
func NewAuth(pass string, settings SettingStore) (*Auth, error) {
	a := &Auth{
		secret:  loadOrCreateSecret(settings),
		rateMap: make(map[string]*rateEntry),
	}
	if pass != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash pass phrase: %w", err)
		}
		a.passHash = hash
	}
	return a, nil
}

// loadOrCreateSecret loads the JWT secret from settings, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(settings SettingStore) []byte {
	if settings != nil {
		if h := settings.GetSetting(secretSetting); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate JWT secret: " + err.Error())
	}
	if settings != nil {
		if err := settings.SetSetting(secretSetting, hex.EncodeToString(secret)); err != nil {
			log.Printf("auth: could not persist JWT secret: %v", err)
		}
	}
	return secret
}

// Guarded reports whether a pass phrase is required
func (a *Auth) Guarded() bool {
	return a.passHash != nil
}

// CheckPass verifies the host pass phrase for a request from ip
func (a *Auth) CheckPass(pass, ip string) error {
	if a.passHash == nil {
		return nil
	}
	if !a.checkRate(ip) {
		return ErrRateLimited
	}
	if err := bcrypt.CompareHashAndPassword(a.passHash, []byte(pass)); err != nil {
		return ErrBadPass
	}
	return nil
}

// IssueControlToken signs a controller token bound to sid
func (a *Auth) IssueControlToken(sid string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sid,
		"exp": now.Add(controlTokenExpiry).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateControlToken checks a controller token and returns its session ID
func (a *Auth) ValidateControlToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrBadToken
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrBadToken
	}
	return sid, nil
}

func (a *Auth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(passRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxPassAttempts
}
