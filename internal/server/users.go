package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt hashes.
const maxPasswordBytes = 72

// User is an account known to the service.
type User struct {
	ID    string
	Email string
}

// Users is the account store behind login and password reset.
type Users interface {
	Authenticate(ctx context.Context, email, password string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	SetPassword(ctx context.Context, userID, password string) error
}

// EmailHash binds reset tokens to the address they were mailed to: a token
// stops verifying once the account email changes.
func EmailHash(email string) string {
	sum := sha256.Sum256([]byte(normalizeEmail(email)))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type memoryUser struct {
	User
	hash []byte
}

// MemoryUsers is an in-process Users implementation with bcrypt hashes.
type MemoryUsers struct {
	mu      sync.RWMutex
	byEmail map[string]*memoryUser
	byID    map[string]*memoryUser
	cost    int
}

func hashPassword(password string, cost int) ([]byte, error) {
	if len(password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byEmail: make(map[string]*memoryUser),
		byID:    make(map[string]*memoryUser),
		cost:    bcrypt.DefaultCost,
	}
}

// WithBcryptCost returns u using cost for new hashes. Tests use bcrypt.MinCost.
func (u *MemoryUsers) WithBcryptCost(cost int) *MemoryUsers {
	u.cost = cost
	return u
}

// Register adds an account and returns it.
func (u *MemoryUsers) Register(_ context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	hash, err := hashPassword(password, u.cost)
	if err != nil {
		return User{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.byEmail[email]; ok {
		return User{}, ErrUserExists
	}
	rec := &memoryUser{User: User{ID: uuid.NewString(), Email: email}, hash: hash}
	u.byEmail[email] = rec
	u.byID[rec.ID] = rec
	return rec.User, nil
}

func (u *MemoryUsers) Authenticate(_ context.Context, email, password string) (User, error) {
	u.mu.RLock()
	rec, ok := u.byEmail[normalizeEmail(email)]
	var hash []byte
	if ok {
		hash = rec.hash
	}
	u.mu.RUnlock()

	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return rec.User, nil
}

func (u *MemoryUsers) FindByEmail(_ context.Context, email string) (User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	rec, ok := u.byEmail[normalizeEmail(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return rec.User, nil
}

func (u *MemoryUsers) SetPassword(_ context.Context, userID, password string) error {
	hash, err := hashPassword(password, u.cost)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	rec, ok := u.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	rec.hash = hash
	return nil
}
