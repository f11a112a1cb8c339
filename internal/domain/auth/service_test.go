package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/errs"
	cryptoutil "hrportal/internal/platform/crypto"
)

type fakeStore struct {
	mu        sync.Mutex
	users     map[string]Credential
	mfaSecret map[int64][]byte
	lastLogin map[int64]int
}

func newFakeStore(t *testing.T, creds ...Credential) *fakeStore {
	t.Helper()
	store := &fakeStore{users: map[string]Credential{}, mfaSecret: map[int64][]byte{}, lastLogin: map[int64]int{}}
	for _, cred := range creds {
		store.users[cred.Email] = cred
	}
	return store
}

func (f *fakeStore) FindActiveUserByEmail(_ context.Context, email string) (Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cred, ok := f.users[email]
	if !ok {
		return Credential{}, errs.ErrNotFound
	}
	if secret, ok := f.mfaSecret[cred.UserID]; ok {
		cred.MFASecretEnc = secret
	}
	return cred, nil
}

func (f *fakeStore) GetUser(_ context.Context, userID int64) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cred := range f.users {
		if cred.UserID == userID {
			return User{ID: cred.UserID, Email: cred.Email, Name: cred.Name, Role: cred.Role, CompanyID: cred.CompanyID, EmployeeID: cred.EmployeeID}, nil
		}
	}
	return User{}, errs.ErrNotFound
}

func (f *fakeStore) UpdateLastLogin(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLogin[userID]++
	return nil
}

func (f *fakeStore) UpdateMFASecret(_ context.Context, userID int64, secretEnc []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mfaSecret[userID] = secretEnc
	return nil
}

func (f *fakeStore) GetMFASecret(_ context.Context, userID int64) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mfaSecret[userID], nil
}

func (f *fakeStore) SetMFAEnabled(_ context.Context, userID int64, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, cred := range f.users {
		if cred.UserID == userID {
			cred.MFAEnabled = enabled
			f.users[email] = cred
		}
	}
	return nil
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]Session
	fail     error
}

func (m *memorySessions) Create(_ context.Context, sess Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions == nil {
		m.sessions = map[string]Session{}
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *memorySessions) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}
	_, ok := m.sessions[id]
	return ok, nil
}

func (m *memorySessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func adminCredential(t *testing.T) Credential {
	t.Helper()
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	return Credential{
		Principal:    Principal{UserID: 1, Email: "admin@company.com", Name: "Admin", Role: RoleAdmin, CompanyID: 1, EmployeeID: 1},
		PasswordHash: hash,
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	store := newFakeStore(t, adminCredential(t))
	sessions := &memorySessions{}
	svc := NewService(store, sessions, nil, "secret", 0)

	principal, token, err := svc.Login(context.Background(), "admin@company.com", "admin123", "")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, principal.SessionID)
	assert.Equal(t, RoleAdmin, principal.Role)
	assert.Equal(t, DefaultTokenTTL, svc.TTL())
	assert.Equal(t, 1, store.lastLogin[1])

	verified, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, principal, verified)
}

func TestLoginFailures(t *testing.T) {
	svc := NewService(newFakeStore(t, adminCredential(t)), nil, nil, "secret", time.Hour)

	_, _, err := svc.Login(context.Background(), "admin@company.com", "wrong", "")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, _, err = svc.Login(context.Background(), "nobody@company.com", "admin123", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "ADMIN@company.com", "admin123", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "email lookup is case-sensitive")

	_, _, err = svc.Login(context.Background(), "", "", "")
	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Len(t, errs.Issues(err), 2)
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &memorySessions{}
	svc := NewService(newFakeStore(t, adminCredential(t)), sessions, nil, "secret", time.Hour)

	principal, token, err := svc.Login(context.Background(), "admin@company.com", "admin123", "")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background(), principal))

	_, err = svc.Verify(context.Background(), token)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestVerifyFailsClosedOnSessionStoreError(t *testing.T) {
	sessions := &memorySessions{}
	svc := NewService(newFakeStore(t, adminCredential(t)), sessions, nil, "secret", time.Hour)
	_, token, err := svc.Login(context.Background(), "admin@company.com", "admin123", "")
	require.NoError(t, err)

	sessions.fail = errors.New("redis down")
	_, err = svc.Verify(context.Background(), token)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewService(newFakeStore(t), nil, nil, "secret", time.Hour)
	_, err := svc.Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	token, err := GenerateToken("secret", Claims{UserID: 1, CompanyID: 1, Role: "ROOT"}, time.Hour)
	require.NoError(t, err)
	_, err = svc.Verify(context.Background(), token)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestMeReportsVanishedUser(t *testing.T) {
	svc := NewService(newFakeStore(t, adminCredential(t)), nil, nil, "secret", time.Hour)

	user, err := svc.Me(context.Background(), Principal{UserID: 1, CompanyID: 1})
	require.NoError(t, err)
	assert.Equal(t, "admin@company.com", user.Email)

	_, err = svc.Me(context.Background(), Principal{UserID: 99, CompanyID: 1})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMFASetupEnableAndLogin(t *testing.T) {
	crypto, err := cryptoutil.New(strings.Repeat("ab", 32))
	require.NoError(t, err)
	store := newFakeStore(t, adminCredential(t))
	svc := NewService(store, nil, crypto, "secret", time.Hour)
	principal := Principal{UserID: 1, Email: "admin@company.com", CompanyID: 1}

	secret, url, err := svc.SetupMFA(context.Background(), principal)
	require.NoError(t, err)
	assert.Contains(t, url, "otpauth://")
	assert.NotEqual(t, secret, string(store.mfaSecret[1]), "secret must be stored encrypted")

	assert.ErrorIs(t, svc.EnableMFA(context.Background(), principal, "000000x"), errs.ErrValidation)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.EnableMFA(context.Background(), principal, code))

	_, _, err = svc.Login(context.Background(), "admin@company.com", "admin123", "")
	assert.ErrorIs(t, err, ErrMFARequired)

	_, _, err = svc.Login(context.Background(), "admin@company.com", "admin123", "123")
	assert.ErrorIs(t, err, ErrMFAInvalid)

	_, token, err := svc.Login(context.Background(), "admin@company.com", "admin123", code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestMFAUnavailableWithoutKey(t *testing.T) {
	svc := NewService(newFakeStore(t), nil, nil, "secret", time.Hour)
	_, _, err := svc.SetupMFA(context.Background(), Principal{UserID: 1})
	assert.ErrorIs(t, err, errs.ErrValidation)
}
