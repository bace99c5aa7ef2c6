package auth

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mock implementations ---

type memKV struct {
	data   map[string][]byte
	setErr error
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

type recorder struct {
	titles []string
}

func (r *recorder) Notify(_ context.Context, title, _ string) {
	r.titles = append(r.titles, title)
}

// --- Helpers ---

func newTestService(t *testing.T, kv *memKV) (*Service, *recorder) {
	t.Helper()
	rec := &recorder{}
	svc := NewService(kv, Plaintext{}, zap.NewNop(), rec)
	// Monotonic clock so timestamp-derived IDs stay distinct in fast tests.
	base := time.Now()
	var ticks int64
	svc.now = func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * time.Millisecond)
	}
	return svc, rec
}

// --- Tests ---

func TestRegisterCreatesSession(t *testing.T) {
	svc, rec := newTestService(t, newMemKV())

	ok := svc.Register(context.Background(), "a@x.com", "p", "A")
	require.True(t, ok)

	u := svc.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "A", u.Name)
	assert.NotZero(t, u.ID)
	assert.True(t, svc.IsAuthenticated())
	assert.Contains(t, rec.titles, "Registration successful")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	kv := newMemKV()
	svc, rec := newTestService(t, kv)
	ctx := context.Background()

	require.True(t, svc.Register(ctx, "a@x.com", "p", "A"))
	first := svc.CurrentUser()

	ok := svc.Register(ctx, "a@x.com", "p2", "B")
	assert.False(t, ok)
	assert.Contains(t, rec.titles, "Registration failed")

	// Stored collection and current session are untouched.
	assert.Equal(t, first, svc.CurrentUser())
	var stored []map[string]any
	require.NoError(t, json.Unmarshal(kv.data[UsersKey], &stored))
	assert.Len(t, stored, 1)

	// The original record still works.
	assert.True(t, svc.Login(ctx, "a@x.com", "p"))
}

func TestRegisterEmailMatchIsCaseSensitive(t *testing.T) {
	svc, _ := newTestService(t, newMemKV())
	ctx := context.Background()

	require.True(t, svc.Register(ctx, "a@x.com", "p", "A"))
	assert.True(t, svc.Register(ctx, "A@x.com", "p", "A2"))
}

func TestRegisterSessionOmitsCredential(t *testing.T) {
	kv := newMemKV()
	svc, _ := newTestService(t, kv)

	require.True(t, svc.Register(context.Background(), "a@x.com", "secret", "A"))

	var session map[string]any
	require.NoError(t, json.Unmarshal(kv.data[SessionKey], &session))
	assert.NotContains(t, session, "password")

	var users []map[string]any
	require.NoError(t, json.Unmarshal(kv.data[UsersKey], &users))
	require.Len(t, users, 1)
	assert.Equal(t, "secret", users[0]["password"])
}

func TestLogin(t *testing.T) {
	svc, rec := newTestService(t, newMemKV())
	ctx := context.Background()

	require.True(t, svc.Register(ctx, "a@x.com", "p", "A"))
	svc.Logout(ctx)
	require.Nil(t, svc.CurrentUser())

	assert.True(t, svc.Login(ctx, "a@x.com", "p"))
	require.NotNil(t, svc.CurrentUser())
	assert.Equal(t, "a@x.com", svc.CurrentUser().Email)
	assert.Contains(t, rec.titles, "Login successful")
}

func TestLoginWrongPasswordKeepsSession(t *testing.T) {
	svc, rec := newTestService(t, newMemKV())
	ctx := context.Background()

	require.True(t, svc.Register(ctx, "a@x.com", "p", "A"))
	before := svc.CurrentUser()

	assert.False(t, svc.Login(ctx, "a@x.com", "wrong"))
	assert.Equal(t, before, svc.CurrentUser())
	assert.Contains(t, rec.titles, "Login failed")
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t, newMemKV())

	assert.False(t, svc.Login(context.Background(), "nobody@x.com", "p"))
	assert.Nil(t, svc.CurrentUser())
}

func TestLogoutPersistsClearedSession(t *testing.T) {
	kv := newMemKV()
	svc, _ := newTestService(t, kv)
	ctx := context.Background()

	require.True(t, svc.Register(ctx, "a@x.com", "p", "A"))
	svc.Logout(ctx)

	assert.Nil(t, svc.CurrentUser())
	assert.False(t, svc.IsAuthenticated())
	assert.JSONEq(t, "null", string(kv.data[SessionKey]))
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	kv := newMemKV()
	ctx := context.Background()

	svc1, _ := newTestService(t, kv)
	require.True(t, svc1.Register(ctx, "a@x.com", "p", "A"))

	svc2, _ := newTestService(t, kv)
	require.NotNil(t, svc2.CurrentUser())
	assert.Equal(t, "a@x.com", svc2.CurrentUser().Email)
	assert.True(t, svc2.Login(ctx, "a@x.com", "p"))
}

func TestCorruptUsersBlobDiscardedWhole(t *testing.T) {
	kv := newMemKV()
	kv.data[UsersKey] = []byte(`[{"email": "a@x.com"`)
	kv.data[SessionKey] = []byte(`garbage`)

	svc, _ := newTestService(t, kv)
	assert.Nil(t, svc.CurrentUser())
	assert.False(t, svc.Login(context.Background(), "a@x.com", "p"))
}

func TestWriteFailureKeepsSessionInMemory(t *testing.T) {
	kv := newMemKV()
	kv.setErr = errors.New("disk full")

	svc, _ := newTestService(t, kv)
	require.True(t, svc.Register(context.Background(), "a@x.com", "p", "A"))

	assert.True(t, svc.IsAuthenticated())
	assert.Empty(t, kv.data)
}

func TestBcryptScheme(t *testing.T) {
	scheme := Bcrypt{Cost: 4}

	hash, err := scheme.Hash("p")
	require.NoError(t, err)
	assert.NotEqual(t, "p", hash)
	assert.True(t, scheme.Compare(hash, "p"))
	assert.False(t, scheme.Compare(hash, "wrong"))
}

func TestServiceWithBcryptScheme(t *testing.T) {
	kv := newMemKV()
	svc := NewService(kv, Bcrypt{Cost: 4}, zap.NewNop(), &recorder{})
	ctx := context.Background()

	require.True(t, svc.Register(ctx, "a@x.com", "p", "A"))
	svc.Logout(ctx)

	assert.True(t, svc.Login(ctx, "a@x.com", "p"))
	assert.False(t, svc.Login(ctx, "a@x.com", "wrong"))

	// The stored credential is a digest, not the password.
	var users []map[string]any
	require.NoError(t, json.Unmarshal(kv.data[UsersKey], &users))
	assert.NotEqual(t, "p", users[0]["password"])
}
