package auth

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-planner/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// memRevoker is an in-memory Revoker for tests.
type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = map[string]time.Duration{}
	}
	m.revoked[id] = ttl
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok, nil
}

var _ Revoker = (*memRevoker)(nil)

func newManager(t *testing.T, r Revoker) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret, 3*time.Hour, r)
	require.NoError(t, err)
	return m
}

func testUser() domain.User {
	return domain.User{ID: uuid.New(), Email: "ada@example.com"}
}

func TestNewJWTManager_ShortSecret(t *testing.T) {
	_, err := NewJWTManager("too-short", time.Hour, nil)
	require.Error(t, err)
}

func TestJWTManager_IssueVerify(t *testing.T) {
	m := newManager(t, nil)
	u := testUser()

	token, err := m.Issue(u)
	require.NoError(t, err)

	claim, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claim.UserID)
	assert.Equal(t, u.Email, claim.Email)
	assert.NotEmpty(t, claim.TokenID)
	assert.WithinDuration(t, time.Now().Add(3*time.Hour), claim.ExpiresAt, time.Minute)
}

func TestJWTManager_Verify_Expired(t *testing.T) {
	m := newManager(t, nil)
	token, err := m.Issue(testUser())
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(4 * time.Hour) }

	_, err = m.Verify(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Verify_RejectsOtherAlgorithms(t *testing.T) {
	m := newManager(t, nil)
	claims := Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for _, token := range []string{hs512, none} {
		_, err := m.Verify(context.Background(), token)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestJWTManager_Verify_Tampered(t *testing.T) {
	m := newManager(t, nil)
	token, err := m.Issue(testUser())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[2] = strings.Repeat("A", len(parts[2]))

	_, err = m.Verify(context.Background(), strings.Join(parts, "."))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Verify_Missing(t *testing.T) {
	_, err := newManager(t, nil).Verify(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestJWTManager_Revoke(t *testing.T) {
	r := &memRevoker{}
	m := newManager(t, r)
	token, err := m.Issue(testUser())
	require.NoError(t, err)
	claim, err := m.Verify(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(context.Background(), claim))

	_, err = m.Verify(context.Background(), token)
	require.ErrorIs(t, err, ErrRevokedToken)
	assert.InDelta(t, (3 * time.Hour).Seconds(), r.revoked[claim.TokenID].Seconds(), 60)
}

func TestPassword(t *testing.T) {
	_, err := HashPassword("12345")
	require.ErrorIs(t, err, ErrWeakPassword)

	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	require.NoError(t, CheckPassword(hash, "s3cret!"))
	require.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestClaimContext(t *testing.T) {
	assert.False(t, ClaimFrom(context.Background()).Valid())

	c := domain.Claim{UserID: uuid.New(), Email: "ada@example.com"}
	assert.Equal(t, c, ClaimFrom(WithClaim(context.Background(), c)))
}

// TestRedisRevoker runs against a real Redis when TEST_REDIS_ADDR is set.
func TestRedisRevoker(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping integration test")
	}
	ctx := context.Background()
	r, err := NewRedisRevoker(ctx, addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	id := uuid.NewString()
	revoked, err := r.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, id, time.Minute))
	revoked, err = r.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.True(t, revoked)
}
