package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/reclaimhq/lostfound-system/internal/core/domain"
	"github.com/reclaimhq/lostfound-system/internal/core/ports"
)

const testSecret = "test-secret"

// ---------------------------------------------------------------------------
// Stub revoker
// ---------------------------------------------------------------------------

type stubRevoker struct {
	revoked map[string]time.Duration // jti -> ttl it was revoked with
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (r *stubRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	r.revoked[jti] = ttl
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := r.revoked[jti]
	return ok, nil
}

func registerInput(username string) ports.RegisterInput {
	return ports.RegisterInput{
		Username:  username,
		Password:  "hunter2hunter2",
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
	}
}

// ---------------------------------------------------------------------------
// Register tests
// ---------------------------------------------------------------------------

func TestAuthService_Register_HashesPassword(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, newStubRevoker(), testSecret, 0)

	user, err := svc.Register(context.Background(), registerInput("alice"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := users.byUsername["alice"]
	if stored == nil {
		t.Fatal("user was not stored")
	}
	if stored.PasswordHash == "hunter2hunter2" {
		t.Error("password must not be stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2hunter2")) != nil {
		t.Error("stored hash must verify against the original password")
	}
	if user.ID == "" {
		t.Error("registered user must get an id")
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, newStubRevoker(), testSecret, 0)

	if _, err := svc.Register(context.Background(), registerInput("alice")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), registerInput("alice"))
	if !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_EmptyPassword(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, newStubRevoker(), testSecret, 0)

	input := registerInput("alice")
	input.Password = ""

	_, err := svc.Register(context.Background(), input)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login tests
// ---------------------------------------------------------------------------

func TestAuthService_Login_IssuesValidToken(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, newStubRevoker(), testSecret, 0)

	if _, err := svc.Register(context.Background(), registerInput("alice")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected user alice, got %q", user.Username)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token must parse with the signing secret: %v", err)
	}
	if claims["username"] != "alice" {
		t.Errorf("expected username claim alice, got %v", claims["username"])
	}
	if claims["user_id"] != user.ID {
		t.Errorf("expected user_id claim %q, got %v", user.ID, claims["user_id"])
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Error("token must carry a jti claim")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatal("token must carry an exp claim")
	}
	if !exp.After(time.Now()) {
		t.Error("exp must be in the future")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, newStubRevoker(), testSecret, 0)

	if _, err := svc.Register(context.Background(), registerInput("alice")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "alice", "wrong-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, newStubRevoker(), testSecret, 0)

	_, _, err := svc.Login(context.Background(), "nobody", "whatever123")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_UsernameIsCaseSensitive(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, newStubRevoker(), testSecret, 0)

	if _, err := svc.Register(context.Background(), registerInput("alice")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "Alice", "hunter2hunter2")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for mismatched case, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Logout tests
// ---------------------------------------------------------------------------

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	users := newStubUserRepo()
	revoker := newStubRevoker()
	svc := NewAuthService(users, revoker, testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), registerInput("alice")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, _, err := svc.Login(context.Background(), "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(revoker.revoked) != 1 {
		t.Fatalf("expected 1 revoked jti, got %d", len(revoker.revoked))
	}
	for jti, ttl := range revoker.revoked {
		if jti == "" {
			t.Error("revoked jti must not be empty")
		}
		// TTL should roughly match the token's remaining lifetime.
		if ttl <= 0 || ttl > time.Hour {
			t.Errorf("unexpected revocation ttl %v", ttl)
		}
	}
}

func TestAuthService_Logout_MalformedTokenIsNoop(t *testing.T) {
	revoker := newStubRevoker()
	svc := NewAuthService(newStubUserRepo(), revoker, testSecret, 0)

	if err := svc.Logout(context.Background(), "not-a-jwt"); err != nil {
		t.Errorf("malformed token must be treated as already logged out, got %v", err)
	}
	if len(revoker.revoked) != 0 {
		t.Error("nothing must be revoked for a malformed token")
	}
}

func TestAuthService_Logout_ForeignSignatureIsNoop(t *testing.T) {
	revoker := newStubRevoker()
	svc := NewAuthService(newStubUserRepo(), revoker, testSecret, 0)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti": "forged", "exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := foreign.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(context.Background(), signed); err != nil {
		t.Errorf("foreign-signed token must not revoke anything, got %v", err)
	}
	if len(revoker.revoked) != 0 {
		t.Error("nothing must be revoked for a token signed with the wrong secret")
	}
}

func TestAuthService_Logout_NilRevoker(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, nil, testSecret, 0)

	if _, err := svc.Register(context.Background(), registerInput("alice")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, _, err := svc.Login(context.Background(), "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Errorf("logout without a revocation list must succeed, got %v", err)
	}
}
