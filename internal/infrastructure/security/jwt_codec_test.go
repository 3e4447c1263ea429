package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/forum-system/internal/core/domain"
)

func TestJWTCodec_RoundTrip(t *testing.T) {
	codec, err := NewJWTCodec("secret", "forum")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	token, err := codec.Issue(42, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id != 42 {
		t.Fatalf("account id = %d, want 42", id)
	}
}

func TestJWTCodec_EmptySecret(t *testing.T) {
	if _, err := NewJWTCodec("", ""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestJWTCodec_Expired(t *testing.T) {
	codec, _ := NewJWTCodec("secret", "")
	codec.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _ := codec.Issue(1, time.Hour)

	codec.now = time.Now
	if _, err := codec.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTCodec_WrongSecret(t *testing.T) {
	issuer, _ := NewJWTCodec("secret", "")
	verifier, _ := NewJWTCodec("other", "")
	token, _ := issuer.Issue(1, time.Hour)

	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTCodec_Tampered(t *testing.T) {
	codec, _ := NewJWTCodec("secret", "")
	token, _ := codec.Issue(1, time.Hour)
	parts := strings.Split(token, ".")
	other, _ := codec.Issue(2, time.Hour)
	forged := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]

	if _, err := codec.Verify(forged); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec, _ := NewJWTCodec("secret", "")
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected HS512 token to be rejected, got %v", err)
	}
}

func TestJWTCodec_NonNumericSubject(t *testing.T) {
	codec, _ := NewJWTCodec("secret", "")
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))

	if _, err := codec.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTCodec_IssuerMismatch(t *testing.T) {
	a, _ := NewJWTCodec("secret", "forum")
	b, _ := NewJWTCodec("secret", "elsewhere")
	token, _ := b.Issue(1, time.Hour)

	if _, err := a.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
