package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/forum-system/internal/core/domain"
)

// JWTCodec issues HS256 access tokens whose subject is the account id.
type JWTCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTCodec(secret, issuer string) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt codec: empty secret")
	}
	return &JWTCodec{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

func (c *JWTCodec) Issue(accountID int64, ttl time.Duration) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(accountID, 10),
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify accepts only HS256 tokens signed with our secret, not yet expired,
// carrying a numeric subject.
func (c *JWTCodec) Verify(token string) (int64, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil || !tkn.Valid {
		return 0, domain.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidToken
	}
	return id, nil
}
