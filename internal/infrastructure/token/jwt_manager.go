package token

import (
	"errors"
	"strconv"
	"time"

	domain "dashnotes/backend/internal/domain/auth"
	usecase "dashnotes/backend/internal/usecase/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionDuration is how long an issued session token stays valid.
const SessionDuration = 7 * 24 * time.Hour

// MinSecretLength is the shortest HMAC secret NewJWTManager accepts.
const MinSecretLength = 32

var (
	errUnexpectedMethod = errors.New("unexpected signing method")
	errInvalidIdentity  = errors.New("identity must carry a positive user id")
)

// JWTManager issues and validates HS256 session tokens.
type JWTManager struct {
	secret  []byte
	issuer  string
	nowFunc func() time.Time
}

// NewJWTManager constructs a manager with the provided secret and issuer.
func NewJWTManager(secret, issuer string) (*JWTManager, error) {
	if len(secret) < MinSecretLength {
		return nil, errors.New("jwt secret must be at least 32 bytes")
	}
	return &JWTManager{
		secret:  []byte(secret),
		issuer:  issuer,
		nowFunc: time.Now,
	}, nil
}

// WithClock returns a copy of the manager that reads time from now.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	clone := *m
	clone.nowFunc = now
	return &clone
}

// Ensure JWTManager implements the TokenManager interface.
var _ usecase.TokenManager = (*JWTManager)(nil)

// Claims represents session token claims.
type Claims struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issue creates a signed token carrying the identity snapshot. The identity must have a
// positive UserID, since Verify rejects anything else.
func (m *JWTManager) Issue(identity domain.Identity) (string, error) {
	if identity.UserID <= 0 {
		return "", errInvalidIdentity
	}
	now := m.nowFunc().UTC()
	claims := Claims{
		UserID:   identity.UserID,
		Email:    identity.Email,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(identity.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature, expiry and issuer and returns the embedded identity.
// Every failure is reported as domain.ErrTokenInvalid.
func (m *JWTManager) Verify(tokenString string) (domain.Identity, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.nowFunc),
	}
	if m.issuer != "" {
		options = append(options, jwt.WithIssuer(m.issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedMethod
		}
		return m.secret, nil
	})
	if err != nil {
		return domain.Identity{}, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	return domain.Identity{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
	}, nil
}
