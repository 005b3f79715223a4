package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrNoAuthContext = errors.New("no auth context")
	ErrInvalidToken  = errors.New("invalid token")
)

type Config struct {
	Secret string        `envconfig:"JWT_SECRET" json:"-"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 bearer tokens carrying a user id and role.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(cfg Config) *Issuer {
	return &Issuer{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    time.Now,
	}
}

func (i *Issuer) Issue(userID, role string) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || (claims.Role != RoleUser && claims.Role != RoleAdmin) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type authKey struct{}

type User struct {
	ID   string
	Role string
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func SetAuthContext(ctx context.Context, userID, role string) context.Context {
	return context.WithValue(ctx, authKey{}, User{ID: userID, Role: role})
}

func GetUser(ctx context.Context) (User, error) {
	u, ok := ctx.Value(authKey{}).(User)
	if !ok {
		return User{}, ErrNoAuthContext
	}
	return u, nil
}
