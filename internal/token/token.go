// ABOUTME: Bearer token decoding into typed session claims
// ABOUTME: Structural JWT decode plus HS256 sign/verify helpers for local issuing

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// Role is the closed set of roles a token can carry.
type Role string

const (
	RoleVendor     Role = "vendor"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
	RoleUnknown    Role = "unknown"
)

// ParseRole maps a raw role claim to the closed Role set.
// Anything outside the known roles collapses to RoleUnknown.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleVendor, RoleAdmin, RoleSuperadmin:
		return Role(s)
	default:
		return RoleUnknown
	}
}

// Claims is the decoded payload of a bearer credential.
type Claims struct {
	SubjectID string
	Username  string
	Role      Role
	Raw       string
}

// Decoder decodes bearer credentials into Claims.
// The decode is structural only: the client holds no signing secret, so
// signature enforcement is left to the remote API. Expiry is still checked.
type Decoder struct {
	parser *jwt.Parser
}

// NewDecoder creates a new token decoder.
func NewDecoder() *Decoder {
	return &Decoder{parser: jwt.NewParser()}
}

// Decode parses a bearer token and extracts the session claims.
// It never performs network I/O and never mutates its input.
func (d *Decoder) Decode(tokenString string) (*Claims, error) {
	tok, _, err := d.parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		return nil, ErrExpiredToken
	}

	id, _ := mc["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: id", ErrMissingClaim)
	}

	username, _ := mc["username"].(string)
	role, _ := mc["role"].(string)

	return &Claims{
		SubjectID: id,
		Username:  username,
		Role:      ParseRole(role),
		Raw:       tokenString,
	}, nil
}

// Sign creates an HS256 token carrying the given claims with expiration.
// Used by the local fixture server and by tests; the production credential
// is always issued by the remote API.
func Sign(c Claims, secret []byte, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":       c.SubjectID,
		"username": c.Username,
		"role":     string(c.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(expiresIn).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret)
}

// Verify validates an HS256 signature and returns the embedded claims.
func Verify(tokenString string, secret []byte) (*Claims, error) {
	tok, err := jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !tok.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	id, _ := mc["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: id", ErrMissingClaim)
	}
	username, _ := mc["username"].(string)
	role, _ := mc["role"].(string)

	return &Claims{
		SubjectID: id,
		Username:  username,
		Role:      ParseRole(role),
		Raw:       tokenString,
	}, nil
}
