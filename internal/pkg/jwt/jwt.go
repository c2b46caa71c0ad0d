package jwt

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"
)

var ErrInvalidTokenType = errors.New("invalid token type")

// Claims identify the caller inside one organization. EmployeeID is nil for
// accounts without an employee profile.
type Claims struct {
	UserID         string
	EmployeeID     *string
	OrganizationID string
	Role           user.Role
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	GenerateSSEToken(claims Claims) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(j.encode(claims, TokenTypeAccess, expiresAt))
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections, which
// cannot send an Authorization header from a browser.
func (j *JWTService) GenerateSSEToken(claims Claims) (token string, expiresIn int, err error) {
	// SSE tokens are short-lived (5 minutes)
	expiresIn = 300
	expiresAt := j.now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(j.encode(claims, TokenTypeSSE, expiresAt))
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns its claims
func (j *JWTService) ValidateSSEToken(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeSSE {
		return Claims{}, ErrInvalidTokenType
	}

	return ClaimsFromMap(token.PrivateClaims())
}

// ClaimsFromMap reads Claims from decoded token claims.
func ClaimsFromMap(m map[string]interface{}) (Claims, error) {
	userID, _ := m["user_id"].(string)
	organizationID, _ := m["organization_id"].(string)
	role, _ := m["role"].(string)
	if userID == "" || organizationID == "" {
		return Claims{}, jwt.ErrInvalidJWT()
	}

	claims := Claims{
		UserID:         userID,
		OrganizationID: organizationID,
		Role:           user.Role(role),
	}
	if employeeID, ok := m["employee_id"].(string); ok && employeeID != "" {
		claims.EmployeeID = &employeeID
	}
	return claims, nil
}

func (j *JWTService) encode(claims Claims, tokenType string, expiresAt int64) map[string]interface{} {
	return map[string]interface{}{
		"user_id":         claims.UserID,
		"employee_id":     j.returnValueOrNil(claims.EmployeeID),
		"organization_id": claims.OrganizationID,
		"role":            string(claims.Role),
		"type":            tokenType,
		"exp":             expiresAt,
	}
}

func (j *JWTService) returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
