package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies externally-issued access tokens and mints the short-lived
// stream tokens the SSE endpoint needs (EventSource cannot send an
// Authorization header, so the token travels in the query string).
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateStreamToken(userID string, isAdmin bool) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (userID string, isAdmin bool, err error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, acceptableSkew time.Duration) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(acceptableSkew)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// GenerateStreamToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateStreamToken(userID string, isAdmin bool) (token string, expiresIn int, err error) {
	// Stream tokens are short-lived (5 minutes)
	expiresIn = 300
	expiresAt := time.Now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":  userID,
		"is_admin": isAdmin,
		"type":     "stream",
		"exp":      expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateStreamToken validates a stream token and returns the identity it carries
func (j *JWTService) ValidateStreamToken(tokenString string) (userID string, isAdmin bool, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", false, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "stream" {
		return "", false, jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", false, jwt.ErrInvalidJWT()
	}
	userID, ok = userIDVal.(string)
	if !ok {
		return "", false, jwt.ErrInvalidJWT()
	}

	if adminVal, ok := token.Get("is_admin"); ok {
		isAdmin, _ = adminVal.(bool)
	}

	return userID, isAdmin, nil
}
