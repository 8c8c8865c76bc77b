package middleware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer identifies this service in every token it signs.
const TokenIssuer = "PropNest"

type TokenPurpose string

const (
	PurposeAccess TokenPurpose = "access"
	PurposeVerify TokenPurpose = "verify"
	PurposeReset  TokenPurpose = "reset"
)

const (
	AccessTokenTTL = 30 * 24 * time.Hour
	VerifyTokenTTL = 30 * time.Minute
	ResetTokenTTL  = 15 * time.Minute
)

// Claims is the payload of every HS256 token issued by the service.
type Claims struct {
	ID      string       `json:"id"`
	Email   string       `json:"email"`
	Role    string       `json:"role,omitempty"`
	Purpose TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for the given user and purpose.
func GenerateToken(secret []byte, userID uuid.UUID, email, role string, purpose TokenPurpose, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:      userID.String(),
		Email:   email,
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateToken checks signature, expiry, issuer and purpose. Expiry
// failures wrap jwt.ErrTokenExpired.
func ValidateToken(secret []byte, tokenString string, purpose TokenPurpose) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Purpose != purpose {
		return nil, errors.New("unexpected token purpose")
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return nil, errors.New("invalid subject in token")
	}
	return claims, nil
}
