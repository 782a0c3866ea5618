package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/demonlist/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by member access tokens
type Claims struct {
	MemberID     int64  `json:"member_id"`
	Name         string `json:"name"`
	Permissions  uint16 `json:"permissions"`
	TokenVersion int    `json:"token_version"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

func NewJWTService(secretKey, issuer string, ttl time.Duration) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
		now:       time.Now,
	}
}

// TTL is the lifetime of issued tokens
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// GenerateToken signs an HS256 token for member at its current token version
func (s *JWTService) GenerateToken(member *model.Member) (string, error) {
	now := s.now()
	claims := Claims{
		MemberID:     member.ID,
		Name:         member.Name,
		Permissions:  uint16(member.Permissions),
		TokenVersion: member.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   fmt.Sprintf("%d", member.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken checks signature, algorithm, issuer and expiry.
// The token version is checked against the database by the caller.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.MemberID == 0 {
		return nil, errors.New("token carries no member id")
	}

	return claims, nil
}
