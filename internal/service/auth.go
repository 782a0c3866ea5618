package service

import (
	"context"
	"errors"
	"time"

	"github.com/Payphone-Digital/demonlist/internal/dto"
	apperrors "github.com/Payphone-Digital/demonlist/internal/errors"
	"github.com/Payphone-Digital/demonlist/internal/model"
	"github.com/Payphone-Digital/demonlist/internal/repository"
	ctxutil "github.com/Payphone-Digital/demonlist/pkg/context"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash is compared against when the member does not exist, so unknown
// names cost the same as wrong passwords.
var dummyHash []byte

func init() {
	hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		panic("service: bcrypt dummy hash: " + err.Error())
	}
	dummyHash = hash
}

type AuthService struct {
	repoMember *repository.MemberRepository
	jwtService *JWTService
}

func NewAuthService(repo *repository.MemberRepository, jwtService *JWTService) *AuthService {
	return &AuthService{
		repoMember: repo,
		jwtService: jwtService,
	}
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Login")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	member, err := s.repoMember.GetByName(ctx, req.Name)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.ErrorWithContext(ctx, "Failed to load member for login").
				String("name", req.Name).
				Err(err).
				Log()
			return nil, storeError(ctx, err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		logger.LogAuth(req.Name, "login", false)
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		logger.LogAuth(req.Name, "login", false)
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(member)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to sign token").
			Int64("member_id", member.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	now := time.Now().UTC()
	if err := s.repoMember.UpdateLastLogin(ctx, member.ID, now); err != nil {
		logger.WarnWithContext(ctx, "Failed to record last login").
			Int64("member_id", member.ID).
			Err(err).
			Log()
	} else {
		member.LastLogin = &now
	}

	logger.LogAuth(member.Name, "login", true)

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.jwtService.TTL().Seconds()),
		Member:    dto.NewMemberResponse(*member),
	}, nil
}

// Authenticate resolves a bearer token to the member it was issued for.
// Permissions come from the database, not the token, so revocations apply
// immediately; a token issued before the last logout is rejected.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (Viewer, *model.Member, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Authenticate")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	claims, err := s.jwtService.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Viewer{}, nil, apperrors.ErrTokenExpired
		}
		return Viewer{}, nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	member, err := s.repoMember.GetByID(ctx, claims.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Viewer{}, nil, apperrors.ErrInvalidToken
		}
		return Viewer{}, nil, storeError(ctx, err)
	}

	if claims.TokenVersion != member.TokenVersion {
		logger.WarnWithContext(ctx, "Token version mismatch - token has been invalidated").
			Int64("member_id", member.ID).
			Int("token_version", claims.TokenVersion).
			Int("db_version", member.TokenVersion).
			Log()
		return Viewer{}, nil, apperrors.ErrInvalidToken
	}

	return Viewer{MemberID: member.ID, Permissions: member.Permissions}, member, nil
}

func (s *AuthService) Me(ctx context.Context, memberID int64) (*dto.MemberResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Me")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	member, err := s.repoMember.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, storeError(ctx, err)
	}

	resp := dto.NewMemberResponse(*member)
	return &resp, nil
}

// Logout invalidates every token issued to the member
func (s *AuthService) Logout(ctx context.Context, memberID int64) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Logout")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	version, err := s.repoMember.IncrementTokenVersion(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return storeError(ctx, err)
	}

	logger.InfoWithContext(ctx, "Member logged out").
		Int64("member_id", memberID).
		Int("token_version", version).
		Log()
	return nil
}
