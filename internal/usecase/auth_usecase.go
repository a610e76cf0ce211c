package usecase

import (
	"context"
	"errors"

	"clinic-agenda/internal/converter"
	"clinic-agenda/internal/delivery/dto"
	"clinic-agenda/internal/domain/entity"
	"clinic-agenda/internal/domain/repository"
	"clinic-agenda/internal/service"
	"clinic-agenda/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrOperatorNotFound   = errors.New("operator not found")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, operatorID uuid.UUID, tokenID string) error
	GetCurrentOperator(ctx context.Context, operatorID uuid.UUID) (*dto.OperatorResponse, error)
	EnsureOperator(ctx context.Context, username, password string) error
}

type authUsecase struct {
	log          *logrus.Logger
	transactor   repository.Transactor
	operatorRepo repository.OperatorRepository
	jwtService   *jwt.JWTService
	tokenStore   service.TokenStore
	auditService service.AuditService
}

func NewAuthUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	operatorRepo repository.OperatorRepository,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		transactor:   transactor,
		operatorRepo: operatorRepo,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		auditService: auditService,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	operator, err := u.operatorRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		u.log.Warnf("Failed to find operator by username: %+v", err)
		return nil, err
	}
	if operator == nil || !operator.IsActive {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(operator.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, tokenID, err := u.jwtService.GenerateAccessToken(operator.ID, operator.Username)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	// The token is stored last so a failed audit write leaves no usable token behind.
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.auditService.LogCreate(ctx, &operator.ID, entity.AuditActionOperatorLogin, "operator", operator.ID.String(), nil); err != nil {
			return err
		}
		if err := u.tokenStore.Store(ctx, operator.ID, tokenID, u.jwtService.GetAccessExpiry()); err != nil {
			u.log.Warnf("Failed to store access token: %+v", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, operatorID uuid.UUID, tokenID string) error {
	return u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.auditService.LogDelete(ctx, &operatorID, entity.AuditActionOperatorLogout, "operator", operatorID.String(), nil); err != nil {
			return err
		}
		if err := u.tokenStore.Revoke(ctx, operatorID, tokenID); err != nil {
			u.log.Warnf("Failed to revoke access token: %+v", err)
			return err
		}
		return nil
	})
}

func (u *authUsecase) GetCurrentOperator(ctx context.Context, operatorID uuid.UUID) (*dto.OperatorResponse, error) {
	operator, err := u.operatorRepo.FindByID(ctx, operatorID)
	if err != nil {
		u.log.Warnf("Failed to find operator by ID: %+v", err)
		return nil, err
	}
	if operator == nil {
		return nil, ErrOperatorNotFound
	}

	return converter.OperatorToResponse(operator), nil
}

// EnsureOperator seeds the shared login account if it does not exist yet. An existing account is left untouched.
func (u *authUsecase) EnsureOperator(ctx context.Context, username, password string) error {
	existing, err := u.operatorRepo.FindByUsername(ctx, username)
	if err != nil {
		u.log.Warnf("Failed to find operator by username: %+v", err)
		return err
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	operator := &entity.Operator{
		Username: username,
		Password: string(hashedPassword),
		IsActive: true,
	}
	if err := u.operatorRepo.Create(ctx, operator); err != nil {
		if isDuplicateKeyError(err, "username") {
			return nil
		}
		u.log.Warnf("Failed to create operator: %+v", err)
		return err
	}

	u.log.Infof("Seeded operator account %q", username)
	return nil
}
