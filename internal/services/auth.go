package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	identityrepo "github.com/ampolabs/batchweigh-backend/internal/data/repos/identity"
	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/pkg/apperrors"
	"github.com/ampolabs/batchweigh-backend/internal/platform/ctxutil"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

type JWTClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
	Badge    string
	Sector   string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (string, *types.User, error)
	ContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	TokenTTL() time.Duration
}

type authService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    identityrepo.UserRepo
	profileRepo identityrepo.OperatorProfileRepo
	jwtSecret   string
	tokenTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo identityrepo.UserRepo,
	profileRepo identityrepo.OperatorProfileRepo,
	jwtSecret string,
	tokenTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:          db,
		log:         serviceLog,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
	}
}

// Register creates the user and its operator profile in the same
// transaction. The profile is never created by a side effect elsewhere.
func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = types.RoleOperator
	}

	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("email %q: %w", in.Email, apperrors.ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", apperrors.ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", apperrors.ErrInvalidInput)
	}
	switch role {
	case types.RoleOperator, types.RoleSupervisor, types.RoleAdmin:
	default:
		return nil, fmt.Errorf("role %q: %w", role, apperrors.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &types.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, exErr := as.userRepo.EmailExists(ctx, tx, email)
		if exErr != nil {
			return fmt.Errorf("failed to check email: %w", exErr)
		}
		if exists {
			return fmt.Errorf("email %s already registered: %w", email, apperrors.ErrConflict)
		}
		if _, cErr := as.userRepo.Create(ctx, tx, []*types.User{user}); cErr != nil {
			return fmt.Errorf("failed to create user: %w", cErr)
		}
		profile := &types.OperatorProfile{
			ID:     uuid.New(),
			UserID: user.ID,
			Badge:  strings.TrimSpace(in.Badge),
			Sector: strings.TrimSpace(in.Sector),
		}
		if _, pErr := as.profileRepo.Create(ctx, tx, []*types.OperatorProfile{profile}); pErr != nil {
			return fmt.Errorf("failed to create operator profile: %w", pErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	as.log.Info("registered user", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (string, *types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("email and password are required: %w", apperrors.ErrInvalidInput)
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if len(users) == 0 {
		return "", nil, fmt.Errorf("unknown email: %w", apperrors.ErrUnauthorized)
	}

	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("wrong password: %w", apperrors.ErrUnauthorized)
	}

	token, err := as.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

func (as *authService) generateToken(user *types.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Name: user.Name,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecret))
}

// ContextFromToken validates the bearer token and attaches the operator
// identity to the context for downstream services.
func (as *authService) ContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecret), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", errors.Join(err, apperrors.ErrUnauthorized))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("invalid token: %w", apperrors.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid subject in token: %w", apperrors.ErrUnauthorized)
	}
	rd := &ctxutil.RequestData{
		UserID: userID,
		Name:   claims.Name,
		Role:   claims.Role,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) TokenTTL() time.Duration {
	return as.tokenTTL
}
