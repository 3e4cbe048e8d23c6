package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ratehub/internal/config"
	"ratehub/internal/httpapi/models"
	"ratehub/internal/httpapi/repository"
	"ratehub/internal/mailer"
	"ratehub/internal/validator"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Claims carried inside an access token.
type Claims struct {
	UserID   string
	Username string
	Role     models.Role
}

type AuthService interface {
	SignUp(ctx context.Context, email, username string) (*models.User, error)
	IssueToken(ctx context.Context, username, confirmationCode string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	AccessTokenTTL() time.Duration
}

type authService struct {
	userRepo       repository.UserRepository
	codeRepo       repository.ConfirmationCodeRepository
	mailer         mailer.Mailer
	logger         *slog.Logger
	jwtSecret      string
	accessTokenTTL time.Duration
	codeTTL        time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	codeRepo repository.ConfirmationCodeRepository,
	m mailer.Mailer,
	logger *slog.Logger,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codeRepo:       codeRepo,
		mailer:         m,
		logger:         logger,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
		codeTTL:        cfg.ConfirmationCodeTTL,
	}
}

// SignUp registers a user (or recognizes an existing one by the exact
// email+username pair) and issues a fresh confirmation code. Violations of
// username legality and uniqueness are accumulated per field so one
// request reports them all.
func (s *authService) SignUp(ctx context.Context, email, username string) (*models.User, error) {
	fieldErrs := FieldErrors{}
	if err := validator.Username(username); err != nil {
		fieldErrs.Add("username", err)
	}

	byUsername, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	byEmail, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var user *models.User
	switch {
	case byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID:
		// Same pair as before: re-issue the code.
		user = byUsername
	case byUsername != nil || byEmail != nil:
		if byUsername != nil {
			fieldErrs.Add("username", ErrUsernameInUse)
		}
		if byEmail != nil {
			fieldErrs.Add("email", ErrEmailInUse)
		}
	}

	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	if user == nil {
		user = &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			// The storage constraint backstops a race between the
			// pre-checks and the insert.
			switch {
			case errors.Is(err, repository.ErrDuplicateUsername):
				fieldErrs.Add("username", ErrUsernameInUse)
				return nil, fieldErrs
			case errors.Is(err, repository.ErrDuplicateEmail):
				fieldErrs.Add("email", ErrEmailInUse)
				return nil, fieldErrs
			}
			return nil, err
		}
	}

	if err := s.issueConfirmationCode(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) issueConfirmationCode(ctx context.Context, user *models.User) error {
	code := uuid.New().String()

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.codeRepo.Save(ctx, user.Username, string(hash), s.codeTTL); err != nil {
		return err
	}

	if err := s.mailer.SendConfirmationCode(ctx, user.Email, code); err != nil {
		s.logger.ErrorContext(ctx, "failed to deliver confirmation code",
			slog.String("username", user.Username),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// IssueToken exchanges a confirmation code for a signed access token.
// An unknown username propagates as a not-found condition; a wrong or
// expired code is ErrInvalidCode.
func (s *authService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	hash, err := s.codeRepo.Get(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return "", ErrInvalidCode
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(confirmationCode)); err != nil {
		return "", ErrInvalidCode
	}

	// Codes are single-use.
	if err := s.codeRepo.Delete(ctx, username); err != nil {
		s.logger.WarnContext(ctx, "failed to delete used confirmation code",
			slog.String("username", username),
			slog.String("error", err.Error()))
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role.String(),
		"exp":      time.Now().Add(s.accessTokenTTL).Unix(),
		"iat":      time.Now().Unix(),
		"type":     "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, _ := mapClaims["user_id"].(string)
	username, _ := mapClaims["username"].(string)
	roleStr, _ := mapClaims["role"].(string)

	role := models.Role(roleStr)
	if userID == "" || !role.Valid() {
		return nil, errors.New("invalid token claims")
	}

	return &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
	}, nil
}

func (s *authService) AccessTokenTTL() time.Duration {
	return s.accessTokenTTL
}
