package domain

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/klixid/movie-booking/internal/model"
	"github.com/klixid/movie-booking/internal/repository"
	"github.com/klixid/movie-booking/internal/service"
)

const tokenLifetime = 15 * 24 * time.Hour

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Claims is the payload carried in every access token.
type Claims struct {
	UserID uint           `json:"userId"`
	Role   model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	SignUp(email, password string) (*model.User, string, error)
	Login(email, password string) (*model.User, string, error)
	ParseToken(token string) (*Claims, error)
}

type authService struct {
	logger *zap.Logger
	secret []byte

	users repository.UserRepo

	now func() time.Time
}

var _ AuthService = (*authService)(nil)

func NewAuthService(logger *zap.Logger, secret string, userRepo repository.UserRepo) *authService {
	return &authService{
		logger: logger,
		secret: []byte(secret),
		users:  userRepo,
		now:    time.Now,
	}
}

func (s *authService) SignUp(email, password string) (*model.User, string, error) {
	if !emailPattern.MatchString(email) {
		return nil, "", fmt.Errorf("%w: invalid email", service.ErrValidation)
	}
	if len(password) < 6 {
		return nil, "", fmt.Errorf("%w: password must be at least 6 characters", service.ErrValidation)
	}

	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, "", service.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	profilePics := []string{"/avatar1.png", "/avatar2.png", "/avatar3.png"}
	user := &model.User{
		Email:          email,
		HashedPassword: string(hash),
		Image:          profilePics[rand.Intn(len(profilePics))],
		Role:           model.RoleUser,
	}
	if err := s.users.Create(user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user signed up", zap.Uint("user_id", user.ID))
	return user, token, nil
}

func (s *authService) Login(email, password string) (*model.User, string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", service.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, "", service.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, service.ErrInvalidCredentials
	}
	return claims, nil
}

func (s *authService) issueToken(user *model.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
