package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/cueclub/tournament-engine/models"
	"github.com/cueclub/tournament-engine/repositories"
)

const tokenTTL = 24 * time.Hour

type Claims struct {
	UserID int               `json:"user_id"`
	Role   models.PlayerRole `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, fullName, email, password string, nickname *string) (*models.Player, error)
	Login(ctx context.Context, email, password string) (string, *models.Player, error)
	ParseToken(tokenString string) (*Claims, error)
}

type authService struct {
	playerRepo repositories.PlayerRepository
	jwtSecret  []byte
}

func NewAuthService(playerRepo repositories.PlayerRepository, jwtSecret string) AuthService {
	return &authService{playerRepo: playerRepo, jwtSecret: []byte(jwtSecret)}
}

func (s *authService) Register(ctx context.Context, fullName, email, password string, nickname *string) (*models.Player, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	player := &models.Player{
		FullName:     fullName,
		Nickname:     nickname,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RolePlayer,
		// New members start at the bottom of the ladder until the club
		// assigns a rank.
		Rank:   models.RankK,
		Rating: 1000,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrEmailAlreadyTaken) {
			return nil, ErrEmailAlreadyTaken
		}
		return nil, err
	}
	return player, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.Player, error) {
	player, err := s.playerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID: player.ID,
		Role:   player.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, player, nil
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
