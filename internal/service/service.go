package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"housesign-server/internal/lifecycle"
	"housesign-server/internal/model"
	"housesign-server/internal/repository"
	"housesign-server/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Cache - интерфейс кэша документов и блэклиста токенов. Реализуется
// internal/cache.RedisCache; интерфейс здесь, чтобы сервис можно было
// тестировать без Redis.
type Cache interface {
	GetDocumentItem(ctx context.Context, key string) ([]byte, error)
	SetDocumentItem(ctx context.Context, key string, data []byte) error
	GetDocumentList(ctx context.Context, key string) ([]byte, error)
	SetDocumentList(ctx context.Context, key string, data []byte) error
	InvalidateDocumentLists(ctx context.Context) error
	InvalidateDocumentItem(ctx context.Context, key string) error
	BlacklistToken(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, tokenHash string) (bool, error)
}

// BlobStore - blob-коллаборатор (internal/storage.FileStore).
type BlobStore interface {
	Save(name string, src io.Reader) (string, error)
	Load(fileID string) (string, error)
	Raw(fileID string) ([]byte, error)
	Delete(fileID string)
}

type Service struct {
	userRepo  repository.UserRepository
	docRepo   repository.DocumentRepository
	cache     Cache
	blobs     BlobStore
	engine    *lifecycle.Engine
	jwtSecret []byte
	baseURL   string
}

func NewService(userRepo repository.UserRepository, docRepo repository.DocumentRepository, cache Cache, blobs BlobStore, jwtSecret, baseURL string) *Service {
	return &Service{
		userRepo:  userRepo,
		docRepo:   docRepo,
		cache:     cache,
		blobs:     blobs,
		engine:    lifecycle.NewEngine(),
		jwtSecret: []byte(jwtSecret),
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// --- User Service ---

func (s *Service) Signup(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" || name == "" {
		return errors.New("all fields are required")
	}
	if err := utils.ValidateEmail(email); err != nil {
		return err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		Name:         name,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
	}

	err = s.userRepo.CreateUser(ctx, user)
	if err != nil {
		// Проверка на уникальность email
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return errors.New("email already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", errors.New("invalid email or password")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return "", errors.New("invalid email or password")
	}

	// Генерируем JWT токен
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"exp":     time.Now().Add(time.Hour * 24).Unix(), // Токен действует 24 часа
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}

	// Проверяем блэклист по хэшу токена
	isBlacklisted, err := s.cache.IsTokenBlacklisted(ctx, utils.HashToken(tokenString))
	if err != nil {
		// Ошибка Redis: для безопасности считаем токен недействительным
		log.Printf("Error checking blacklist: %v", err)
		return nil, fmt.Errorf("error checking token status: %w", err)
	}
	if isBlacklisted {
		return nil, errors.New("token has been logged out")
	}

	return token, nil
}

// UserFromToken возвращает пользователя, которому выдан токен.
func (s *Service) UserFromToken(ctx context.Context, tokenString string) (model.User, error) {
	token, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return model.User{}, errors.New("unauthorized")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.User{}, errors.New("invalid token claims")
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return model.User{}, errors.New("invalid token claims")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return model.User{}, errors.New("unauthorized")
	}
	return user, nil
}

func (s *Service) Logout(ctx context.Context, tokenString string) error {
	token, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return errors.New("invalid or malformed token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("failed to parse token claims")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return errors.New("token has no expiration time")
	}

	// TTL - время до истечения токена; истёкший токен держим в
	// блэклисте минимально, чтобы ключ не жил вечно.
	ttl := time.Until(exp.Time)
	if ttl <= 0 {
		ttl = time.Second
	}

	if err := s.cache.BlacklistToken(ctx, utils.HashToken(tokenString), ttl); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}
