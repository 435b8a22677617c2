package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRegistrationClosed = errors.New("registration is closed")
)

type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type Service struct {
	db            database.PGX
	users         userRepository
	jwts          jwtManager
	refreshTokens refreshTokenRepository
	randSource    io.Reader
	tokenLength   int
	bcryptCost    int
}

type userRepository interface {
	CreateUser(ctx context.Context, q database.Queryable, user *model.UserCreate) (int64, error)
	GetUserByEmail(ctx context.Context, q database.Queryable, email string) (*model.User, error)
	CountUsers(ctx context.Context, q database.Queryable) (int64, error)
}

type jwtManager interface {
	CreateToken(id int64) (string, error)
}

type refreshTokenRepository interface {
	Add(ctx context.Context, session string, id int64) error
	Get(ctx context.Context, session string) (int64, error)
	Refresh(ctx context.Context, old, new string) error
	Delete(ctx context.Context, session string) error
}

func NewService(
	db database.PGX,
	users userRepository,
	jwts jwtManager,
	refreshTokens refreshTokenRepository,
	randSource io.Reader,
	tokenLength int,
) *Service {
	if randSource == nil {
		randSource = rand.Reader
	}

	return &Service{
		db:            db,
		users:         users,
		jwts:          jwts,
		refreshTokens: refreshTokens,
		randSource:    randSource,
		tokenLength:   tokenLength,
		bcryptCost:    bcrypt.DefaultCost,
	}
}

// Register creates the practitioner account. Only the first account can be registered.
func (s *Service) Register(ctx context.Context, email, password string) (*model.User, *Tokens, error) {
	var user *model.User
	err := database.InTx(ctx, s.db, func(tx database.Tx) error {
		count, err := s.users.CountUsers(ctx, tx)
		if err != nil {
			return fmt.Errorf("users.CountUsers: %w", err)
		}
		if count > 0 {
			return ErrRegistrationClosed
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		create := &model.UserCreate{Email: normalizeEmail(email), PasswordHash: string(hash)}
		id, err := s.users.CreateUser(ctx, tx, create)
		if err != nil {
			return fmt.Errorf("users.CreateUser: %w", err)
		}

		user = &model.User{ID: id, UserCreate: *create}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.generateTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.User, *Tokens, error) {
	user, err := s.users.GetUserByEmail(ctx, s.db, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("users.GetUserByEmail: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Refresh rotates the refresh token. An unknown token yields model.ErrNoRecord.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	id, err := s.refreshTokens.Get(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwts.CreateToken(id)
	if err != nil {
		return nil, err
	}

	newRefreshToken := ""
	for {
		newRefreshToken, err = s.generateRandomString(s.tokenLength)
		if err != nil {
			return nil, err
		}

		if err := s.refreshTokens.Refresh(ctx, refreshToken, newRefreshToken); err != nil {
			if errors.Is(err, model.ErrAlreadyExists) {
				continue
			}
			return nil, err
		}

		break
	}

	return &Tokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokens.Delete(ctx, refreshToken)
}

func (s *Service) generateTokens(ctx context.Context, id int64) (*Tokens, error) {
	accessToken, err := s.jwts.CreateToken(id)
	if err != nil {
		return nil, err
	}

	refreshToken := ""
	for {
		refreshToken, err = s.generateRandomString(s.tokenLength)
		if err != nil {
			return nil, err
		}

		if err := s.refreshTokens.Add(ctx, refreshToken, id); err != nil {
			if errors.Is(err, model.ErrAlreadyExists) {
				continue
			}
			return nil, err
		}

		break
	}

	return &Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var limit = big.NewInt(int64(len(alphabet)))

func (s *Service) generateRandomString(n int) (string, error) {
	b := make([]byte, n)

	for i := range b {
		num, err := rand.Int(s.randSource, limit)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[num.Int64()]
	}

	return string(b), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
