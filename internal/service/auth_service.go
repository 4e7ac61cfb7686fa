package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"lostfound/internal/config"
	"lostfound/internal/domain"
	"lostfound/internal/port"
	"lostfound/internal/validator"
)

const accessAudience = "access"

// Claims represents the JWT claims for a signed-in end user.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// Session converts the claims into the request-scoped user session.
func (c *Claims) Session() *domain.UserSession {
	return &domain.UserSession{UserID: c.UserID, Email: c.Email, TokenID: c.ID}
}

// AuthToken is returned on successful sign-in.
type AuthToken struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *domain.User `json:"user"`
}

// SessionEventType names a change in end-user session state.
type SessionEventType string

const (
	SessionSignedUp  SessionEventType = "signed_up"
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
)

// SessionEvent is delivered to session observers. User is nil for
// sign-out.
type SessionEvent struct {
	Type    SessionEventType
	User    *domain.User
	Session *domain.UserSession
}

// SessionObserver reacts to session changes. Observers run synchronously
// and must not block.
type SessionObserver func(SessionEvent)

// AuthService is the identity provider for end users.
type AuthService interface {
	SignUp(ctx context.Context, input validator.SignupForm) (*domain.User, error)
	SignIn(ctx context.Context, input validator.LoginForm) (*AuthToken, error)
	SignOut(ctx context.Context, claims *Claims) error
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
	Me(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	OnSessionChange(obs SessionObserver) func()
}

type authService struct {
	userRepo port.UserRepository
	tokens   port.TokenStore
	cfg      config.JWTConfig
	logger   *zap.Logger

	mu        sync.RWMutex
	nextObsID int
	observers map[int]SessionObserver
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(
	userRepo port.UserRepository,
	tokens port.TokenStore,
	cfg config.JWTConfig,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		cfg:       cfg,
		logger:    logger,
		observers: make(map[int]SessionObserver),
	}
}

// SignUp creates an account. It does not sign the user in.
func (s *authService) SignUp(ctx context.Context, input validator.SignupForm) (*domain.User, error) {
	if errs := validator.ValidateSignup(input); !validator.IsSignupReady(input, errs) {
		return nil, &domain.ValidationError{Fields: errs}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.Auth(fmt.Errorf("hashing password: %w", err))
	}

	user := &domain.User{
		Firstname:    strings.TrimSpace(input.Firstname),
		Lastname:     strings.TrimSpace(input.Lastname),
		Username:     input.Username,
		Phone:        input.Phone,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		s.logger.Error("sign up failed", zap.String("email", user.Email), zap.Error(err))
		return nil, domain.Auth(err)
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID.String()))
	s.notify(SessionEvent{Type: SessionSignedUp, User: user})
	return user, nil
}

// SignIn checks the credentials and issues an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *authService) SignIn(ctx context.Context, input validator.LoginForm) (*AuthToken, error) {
	if errs := validator.ValidateLogin(input); !validator.IsLoginReady(input, errs) {
		return nil, &domain.ValidationError{Fields: errs}
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		s.logger.Error("sign in lookup failed", zap.Error(err))
		return nil, domain.Auth(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, claims, err := s.generateAccessToken(user)
	if err != nil {
		return nil, domain.Auth(err)
	}

	s.logger.Info("user signed in", zap.String("user_id", user.ID.String()))
	s.notify(SessionEvent{Type: SessionSignedIn, User: user, Session: claims.Session()})
	return token, nil
}

// SignOut revokes the token id for the rest of its lifetime.
func (s *authService) SignOut(ctx context.Context, claims *Claims) error {
	if claims == nil {
		return domain.ErrUnauthenticated
	}
	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.tokens.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("token revoke failed", zap.Error(err))
		return domain.Auth(err)
	}

	s.logger.Info("user signed out", zap.String("user_id", claims.UserID.String()))
	s.notify(SessionEvent{Type: SessionSignedOut, Session: claims.Session()})
	return nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithAudience(accessAudience))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing token: %w", domain.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthenticated
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, domain.Auth(err)
	}
	if revoked {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, domain.Auth(err)
	}
	return user, nil
}

// OnSessionChange registers obs and returns a func that removes it.
func (s *authService) OnSessionChange(obs SessionObserver) func() {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = obs
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *authService) notify(ev SessionEvent) {
	s.mu.RLock()
	obs := make([]SessionObserver, 0, len(s.observers))
	for _, o := range s.observers {
		obs = append(obs, o)
	}
	s.mu.RUnlock()

	for _, o := range obs {
		o(ev)
	}
}

func (s *authService) generateAccessToken(user *domain.User) (*AuthToken, *Claims, error) {
	now := time.Now()
	expiry := now.Add(s.cfg.AccessTokenExpiry)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{accessAudience},
		},
		UserID: user.ID,
		Email:  user.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, nil, fmt.Errorf("signing access token: %w", err)
	}

	return &AuthToken{AccessToken: signed, ExpiresAt: expiry, User: user}, claims, nil
}
