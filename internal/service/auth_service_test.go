package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"lostfound/internal/config"
	"lostfound/internal/domain"
	"lostfound/internal/service"
	"lostfound/internal/tokenstore/memory"
	"lostfound/internal/validator"
	"lostfound/mocks"
)

const testPassword = "Abc123@x"

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-key-that-is-long-enough",
		AccessTokenExpiry: 15 * time.Minute,
		Issuer:            "lostfound-test",
	}
}

func setupAuthService() (service.AuthService, *mocks.MockUserRepo) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, memory.NewStore(), testJWTConfig(), zap.NewNop())
	return svc, userRepo
}

func signupForm() validator.SignupForm {
	return validator.SignupForm{
		Firstname: "Priya",
		Lastname:  "Sharma",
		Username:  "priya01",
		Phone:     "9876543210",
		Email:     "priya@campus.edu",
		Password:  testPassword,
	}
}

func storedUser(t *testing.T) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		Firstname:    "Priya",
		Email:        "priya@campus.edu",
		PasswordHash: string(hash),
	}
}

func TestAuthService_SignUp(t *testing.T) {
	svc, userRepo := setupAuthService()
	ctx := context.Background()

	var events []service.SessionEvent
	svc.OnSessionChange(func(ev service.SessionEvent) { events = append(events, ev) })

	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.User).ID = uuid.New() }).
		Return(nil)

	user, err := svc.SignUp(ctx, signupForm())

	require.NoError(t, err)
	assert.Equal(t, "priya@campus.edu", user.Email)
	assert.NotEqual(t, testPassword, user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(testPassword)))
	require.Len(t, events, 1)
	assert.Equal(t, service.SessionSignedUp, events[0].Type)
	assert.Nil(t, events[0].Session)
}

func TestAuthService_SignUp_Invalid(t *testing.T) {
	svc, userRepo := setupAuthService()

	form := signupForm()
	form.Phone = "12345"
	form.Password = "password"
	_, err := svc.SignUp(context.Background(), form)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, validator.MsgPhoneInvalid, verr.Fields[validator.FieldPhone])
	assert.Equal(t, validator.MsgPasswordInvalid, verr.Fields[validator.FieldPassword])
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	svc, userRepo := setupAuthService()
	ctx := context.Background()

	userRepo.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicateEmail)

	_, err := svc.SignUp(ctx, signupForm())

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAuthService_SignInAndValidate(t *testing.T) {
	svc, userRepo := setupAuthService()
	ctx := context.Background()
	user := storedUser(t)

	var events []service.SessionEvent
	svc.OnSessionChange(func(ev service.SessionEvent) { events = append(events, ev) })
	userRepo.On("GetByEmail", ctx, "priya@campus.edu").Return(user, nil)

	token, err := svc.SignIn(ctx, validator.LoginForm{Email: " priya@campus.edu ", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, user, token.User)

	claims, err := svc.ValidateToken(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "priya@campus.edu", claims.Session().Email)

	require.Len(t, events, 1)
	assert.Equal(t, service.SessionSignedIn, events[0].Type)
	assert.Equal(t, claims.ID, events[0].Session.TokenID)
}

func TestAuthService_SignIn_WrongPasswordAndUnknownEmailMatch(t *testing.T) {
	svc, userRepo := setupAuthService()
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "priya@campus.edu").Return(storedUser(t), nil)
	userRepo.On("GetByEmail", ctx, "ghost@campus.edu").Return(nil, domain.ErrNotFound)

	_, wrongPass := svc.SignIn(ctx, validator.LoginForm{Email: "priya@campus.edu", Password: "Zzz999@z"})
	_, unknown := svc.SignIn(ctx, validator.LoginForm{Email: "ghost@campus.edu", Password: testPassword})

	assert.ErrorIs(t, wrongPass, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, domain.ErrInvalidCredentials)
}

func TestAuthService_SignIn_StoreFailure(t *testing.T) {
	svc, userRepo := setupAuthService()
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.SignIn(ctx, validator.LoginForm{Email: "priya@campus.edu", Password: testPassword})

	assert.ErrorIs(t, err, domain.ErrAuth)
}

func TestAuthService_SignOut_RevokesToken(t *testing.T) {
	svc, userRepo := setupAuthService()
	ctx := context.Background()
	userRepo.On("GetByEmail", ctx, mock.Anything).Return(storedUser(t), nil)

	token, err := svc.SignIn(ctx, validator.LoginForm{Email: "priya@campus.edu", Password: testPassword})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, token.AccessToken)
	require.NoError(t, err)

	var signedOut bool
	svc.OnSessionChange(func(ev service.SessionEvent) { signedOut = ev.Type == service.SessionSignedOut })

	require.NoError(t, svc.SignOut(ctx, claims))
	assert.True(t, signedOut)

	_, err = svc.ValidateToken(ctx, token.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthService_SignOut_Anonymous(t *testing.T) {
	svc, _ := setupAuthService()
	assert.ErrorIs(t, svc.SignOut(context.Background(), nil), domain.ErrUnauthenticated)
}

func TestAuthService_ValidateToken_Rejects(t *testing.T) {
	svc, _ := setupAuthService()
	cfg := testJWTConfig()

	sign := func(secret string, aud string, exp time.Time) string {
		claims := &service.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.New().String(),
				Audience:  jwt.ClaimStrings{aud},
				ExpiresAt: jwt.NewNumericDate(exp),
			},
			UserID: uuid.New(),
		}
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign("other-secret", "access", time.Now().Add(time.Hour))},
		{"wrong audience", sign(cfg.Secret, "refresh", time.Now().Add(time.Hour))},
		{"expired", sign(cfg.Secret, "access", time.Now().Add(-time.Minute))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}

func TestAuthService_OnSessionChange_Unsubscribe(t *testing.T) {
	svc, userRepo := setupAuthService()
	ctx := context.Background()
	userRepo.On("Create", ctx, mock.Anything).Return(nil)

	calls := 0
	unsubscribe := svc.OnSessionChange(func(service.SessionEvent) { calls++ })
	_, err := svc.SignUp(ctx, signupForm())
	require.NoError(t, err)

	unsubscribe()
	_, err = svc.SignUp(ctx, signupForm())
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestAuthService_Me(t *testing.T) {
	svc, userRepo := setupAuthService()
	ctx := context.Background()
	user := storedUser(t)

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	userRepo.On("GetByID", ctx, mock.Anything).Return(nil, domain.ErrNotFound)

	got, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAccountEmailObserver(t *testing.T) {
	queue := new(mocks.MockNotificationQueue)
	obs := service.AccountEmailObserver(queue)
	user := &domain.User{Firstname: "Priya", Email: "priya@campus.edu"}

	queue.On("Enqueue", mock.MatchedBy(func(n domain.Notification) bool {
		return n.Kind == domain.NotificationSignup && n.To == user.Email && n.Variables["name"] == "Priya"
	})).Return(true).Once()
	queue.On("Enqueue", mock.MatchedBy(func(n domain.Notification) bool {
		return n.Kind == domain.NotificationLogin && n.Variables["type"] == "login"
	})).Return(true).Once()

	obs(service.SessionEvent{Type: service.SessionSignedUp, User: user})
	obs(service.SessionEvent{Type: service.SessionSignedIn, User: user})
	obs(service.SessionEvent{Type: service.SessionSignedOut, Session: &domain.UserSession{}})

	queue.AssertExpectations(t)
	queue.AssertNumberOfCalls(t, "Enqueue", 2)
}
