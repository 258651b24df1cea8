package identity_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/domain/identity"
	"github.com/your-org/storefront-backend/internal/infrastructure/credentials"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/snapshot"
)

type mockCreds struct {
	mock.Mock
}

func (m *mockCreds) SignIn(ctx context.Context, email, password string) (*credentials.Account, error) {
	args := m.Called(ctx, email, password)
	if acc := args.Get(0); acc != nil {
		return acc.(*credentials.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCreds) SignUp(ctx context.Context, email, password string) (*credentials.Account, error) {
	args := m.Called(ctx, email, password)
	if acc := args.Get(0); acc != nil {
		return acc.(*credentials.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCreds) SendPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockCreds) SignInMethods(ctx context.Context, email string) ([]string, error) {
	args := m.Called(ctx, email)
	if methods := args.Get(0); methods != nil {
		return methods.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

type fakeRemote struct {
	data map[string]string
}

func (f *fakeRemote) Read(_ context.Context, path string, dest interface{}) error {
	raw, ok := f.data[path]
	if !ok {
		return fmt.Errorf("not found")
	}
	return json.Unmarshal([]byte(raw), dest)
}

func (f *fakeRemote) Write(_ context.Context, path string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[path] = string(raw)
	return nil
}

func newIdentityTest(t *testing.T) (*identity.Service, *snapshot.Store, *fakeRemote, *mockCreds) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	snap, err := snapshot.Open(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = snap.Close() })

	rs := &fakeRemote{data: make(map[string]string)}
	creds := &mockCreds{}
	return identity.NewService(snap, rs, creds, logger), snap, rs, creds
}

func TestLogin_UsesRemoteProfileUsername(t *testing.T) {
	svc, snap, rs, creds := newIdentityTest(t)
	ctx := context.Background()

	rs.data["users/uid-1"] = `{"username":"janedoe","email":"jane@shop.com"}`
	creds.On("SignIn", ctx, "jane@shop.com", "secret123").
		Return(&credentials.Account{UID: "uid-1", Email: "jane@shop.com"}, nil)

	id, err := svc.Login(ctx, "jane@shop.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "janedoe", id.Username)

	var persisted identity.Identity
	require.True(t, snap.GetJSON(snapshot.KeyCurrentUser, &persisted))
	assert.Equal(t, "uid-1", persisted.UID)

	username, ok := snap.Get(snapshot.KeyUsername)
	require.True(t, ok)
	assert.Equal(t, "janedoe", username)

	creds.AssertExpectations(t)
}

func TestLogin_FallsBackToEmailPrefix(t *testing.T) {
	svc, _, _, creds := newIdentityTest(t)
	ctx := context.Background()

	creds.On("SignIn", ctx, "jane@shop.com", "secret123").
		Return(&credentials.Account{UID: "uid-1", Email: "jane@shop.com"}, nil)

	id, err := svc.Login(ctx, "jane@shop.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "jane", id.Username)
}

func TestLogin_InvalidCredentialMessages(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		svc, _, _, creds := newIdentityTest(t)
		ctx := context.Background()

		creds.On("SignIn", ctx, "ghost@shop.com", "pw123456").
			Return(nil, credentials.ErrInvalidCredential)
		creds.On("SignInMethods", ctx, "ghost@shop.com").Return([]string{}, nil)

		_, err := svc.Login(ctx, "ghost@shop.com", "pw123456")
		var authErr *identity.AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "No account found with this email.", authErr.Message)
	})

	t.Run("known email wrong password", func(t *testing.T) {
		svc, _, _, creds := newIdentityTest(t)
		ctx := context.Background()

		creds.On("SignIn", ctx, "jane@shop.com", "wrong123").
			Return(nil, credentials.ErrInvalidCredential)
		creds.On("SignInMethods", ctx, "jane@shop.com").Return([]string{"password"}, nil)

		_, err := svc.Login(ctx, "jane@shop.com", "wrong123")
		var authErr *identity.AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "Incorrect password. Please try again.", authErr.Message)
	})
}

func TestLogin_ErrorMessageMap(t *testing.T) {
	tests := []struct {
		credErr *credentials.Error
		want    string
	}{
		{credentials.ErrWrongPassword, "Incorrect password. Please try again."},
		{credentials.ErrUserNotFound, "No account found with this email."},
		{credentials.ErrInvalidEmail, "Enter a valid email address."},
	}

	for _, tt := range tests {
		t.Run(tt.credErr.Code, func(t *testing.T) {
			svc, _, _, creds := newIdentityTest(t)
			ctx := context.Background()

			creds.On("SignIn", ctx, "jane@shop.com", "pw123456").Return(nil, tt.credErr)

			_, err := svc.Login(ctx, "jane@shop.com", "pw123456")
			var authErr *identity.AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.want, authErr.Message)
		})
	}
}

func TestLogin_UnexpectedErrorGenericMessage(t *testing.T) {
	svc, _, _, creds := newIdentityTest(t)
	ctx := context.Background()

	creds.On("SignIn", ctx, "jane@shop.com", "pw123456").
		Return(nil, fmt.Errorf("connection refused"))

	_, err := svc.Login(ctx, "jane@shop.com", "pw123456")
	var authErr *identity.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "An unexpected error occurred. Please try again.", authErr.Message)
}

func TestRegister_WritesProfileAndSignsIn(t *testing.T) {
	svc, snap, rs, creds := newIdentityTest(t)
	ctx := context.Background()

	creds.On("SignUp", ctx, "jane@shop.com", "secret123").
		Return(&credentials.Account{UID: "uid-1", Email: "jane@shop.com"}, nil)

	id, err := svc.Register(ctx, "janedoe", "jane@shop.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "janedoe", id.Username)

	assert.JSONEq(t, `{"username":"janedoe","email":"jane@shop.com"}`, rs.data["users/uid-1"])

	current := svc.Current()
	require.NotNil(t, current)
	assert.Equal(t, "uid-1", current.UID)
	_ = snap
}

func TestRegister_EmailInUse(t *testing.T) {
	svc, _, _, creds := newIdentityTest(t)
	ctx := context.Background()

	creds.On("SignUp", ctx, "jane@shop.com", "secret123").
		Return(nil, credentials.ErrEmailInUse)

	_, err := svc.Register(ctx, "janedoe", "jane@shop.com", "secret123")
	var authErr *identity.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "This email is already registered.", authErr.Message)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _, _, creds := newIdentityTest(t)
	ctx := context.Background()

	creds.On("SignUp", ctx, "jane@shop.com", "123").
		Return(nil, credentials.ErrWeakPassword)

	_, err := svc.Register(ctx, "janedoe", "jane@shop.com", "123")
	var authErr *identity.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Password should be at least 6 characters.", authErr.Message)
}

func TestLogout_ClearsIdentityOnly(t *testing.T) {
	svc, snap, _, creds := newIdentityTest(t)
	ctx := context.Background()

	creds.On("SignIn", ctx, "jane@shop.com", "secret123").
		Return(&credentials.Account{UID: "uid-1", Email: "jane@shop.com"}, nil)

	_, err := svc.Login(ctx, "jane@shop.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, snap.Set(snapshot.KeyCart, `[{"id":1,"name":"x","price":"1","quantity":1}]`))

	require.NoError(t, svc.Logout())

	assert.Nil(t, svc.Current())
	_, ok := snap.Get(snapshot.KeyUsername)
	assert.False(t, ok)

	// guest cart survives a logout
	_, ok = snap.Get(snapshot.KeyCart)
	assert.True(t, ok)
}

func TestRedirectStashAndConsume(t *testing.T) {
	svc, _, _, _ := newIdentityTest(t)

	assert.Empty(t, svc.ConsumeRedirect())

	require.NoError(t, svc.StashRedirect("/checkout"))
	assert.Equal(t, "/checkout", svc.ConsumeRedirect())
	assert.Empty(t, svc.ConsumeRedirect())
}
