package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/practice-api/internal/mocks"
	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/logger"
	"github.com/jwalitptl/practice-api/pkg/security"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mocks.MockUserRepository) *Service {
	return NewService(repo, security.NewBcryptHasher(bcrypt.MinCost), func() time.Time { return now }, logger.Nop())
}

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "ana@example.com" &&
			u.Role == model.RoleReceptionist &&
			u.Status == model.UserStatusActive &&
			u.Password != nil && *u.Password != "s3cret-pass" &&
			u.CreatedAt.Equal(now)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 7
	}).Return(nil)

	user, err := svc.Create(context.Background(), model.NewUser{
		Username: "ana",
		Email:    " Ana@Example.com ",
		Password: strPtr("s3cret-pass"),
		FullName: "Ana Souza",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte("s3cret-pass")))
	repo.AssertExpectations(t)
}

func TestService_Create_GoogleAccountWithoutPassword(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Password == nil && u.GoogleID != nil
	})).Return(nil)

	user, err := svc.Create(context.Background(), model.NewUser{
		Username: "bruno",
		Email:    "bruno@example.com",
		FullName: "Bruno Lima",
		Role:     model.RolePsychologist,
		GoogleID: strPtr("1234567890"),
	})
	require.NoError(t, err)
	assert.False(t, user.HasPassword())
	repo.AssertExpectations(t)
}

func TestService_Create_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   model.NewUser
	}{
		{"no credentials", model.NewUser{Username: "ana", Email: "ana@example.com", FullName: "Ana"}},
		{"bad email", model.NewUser{Username: "ana", Email: "not-an-email", FullName: "Ana", Password: strPtr("s3cret-pass")}},
		{"short password", model.NewUser{Username: "ana", Email: "ana@example.com", FullName: "Ana", Password: strPtr("short")}},
		{"unknown role", model.NewUser{Username: "ana", Email: "ana@example.com", FullName: "Ana", Password: strPtr("s3cret-pass"), Role: "janitor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockUserRepository)
			svc := newTestService(repo)

			_, err := svc.Create(context.Background(), tt.in)
			assert.True(t, errors.IsCode(err, errors.ErrValidation), "got %v", err)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Create_Duplicate(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)

	repo.On("Create", mock.Anything, mock.Anything).
		Return(errors.Duplicate("user", "users_email_key", nil))

	_, err := svc.Create(context.Background(), model.NewUser{
		Username: "ana", Email: "ana@example.com", FullName: "Ana", Password: strPtr("s3cret-pass"),
	})
	assert.ErrorIs(t, err, errors.DuplicateError)
}

func TestService_SetStatus(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)

	repo.On("UpdateStatus", mock.Anything, int64(3), model.UserStatusInactive, now).Return(nil)

	require.NoError(t, svc.SetStatus(context.Background(), 3, model.UserStatusInactive))
	assert.True(t, errors.IsCode(svc.SetStatus(context.Background(), 3, "gone"), errors.ErrValidation))
	repo.AssertExpectations(t)
}

func TestService_ChangePassword(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{Base: model.Base{ID: 4}, Password: strPtr(string(hash))}

	repo.On("Get", mock.Anything, int64(4)).Return(stored, nil)
	repo.On("UpdatePassword", mock.Anything, int64(4), mock.AnythingOfType("string"), now).Return(nil).Once()

	assert.True(t, errors.IsCode(svc.ChangePassword(context.Background(), 4, "wrong-password", "new-password"), errors.ErrUnauthorized))
	require.NoError(t, svc.ChangePassword(context.Background(), 4, "old-password", "new-password"))
	repo.AssertExpectations(t)
}

func TestService_List_NormalizesPage(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)

	repo.On("List", mock.Anything, mock.MatchedBy(func(f model.UserFilter) bool {
		return f.Limit == 50 && f.Role == model.RoleAdmin
	})).Return([]*model.User{{Username: "root"}}, nil)

	users, err := svc.List(context.Background(), model.UserFilter{Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = svc.List(context.Background(), model.UserFilter{Role: "nobody"})
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
}
