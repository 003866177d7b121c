package application

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DarieldonMedeiros/santander-bootcamp/internal/domain/entity"
	"github.com/DarieldonMedeiros/santander-bootcamp/internal/domain/repository"
)

// MockUserRepository is a testify mock of the persistence gateway.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*entity.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) ExistsByAccountNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByCardNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, u *entity.User) (*entity.User, error) {
	args := m.Called(ctx, u)
	saved, _ := args.Get(0).(*entity.User)
	return saved, args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func newTestService(repo *MockUserRepository) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(repo, logger, nil, "")
}

func newAccount() *entity.Account {
	return &entity.Account{Number: "00000001-0", Agency: "0001", Balance: 1000.00, Limit: 500.00}
}

func newCard() *entity.Card {
	return &entity.Card{Number: "xxxx xxxx xxxx 0001", Limit: 2000.00}
}

func newUser() *entity.User {
	return &entity.User{
		Name:    "Darieldon",
		Account: newAccount(),
		Card:    newCard(),
		Features: []entity.Feature{
			{Icon: "icon1.png", Description: "Feature 1"},
			{Icon: "icon2.png", Description: "Feature 2"},
		},
		News: []entity.News{
			{Icon: "news1.png", Description: "News 1"},
			{Icon: "news2.png", Description: "News 2"},
		},
	}
}

func newUserWithID(id int64) *entity.User {
	u := newUser()
	u.ID = id
	return u
}

func TestService_FindAll(t *testing.T) {
	ctx := context.Background()

	t.Run("returns users when users exist", func(t *testing.T) {
		repo := &MockUserRepository{}
		repo.On("FindAll", ctx).Return([]*entity.User{newUserWithID(2), newUserWithID(3)}, nil)

		users, err := newTestService(repo).FindAll(ctx)

		require.NoError(t, err)
		assert.Len(t, users, 2)
		repo.AssertExpectations(t)
	})

	t.Run("returns empty list when no users exist", func(t *testing.T) {
		repo := &MockUserRepository{}
		repo.On("FindAll", ctx).Return([]*entity.User{}, nil)

		users, err := newTestService(repo).FindAll(ctx)

		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestService_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns user when id exists", func(t *testing.T) {
		repo := &MockUserRepository{}
		want := newUserWithID(2)
		repo.On("FindByID", ctx, int64(2)).Return(want, nil)

		got, err := newTestService(repo).FindByID(ctx, 2)

		require.NoError(t, err)
		assert.Equal(t, int64(2), got.ID)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Account, got.Account)
		assert.Equal(t, want.Card, got.Card)
	})

	t.Run("returns ErrNotFound when id does not exist", func(t *testing.T) {
		repo := &MockUserRepository{}
		repo.On("FindByID", ctx, int64(999)).Return(nil, repository.ErrUserNotFound)

		_, err := newTestService(repo).FindByID(ctx, 999)

		assert.ErrorIs(t, err, ErrNotFound)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("fails when user is nil", func(t *testing.T) {
		repo := &MockUserRepository{}

		_, err := newTestService(repo).Create(ctx, nil)

		var berr *BusinessError
		require.ErrorAs(t, err, &berr)
		assert.Equal(t, "User to create must not be null.", berr.Reason)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("creates user when data is valid", func(t *testing.T) {
		repo := &MockUserRepository{}
		u := newUser()
		repo.On("ExistsByAccountNumber", ctx, u.Account.Number).Return(false, nil)
		repo.On("ExistsByCardNumber", ctx, u.Card.Number).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = 2
		}).Return(u, nil)

		saved, err := newTestService(repo).Create(ctx, u)

		require.NoError(t, err)
		assert.Equal(t, int64(2), saved.ID)
		repo.AssertExpectations(t)
	})

	t.Run("normalizes absent collections to empty", func(t *testing.T) {
		repo := &MockUserRepository{}
		u := newUser()
		u.Features = nil
		u.News = nil
		repo.On("ExistsByAccountNumber", ctx, mock.Anything).Return(false, nil)
		repo.On("ExistsByCardNumber", ctx, mock.Anything).Return(false, nil)
		repo.On("Save", ctx, mock.MatchedBy(func(got *entity.User) bool {
			return got.Features != nil && len(got.Features) == 0 &&
				got.News != nil && len(got.News) == 0
		})).Return(u, nil)

		_, err := newTestService(repo).Create(ctx, u)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("fails when account is nil", func(t *testing.T) {
		repo := &MockUserRepository{}
		u := newUser()
		u.Account = nil

		_, err := newTestService(repo).Create(ctx, u)

		var berr *BusinessError
		require.ErrorAs(t, err, &berr)
		assert.Equal(t, "User account must not be null.", berr.Reason)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails when card is nil", func(t *testing.T) {
		repo := &MockUserRepository{}
		u := newUser()
		u.Card = nil

		_, err := newTestService(repo).Create(ctx, u)

		var berr *BusinessError
		require.ErrorAs(t, err, &berr)
		assert.Equal(t, "User card must not be null.", berr.Reason)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails when account number already exists", func(t *testing.T) {
		repo := &MockUserRepository{}
		u := newUser()
		repo.On("ExistsByAccountNumber", ctx, "00000001-0").Return(true, nil)

		_, err := newTestService(repo).Create(ctx, u)

		var berr *BusinessError
		require.ErrorAs(t, err, &berr)
		assert.Equal(t, "This account number already exists.", berr.Reason)
		repo.AssertNotCalled(t, "ExistsByCardNumber", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails when card number already exists", func(t *testing.T) {
		repo := &MockUserRepository{}
		u := newUser()
		repo.On("ExistsByAccountNumber", ctx, mock.Anything).Return(false, nil)
		repo.On("ExistsByCardNumber", ctx, "xxxx xxxx xxxx 0001").Return(true, nil)

		_, err := newTestService(repo).Create(ctx, u)

		var berr *BusinessError
		require.ErrorAs(t, err, &berr)
		assert.Equal(t, "This card number already exists.", berr.Reason)
		repo.AssertCalled(t, "ExistsByAccountNumber", ctx, mock.Anything)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails when creating user with the reserved id", func(t *testing.T) {
		repo := &MockUserRepository{}
		u := newUserWithID(ReservedUserID)

		_, err := newTestService(repo).Create(ctx, u)

		var berr *BusinessError
		require.ErrorAs(t, err, &berr)
		assert.Contains(t, berr.Reason, "can not be created")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates user when data is valid", func(t *testing.T) {
		repo := &MockUserRepository{}
		existing := newUserWithID(2)
		incoming := newUserWithID(2)
		incoming.Name = "Nome Atualizado"

		repo.On("FindByID", ctx, int64(2)).Return(existing, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*entity.User")).
			Return(existing, nil)

		got, err := newTestService(repo).Update(ctx, 2, incoming)

		require.NoError(t, err)
		assert.Equal(t, int64(2), got.ID)
		assert.Equal(t, "Nome Atualizado", got.Name)
		repo.AssertExpectations(t)
	})

	t.Run("overwrites every mutable field", func(t *testing.T) {
		repo := &MockUserRepository{}
		existing := newUserWithID(2)
		incoming := newUserWithID(2)
		incoming.Name = "Novo nome"
		incoming.Account = &entity.Account{Number: "00000121-1", Agency: "0001", Balance: 1000.00, Limit: 500.00}
		incoming.Card = &entity.Card{Number: "xxxx xxxx xxxx 1234", Limit: 2000.00}

		var saved *entity.User
		repo.On("FindByID", ctx, int64(2)).Return(existing, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*entity.User)
		}).Return(existing, nil)

		_, err := newTestService(repo).Update(ctx, 2, incoming)

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "Novo nome", saved.Name)
		assert.Equal(t, "00000121-1", saved.Account.Number)
		assert.Equal(t, "xxxx xxxx xxxx 1234", saved.Card.Number)
		assert.Equal(t, int64(2), saved.ID)
	})

	t.Run("fails when path and body ids differ", func(t *testing.T) {
		repo := &MockUserRepository{}
		incoming := newUserWithID(3)

		_, err := newTestService(repo).Update(ctx, 2, incoming)

		var berr *BusinessError
		require.ErrorAs(t, err, &berr)
		assert.Equal(t, "Update IDs must be the same.", berr.Reason)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails for the reserved id before any lookup", func(t *testing.T) {
		repo := &MockUserRepository{}
		incoming := newUserWithID(ReservedUserID)

		_, err := newTestService(repo).Update(ctx, ReservedUserID, incoming)

		var berr *BusinessError
		require.ErrorAs(t, err, &berr)
		assert.Contains(t, berr.Reason, "can not be updated")
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails with ErrNotFound when target does not exist", func(t *testing.T) {
		repo := &MockUserRepository{}
		repo.On("FindByID", ctx, int64(999)).Return(nil, repository.ErrUserNotFound)

		_, err := newTestService(repo).Update(ctx, 999, newUserWithID(999))

		assert.ErrorIs(t, err, ErrNotFound)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes user when id exists", func(t *testing.T) {
		repo := &MockUserRepository{}
		u := newUserWithID(2)
		repo.On("FindByID", ctx, int64(2)).Return(u, nil)
		repo.On("Delete", ctx, u).Return(nil)

		err := newTestService(repo).Delete(ctx, 2)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("fails for the reserved id before any lookup", func(t *testing.T) {
		repo := &MockUserRepository{}

		err := newTestService(repo).Delete(ctx, ReservedUserID)

		var berr *BusinessError
		require.ErrorAs(t, err, &berr)
		assert.Contains(t, berr.Reason, "can not be deleted")
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("fails with ErrNotFound when id does not exist", func(t *testing.T) {
		repo := &MockUserRepository{}
		repo.On("FindByID", ctx, int64(999)).Return(nil, repository.ErrUserNotFound)

		err := newTestService(repo).Delete(ctx, 999)

		assert.ErrorIs(t, err, ErrNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestMerge(t *testing.T) {
	existing := newUserWithID(2)
	incoming := newUserWithID(7) // identity must come from existing, not incoming
	incoming.Name = "Rebeca"
	incoming.Features = []entity.Feature{{Icon: "x.png", Description: "X"}}
	incoming.News = nil

	merged := merge(existing, incoming)

	assert.Equal(t, int64(2), merged.ID)
	assert.Equal(t, "Rebeca", merged.Name)
	assert.Same(t, incoming.Account, merged.Account)
	assert.Same(t, incoming.Card, merged.Card)
	assert.Len(t, merged.Features, 1)
	assert.Nil(t, merged.News)
}
