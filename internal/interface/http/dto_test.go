package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarieldonMedeiros/santander-bootcamp/internal/domain/entity"
)

func fullUser() *entity.User {
	return &entity.User{
		ID:   1,
		Name: "Darieldon",
		Account: &entity.Account{
			ID: 1, Number: "00000001-0", Agency: "0001", Balance: 1000.00, Limit: 500.00,
		},
		Card: &entity.Card{ID: 1, Number: "xxxx xxxx xxxx 0001", Limit: 500.00},
		Features: []entity.Feature{
			{ID: 1, Icon: "icon1.png", Description: "Feature 1"},
			{ID: 2, Icon: "icon2.png", Description: "Feature 2"},
		},
		News: []entity.News{
			{ID: 1, Icon: "news1.png", Description: "News 1"},
			{ID: 2, Icon: "news2.png", Description: "News 2"},
		},
	}
}

func TestNewUserDTO(t *testing.T) {
	t.Run("converts full aggregate", func(t *testing.T) {
		u := fullUser()

		d := NewUserDTO(u)

		require.NotNil(t, d.ID)
		assert.Equal(t, u.ID, *d.ID)
		assert.Equal(t, u.Name, d.Name)
		require.NotNil(t, d.Account)
		assert.Equal(t, u.Account.Number, d.Account.Number)
		require.NotNil(t, d.Card)
		assert.Equal(t, u.Card.Number, d.Card.Number)
		assert.Len(t, d.Features, 2)
		assert.Len(t, d.News, 2)
	})

	t.Run("converts aggregate with absent fields", func(t *testing.T) {
		u := &entity.User{ID: 1, Name: "Rebeca"}

		d := NewUserDTO(u)

		require.NotNil(t, d.ID)
		assert.Equal(t, int64(1), *d.ID)
		assert.Equal(t, "Rebeca", d.Name)
		assert.Nil(t, d.Account)
		assert.Nil(t, d.Card)
		assert.NotNil(t, d.Features)
		assert.Empty(t, d.Features)
		assert.NotNil(t, d.News)
		assert.Empty(t, d.News)
	})
}

func TestUserDTO_ToModel(t *testing.T) {
	t.Run("converts dto with absent fields", func(t *testing.T) {
		id := int64(1)
		d := UserDTO{ID: &id, Name: "Harry"}

		u := d.ToModel()

		assert.Equal(t, int64(1), u.ID)
		assert.Equal(t, "Harry", u.Name)
		assert.Nil(t, u.Account)
		assert.Nil(t, u.Card)
		assert.NotNil(t, u.Features)
		assert.Empty(t, u.Features)
		assert.NotNil(t, u.News)
		assert.Empty(t, u.News)
	})

	t.Run("absent id maps to zero identity", func(t *testing.T) {
		d := UserDTO{Name: "Darieldon"}

		u := d.ToModel()

		assert.Zero(t, u.ID)
	})
}

func TestUserConversionRoundTrip(t *testing.T) {
	original := fullUser()

	dto := NewUserDTO(original)
	converted := dto.ToModel()

	assert.Equal(t, original.ID, converted.ID)
	assert.Equal(t, original.Name, converted.Name)
	assert.Equal(t, original.Account.Number, converted.Account.Number)
	assert.Equal(t, original.Card.Number, converted.Card.Number)
	assert.Len(t, converted.Features, len(original.Features))
	assert.Len(t, converted.News, len(original.News))
}
