package handlers

import "github.com/DarieldonMedeiros/santander-bootcamp/internal/domain/entity"

// Wire shapes for the user aggregate. Conversion is idempotent: absent
// collections normalize to empty, absent account/card stay absent.
// The service, not the binding layer, owns all business validation.

type UserDTO struct {
	ID       *int64       `json:"id"`
	Name     string       `json:"name" binding:"omitempty,max=255"`
	Account  *AccountDTO  `json:"account"`
	Card     *CardDTO     `json:"card"`
	Features []FeatureDTO `json:"features"`
	News     []NewsDTO    `json:"news"`
}

type AccountDTO struct {
	ID      *int64  `json:"id"`
	Number  string  `json:"number" binding:"omitempty,max=64"`
	Agency  string  `json:"agency" binding:"omitempty,max=32"`
	Balance float64 `json:"balance"`
	Limit   float64 `json:"limit"`
}

type CardDTO struct {
	ID     *int64  `json:"id"`
	Number string  `json:"number" binding:"omitempty,max=64"`
	Limit  float64 `json:"limit"`
}

type FeatureDTO struct {
	ID          *int64 `json:"id"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type NewsDTO struct {
	ID          *int64 `json:"id"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

func idValue(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

func idRef(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// ToModel converts the wire shape into the in-memory aggregate.
func (d *UserDTO) ToModel() *entity.User {
	u := &entity.User{
		ID:       idValue(d.ID),
		Name:     d.Name,
		Features: []entity.Feature{},
		News:     []entity.News{},
	}
	if d.Account != nil {
		u.Account = &entity.Account{
			ID:      idValue(d.Account.ID),
			Number:  d.Account.Number,
			Agency:  d.Account.Agency,
			Balance: d.Account.Balance,
			Limit:   d.Account.Limit,
		}
	}
	if d.Card != nil {
		u.Card = &entity.Card{
			ID:     idValue(d.Card.ID),
			Number: d.Card.Number,
			Limit:  d.Card.Limit,
		}
	}
	for _, f := range d.Features {
		u.Features = append(u.Features, entity.Feature{
			ID:          idValue(f.ID),
			Icon:        f.Icon,
			Description: f.Description,
		})
	}
	for _, n := range d.News {
		u.News = append(u.News, entity.News{
			ID:          idValue(n.ID),
			Icon:        n.Icon,
			Description: n.Description,
		})
	}
	return u
}

// NewUserDTO converts the aggregate into its wire shape.
func NewUserDTO(u *entity.User) UserDTO {
	d := UserDTO{
		ID:       idRef(u.ID),
		Name:     u.Name,
		Features: []FeatureDTO{},
		News:     []NewsDTO{},
	}
	if u.Account != nil {
		d.Account = &AccountDTO{
			ID:      idRef(u.Account.ID),
			Number:  u.Account.Number,
			Agency:  u.Account.Agency,
			Balance: u.Account.Balance,
			Limit:   u.Account.Limit,
		}
	}
	if u.Card != nil {
		d.Card = &CardDTO{
			ID:     idRef(u.Card.ID),
			Number: u.Card.Number,
			Limit:  u.Card.Limit,
		}
	}
	for _, f := range u.Features {
		d.Features = append(d.Features, FeatureDTO{
			ID:          idRef(f.ID),
			Icon:        f.Icon,
			Description: f.Description,
		})
	}
	for _, n := range u.News {
		d.News = append(d.News, NewsDTO{
			ID:          idRef(n.ID),
			Icon:        n.Icon,
			Description: n.Description,
		})
	}
	return d
}
