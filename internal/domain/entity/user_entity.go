package entity

// User is the aggregate root for the customer profile domain.
// A persisted user always owns exactly one Account and one Card;
// Features and News are owned collections replaced wholesale on update.
//
// ID is zero until the store assigns an identity.
type User struct {
	ID       int64
	Name     string
	Account  *Account
	Card     *Card
	Features []Feature
	News     []News
}

// Account is the user's bank account. Number is a natural key,
// unique across the whole user population.
type Account struct {
	ID      int64
	Number  string
	Agency  string
	Balance float64
	Limit   float64
}

// Card is the user's card. Number is a natural key, unique across
// the whole user population.
type Card struct {
	ID     int64
	Number string
	Limit  float64
}

// Feature is a promotional item shown on the user's home screen.
type Feature struct {
	ID          int64
	Icon        string
	Description string
}

// News has the same shape as Feature but is kept as a distinct entity
// for domain clarity.
type News struct {
	ID          int64
	Icon        string
	Description string
}

// Normalize replaces absent collections with empty ones so callers never
// see nil Features or News on an aggregate leaving the service.
func (u *User) Normalize() {
	if u.Features == nil {
		u.Features = []Feature{}
	}
	if u.News == nil {
		u.News = []News{}
	}
}
