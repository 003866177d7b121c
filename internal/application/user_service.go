package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/DarieldonMedeiros/santander-bootcamp/internal/domain/entity"
	repo "github.com/DarieldonMedeiros/santander-bootcamp/internal/domain/repository"
)

// ReservedUserID is the identity of the protected seed profile. It can be
// read and listed but never created, updated or deleted through the service.
const ReservedUserID int64 = 1

// ErrNotFound signals that no aggregate exists for the requested identity.
var ErrNotFound = errors.New("resource not found")

// BusinessError is a validation failure rooted in a domain invariant.
// Reason is one of a fixed set of stable, human-readable messages.
type BusinessError struct {
	Reason string
}

func (e *BusinessError) Error() string { return e.Reason }

func businessErrf(format string, args ...any) error {
	return &BusinessError{Reason: fmt.Sprintf(format, args...)}
}

// Service owns every validation rule, uniqueness check, reserved-identity
// guard and merge decision for the user aggregate. All failures are
// synchronous and terminal; nothing is retried or partially persisted.
type Service struct {
	Repo         repo.UserRepository
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewService(r repo.UserRepository, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *Service {
	return &Service{Repo: r, Logger: logger, ES: es, ESUsersIndex: esUsersIndex}
}

// FindAll returns every persisted user; no validation, no side effects.
func (s *Service) FindAll(ctx context.Context) ([]*entity.User, error) {
	return s.Repo.FindAll(ctx)
}

// FindByID returns the user for id or ErrNotFound.
func (s *Service) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// Create validates the candidate aggregate and persists it with a new
// store-assigned identity. Checks run in a fixed order and the first
// failure wins; no write happens on any failure.
func (s *Service) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	if u == nil {
		return nil, businessErrf("User to create must not be null.")
	}
	if u.ID == ReservedUserID {
		return nil, businessErrf("User with ID %d can not be created.", ReservedUserID)
	}
	if u.Account == nil {
		return nil, businessErrf("User account must not be null.")
	}
	if u.Card == nil {
		return nil, businessErrf("User card must not be null.")
	}
	exists, err := s.Repo.ExistsByAccountNumber(ctx, u.Account.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, businessErrf("This account number already exists.")
	}
	exists, err = s.Repo.ExistsByCardNumber(ctx, u.Card.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, businessErrf("This card number already exists.")
	}

	u.Normalize()
	saved, err := s.Repo.Save(ctx, u)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": saved.ID, "account": saved.Account.Number}).Info("user created")
	}
	_ = s.indexUser(ctx, saved)
	return saved, nil
}

// Update replaces the mutable fields of the user at id with those of
// incoming and returns the persisted result. The reserved-identity guard
// runs before any store lookup; the id carried by the payload must match
// the id resolved from the target reference. Account/card numbers are
// deliberately not re-checked for uniqueness here, unlike Create.
func (s *Service) Update(ctx context.Context, id int64, incoming *entity.User) (*entity.User, error) {
	if id == ReservedUserID {
		return nil, businessErrf("User with ID %d can not be updated.", ReservedUserID)
	}
	if incoming == nil {
		return nil, businessErrf("User to update must not be null.")
	}
	if incoming.ID != id {
		return nil, businessErrf("Update IDs must be the same.")
	}
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := merge(existing, incoming)
	merged.Normalize()
	saved, err := s.Repo.Save(ctx, merged)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", saved.ID).Info("user updated")
	}
	_ = s.indexUser(ctx, saved)
	return saved, nil
}

// Delete removes the user at id. The reserved-identity guard runs before
// the existence lookup.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id == ReservedUserID {
		return businessErrf("User with ID %d can not be deleted.", ReservedUserID)
	}
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, u); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", id).Info("user deleted")
	}
	_ = s.removeUserDoc(ctx, id)
	return nil
}

// merge overwrites every mutable field of existing with the incoming
// values, taking ownership of the incoming account, card and collections.
// Identity always comes from the existing record.
func merge(existing, incoming *entity.User) *entity.User {
	existing.Name = incoming.Name
	existing.Account = incoming.Account
	existing.Card = incoming.Card
	existing.Features = incoming.Features
	existing.News = incoming.News
	return existing
}

// indexUser pushes the aggregate into Elasticsearch, best-effort. Search is
// an auxiliary read model; failures are logged and never surfaced.
func (s *Service) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":   u.ID,
		"name": u.Name,
	}
	if u.Account != nil {
		doc["account_number"] = u.Account.Number
		doc["agency"] = u.Account.Agency
	}
	if u.Card != nil {
		doc["card_number"] = u.Card.Number
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESUsersIndex,
		DocumentID: fmt.Sprintf("%d", u.ID),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

func (s *Service) removeUserDoc(ctx context.Context, id int64) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: fmt.Sprintf("%d", id)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("es delete failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	return nil
}

// Search performs a simple multi_match over name and account number in
// Elasticsearch. With no client configured it returns an empty result.
func (s *Service) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "account_number"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
