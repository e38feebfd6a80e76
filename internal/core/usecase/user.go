package usecase

import (
	"context"
	"fmt"

	"github.com/rbroggi/hbnb/internal/core/model"
	"github.com/rbroggi/hbnb/internal/core/ports"
)

// UserService gathers the functionality around the user-lifecycle.
type UserService struct {
	crud[*model.User]
	hasher ports.PasswordHasher
}

// Create creates a user. The email must not belong to another user and the
// password is stored as a hash salted with the new user id.
func (s *UserService) Create(ctx context.Context, fields model.Fields) (*model.User, error) {
	var user *model.User
	err := s.c.mutate(ctx, func(tx *tx) error {
		if err := s.checkEmail(fields, ""); err != nil {
			return err
		}
		id := s.c.newID()
		fields, err := s.hashPassword(id, fields)
		if err != nil {
			return err
		}
		user, err = s.create(tx, id, fields)
		return err
	})
	return user, err
}

// Update updates a user. It returns a *model.NotFoundError if the ID does not
// correspond to an existing user. A supplied password is hashed again.
func (s *UserService) Update(ctx context.Context, id string, fields model.Fields) (*model.User, error) {
	var user *model.User
	err := s.c.mutate(ctx, func(tx *tx) error {
		if _, err := s.lookup(id); err != nil {
			return err
		}
		if err := s.checkEmail(fields, id); err != nil {
			return err
		}
		fields, err := s.hashPassword(id, fields)
		if err != nil {
			return err
		}
		_, user, err = s.update(tx, id, fields)
		return err
	})
	return user, err
}

func (s *UserService) checkEmail(fields model.Fields, self string) error {
	return s.c.checkUnique(model.KindUser, "email", fields["email"], self, func(e model.Entity) string {
		return e.(*model.User).Email()
	})
}

// hashPassword replaces a non-empty plaintext password with its hash. Any
// other value is left for the entity setter to reject.
func (s *UserService) hashPassword(id string, fields model.Fields) (model.Fields, error) {
	secret, ok := fields["password"].(string)
	if !ok || secret == "" {
		return fields, nil
	}
	hash, err := s.hasher.Hash(id, secret)
	if err != nil {
		return nil, fmt.Errorf("error creating password hash: %w", err)
	}
	return withField(fields, "password", hash), nil
}
