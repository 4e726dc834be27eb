package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Roles interface {
	repository.Repository[*Role]

	GetByName(ctx context.Context, name string) (*Role, error)
	GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Role, error)
	Exists(ctx context.Context, name string) (bool, error)
	// GetOrCreate is the idempotent role upsert used during registration.
	GetOrCreate(ctx context.Context, name string) (*Role, error)
	GetOrCreateTx(ctx context.Context, tx bun.IDB, name string) (*Role, error)

	// Assign appends user to the role's membership, preserving the order in
	// which the principal entered its roles.
	Assign(ctx context.Context, user *User, role *Role) error
	AssignTx(ctx context.Context, tx bun.IDB, user *User, role *Role) error
	// NamesForUser returns the user's role names in assignment order.
	NamesForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type roles struct {
	repository.Repository[*Role]
	db *bun.DB
}

var (
	_ Roles                        = (*roles)(nil)
	_ repository.Repository[*Role] = (*roles)(nil)
)

func NewRolesRepository(db *bun.DB) Roles {
	repo := repository.NewRepository[*Role](db, repository.ModelHandlers[*Role]{
		NewRecord: func() *Role { return &Role{} },
		GetID: func(r *Role) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Role, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &roles{
		Repository: repo,
		db:         db,
	}
}

func (a *roles) GetByName(ctx context.Context, name string) (*Role, error) {
	return a.GetByNameTx(ctx, a.db, name)
}

func (a *roles) GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Role, error) {
	record := &Role{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", strings.TrimSpace(name)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"name": name,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *roles) Exists(ctx context.Context, name string) (bool, error) {
	_, err := a.GetByName(ctx, name)
	if err == nil {
		return true, nil
	}
	if repository.IsRecordNotFound(err) {
		return false, nil
	}
	return false, err
}

func (a *roles) GetOrCreate(ctx context.Context, name string) (*Role, error) {
	return a.GetOrCreateTx(ctx, a.db, name)
}

func (a *roles) GetOrCreateTx(ctx context.Context, tx bun.IDB, name string) (*Role, error) {
	role, err := a.GetByNameTx(ctx, tx, name)
	if err == nil {
		return role, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	record := &Role{
		ID:   uuid.New(),
		Name: strings.TrimSpace(name),
	}

	created, err := a.Repository.CreateTx(ctx, tx, record)
	if err == nil {
		return created, nil
	}

	// A concurrent registration may have created the role between the read
	// and the insert; the unique name constraint makes the retry safe.
	if existing, gerr := a.GetByNameTx(ctx, tx, name); gerr == nil {
		return existing, nil
	}

	return nil, err
}

func (a *roles) Assign(ctx context.Context, user *User, role *Role) error {
	return a.AssignTx(ctx, a.db, user, role)
}

func (a *roles) AssignTx(ctx context.Context, tx bun.IDB, user *User, role *Role) error {
	count, err := tx.NewSelect().
		Model((*UserRole)(nil)).
		Where("?TableAlias.user_id = ?", user.ID).
		Count(ctx)
	if err != nil {
		return err
	}

	membership := &UserRole{
		ID:       uuid.New(),
		UserID:   user.ID,
		RoleID:   role.ID,
		Position: int64(count),
	}

	_, err = tx.NewInsert().Model(membership).Exec(ctx)
	return err
}

func (a *roles) NamesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var memberships []UserRole
	err := a.db.NewSelect().
		Model(&memberships).
		Relation("Role").
		Where("?TableAlias.user_id = ?", userID).
		Order("usrol.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(memberships))
	for _, m := range memberships {
		if m.Role != nil {
			names = append(names, m.Role.Name)
		}
	}

	return names, nil
}
