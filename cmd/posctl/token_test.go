package main

import (
	"context"
	"testing"

	"github.com/saadmalik-333/business-insight-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubProfiles map[uuid.UUID]*model.Profile

func (s stubProfiles) FindByID(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	p, ok := s[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func TestResolveTokenRole(t *testing.T) {
	cashier := &model.Profile{ID: uuid.New(), Email: "cashier@example.com", Role: model.RoleCashier}
	admin := &model.Profile{ID: uuid.New(), Email: "admin@example.com", Role: model.RoleAdmin}
	profiles := stubProfiles{cashier.ID: cashier, admin.ID: admin}
	ctx := context.Background()

	role, err := resolveTokenRole(ctx, profiles, cashier.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCashier, role)

	role, err = resolveTokenRole(ctx, profiles, admin.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, role)

	role, err = resolveTokenRole(ctx, profiles, admin.ID, model.RoleCashier)
	require.NoError(t, err)
	assert.Equal(t, model.RoleCashier, role)

	_, err = resolveTokenRole(ctx, profiles, cashier.ID, model.RoleAdmin)
	assert.ErrorContains(t, err, "cannot hold an admin token")

	_, err = resolveTokenRole(ctx, profiles, admin.ID, "owner")
	assert.Error(t, err)

	_, err = resolveTokenRole(ctx, profiles, uuid.New(), "")
	assert.ErrorContains(t, err, "does not exist")
}
