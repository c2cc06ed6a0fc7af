package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/samokat-api/internal/domain/entity"
)

func TestTierForRole_TablaDeRoles(t *testing.T) {
	assert.Equal(t, entity.TierAdmin, entity.TierForRole(entity.RoleIDAdmin))
	assert.Equal(t, entity.TierManager, entity.TierForRole(entity.RoleIDManager))
	assert.Equal(t, entity.TierRegular, entity.TierForRole(entity.RoleIDRegular))
	assert.Equal(t, entity.TierRegular, entity.TierForRole(42), "ids no mapeados son regulares")
}

func TestTier_Admits(t *testing.T) {
	assert.True(t, entity.TierAdmin.Admits(entity.RoleIDAdmin))
	assert.False(t, entity.TierAdmin.Admits(entity.RoleIDManager))
	assert.False(t, entity.TierAdmin.Admits(entity.RoleIDRegular))

	assert.True(t, entity.TierManager.Admits(entity.RoleIDManager))
	assert.False(t, entity.TierManager.Admits(entity.RoleIDAdmin), "admin no pasa un control exclusivo de manager")

	for _, id := range []int{entity.RoleIDAdmin, entity.RoleIDManager, entity.RoleIDRegular, 7} {
		assert.True(t, entity.TierRegular.Admits(id))
	}
}

func TestUser_Subject(t *testing.T) {
	u := &entity.User{Phone: "+79990001122"}
	assert.Equal(t, "+79990001122", u.Subject())

	u.Username = "ivan"
	assert.Equal(t, "ivan", u.Subject())
}
