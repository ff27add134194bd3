package apikeys_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/internal/apikeys"
	"github.com/taskdesk/taskdesk/internal/apperr"
	"github.com/taskdesk/taskdesk/internal/auth"
	"github.com/taskdesk/taskdesk/internal/models"
	memorystore "github.com/taskdesk/taskdesk/internal/store/memory"
)

func session(orgID uuid.UUID, role models.Role) *auth.Session {
	userID := uuid.Must(uuid.NewV7())
	s := &auth.Session{UserID: userID, OrganizationID: orgID}
	if role != "" {
		s.Memberships = []models.Membership{{
			OrganizationID: orgID,
			UserID:         userID,
			Role:           role,
		}}
	}
	return s
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.Must(uuid.NewV7())

	t.Run("secret returned once, only hash stored", func(t *testing.T) {
		svc := apikeys.NewService(memorystore.NewAPIKeyStore())

		created, err := svc.Create(ctx, session(orgID, models.RoleAdmin), "ci deploys", nil)
		require.NoError(t, err)
		require.NotEmpty(t, created.Secret)

		digest := sha256.Sum256([]byte(created.Secret))
		require.Equal(t, hex.EncodeToString(digest[:]), created.Key.HashedSecret)
		require.NotContains(t, created.Key.HashedSecret, created.Secret)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		svc := apikeys.NewService(memorystore.NewAPIKeyStore())

		_, err := svc.Create(ctx, session(orgID, models.RoleMember), "ci deploys", nil)
		require.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("missing description is invalid", func(t *testing.T) {
		svc := apikeys.NewService(memorystore.NewAPIKeyStore())

		_, err := svc.Create(ctx, session(orgID, models.RoleAdmin), "", nil)
		require.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	orgA := uuid.Must(uuid.NewV7())
	orgB := uuid.Must(uuid.NewV7())
	adminA := session(orgA, models.RoleAdmin)
	adminB := session(orgB, models.RoleAdmin)

	svc := apikeys.NewService(memorystore.NewAPIKeyStore())

	created, err := svc.Create(ctx, adminA, "ci deploys", nil)
	require.NoError(t, err)

	t.Run("list is organization scoped", func(t *testing.T) {
		keysA, err := svc.List(ctx, adminA)
		require.NoError(t, err)
		require.Len(t, keysA, 1)

		keysB, err := svc.List(ctx, adminB)
		require.NoError(t, err)
		require.Empty(t, keysB)
	})

	t.Run("cross-tenant delete is not found", func(t *testing.T) {
		err := svc.Delete(ctx, adminB, created.Key.APIKeyID)
		require.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("delete removes the key", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, adminA, created.Key.APIKeyID))

		keys, err := svc.List(ctx, adminA)
		require.NoError(t, err)
		require.Empty(t, keys)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		_, err := svc.List(ctx, session(orgA, models.RoleMember))
		require.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})
}
