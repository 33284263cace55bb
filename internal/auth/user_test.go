package auth_test

import (
	"context"
	"testing"
	"time"

	"keepsake/internal/auth"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&auth.User{}))
	return gdb
}

func strPtr(s string) *string { return &s }

func TestUpsertCreatesThenRefreshes(t *testing.T) {
	users := &auth.Users{DB: testDB(t)}
	ctx := context.Background()

	require.NoError(t, users.Upsert(ctx, auth.UpsertInput{
		OpenID: "open-1",
		Name:   strPtr("Habiba"),
		Email:  strPtr("h@example.com"),
	}))

	u, err := users.ByOpenID(ctx, "open-1")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.Equal(t, auth.RoleUser, u.Role)
	require.NotNil(t, u.Name)
	require.Equal(t, "Habiba", *u.Name)
	first := u.LastSignedIn

	time.Sleep(5 * time.Millisecond)

	// second sign-in omits the email: it must not be blanked
	require.NoError(t, users.Upsert(ctx, auth.UpsertInput{OpenID: "open-1"}))

	u, err = users.ByOpenID(ctx, "open-1")
	require.NoError(t, err)
	require.NotNil(t, u.Email)
	require.Equal(t, "h@example.com", *u.Email)
	require.True(t, u.LastSignedIn.After(first))
}

func TestUpsertOwnerPromotedToAdmin(t *testing.T) {
	users := &auth.Users{DB: testDB(t), OwnerOpenID: "owner-1"}
	ctx := context.Background()

	require.NoError(t, users.Upsert(ctx, auth.UpsertInput{OpenID: "owner-1"}))
	owner, err := users.ByOpenID(ctx, "owner-1")
	require.NoError(t, err)
	require.Equal(t, auth.RoleAdmin, owner.Role)

	require.NoError(t, users.Upsert(ctx, auth.UpsertInput{OpenID: "guest-1"}))
	guest, err := users.ByOpenID(ctx, "guest-1")
	require.NoError(t, err)
	require.Equal(t, auth.RoleUser, guest.Role)
}

func TestUpsertKeepsAssignedRole(t *testing.T) {
	users := &auth.Users{DB: testDB(t)}
	ctx := context.Background()

	admin := auth.RoleAdmin
	require.NoError(t, users.Upsert(ctx, auth.UpsertInput{OpenID: "open-2", Role: &admin}))

	// repeated sign-ins without an explicit role leave the promotion alone
	require.NoError(t, users.Upsert(ctx, auth.UpsertInput{OpenID: "open-2"}))
	require.NoError(t, users.Upsert(ctx, auth.UpsertInput{OpenID: "open-2"}))

	u, err := users.ByOpenID(ctx, "open-2")
	require.NoError(t, err)
	require.Equal(t, auth.RoleAdmin, u.Role)
}

func TestUpsertRequiresOpenID(t *testing.T) {
	users := &auth.Users{DB: testDB(t)}
	err := users.Upsert(context.Background(), auth.UpsertInput{})
	require.ErrorIs(t, err, auth.ErrOpenIDRequired)
}

func TestUsersWithoutDatabase(t *testing.T) {
	users := &auth.Users{DB: nil}
	ctx := context.Background()

	require.NoError(t, users.Upsert(ctx, auth.UpsertInput{OpenID: "open-3"}))

	u, err := users.ByOpenID(ctx, "open-3")
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestByOpenIDUnknownIsNil(t *testing.T) {
	users := &auth.Users{DB: testDB(t)}
	u, err := users.ByOpenID(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, u)
}
