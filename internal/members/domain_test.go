package members

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemberSerializesWithoutInternalFields(t *testing.T) {
	deleted := time.Now()
	m := Member{
		ID:        "m1",
		TenantID:  "tenant-a",
		FirstName: "Ana",
		LastName:  "Gomez",
		IsActive:  true,
		DeletedAt: &deleted,
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, "Ana", out["first_name"])
	require.Equal(t, "m1", out["id"])
	require.NotContains(t, out, "TenantID")
	require.NotContains(t, out, "tenant_id")
	require.NotContains(t, out, "DeletedAt")
	require.NotContains(t, out, "deleted_at")
}

func TestWithTenantOverwritesPayloadTenant(t *testing.T) {
	in := CreateInput{
		TenantID:  "tenant-b",
		FirstName: "Ana",
		LastName:  "Gomez",
	}

	scoped := in.WithTenant("tenant-a")

	require.Equal(t, "tenant-a", scoped.TenantID)
	require.Equal(t, "Ana", scoped.FirstName)
	// The original value stays untouched; WithTenant returns a copy.
	require.Equal(t, "tenant-b", in.TenantID)
}

func TestWithTenantOnUpdateInput(t *testing.T) {
	in := UpdateInput{TenantID: "", FirstName: "Ana", LastName: "Gomez", IsActive: true}
	scoped := in.WithTenant("tenant-a")
	require.Equal(t, "tenant-a", scoped.TenantID)
	require.True(t, scoped.IsActive)
}
