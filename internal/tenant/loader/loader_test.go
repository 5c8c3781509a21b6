package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailgate/internal/tenant/models"
	id "mailgate/pkg/domain"
	dErrors "mailgate/pkg/domain-errors"
)

func writeConfig(t *testing.T, content string) File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tenants.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return File{Path: path}
}

const validConfig = `
tenants:
  - id: tenant-acme
    name: Acme Corp
    domains:
      - {value: acme.com, type: primary}
      - {value: old-acme.com, type: alias}
      - {value: "*.acme-mail.com", type: pattern}
    auto_register_www: true
    timezone: America/New_York
    business_hours:
      start: "09:00"
      end: "17:00"
      days: [monday, tuesday, wednesday, thursday, friday]
    routing:
      - {category: support, destination: support@acme.com, enabled: true}
      - {category: general, destination: inbox@acme.com, enabled: true}
  - id: tenant-globex
    name: Globex
    domains:
      - {value: globex.org, type: support}
`

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("parses tenants and stamps ownership", func(t *testing.T) {
		configs, err := writeConfig(t, validConfig).Load(ctx)
		require.NoError(t, err)
		require.Len(t, configs, 2)

		acme := configs[0]
		assert.Equal(t, id.TenantID("tenant-acme"), acme.ID)
		for _, d := range acme.Domains {
			assert.Equal(t, acme.ID, d.TenantID)
		}

		rule, ok := acme.Rule("support")
		require.True(t, ok)
		assert.Equal(t, "support@acme.com", rule.Destination)
	})

	t.Run("expands www variants as aliases when opted in", func(t *testing.T) {
		configs, err := writeConfig(t, validConfig).Load(ctx)
		require.NoError(t, err)

		var www *models.DomainRecord
		for i, d := range configs[0].Domains {
			if d.Value == "www.acme.com" {
				www = &configs[0].Domains[i]
			}
		}
		require.NotNil(t, www, "www variant not registered")
		assert.Equal(t, models.DomainTypeAlias, www.Type)

		// Globex did not opt in.
		for _, d := range configs[1].Domains {
			assert.NotEqual(t, "www.globex.org", d.Value)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := File{Path: filepath.Join(t.TempDir(), "absent.yaml")}.Load(ctx)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := writeConfig(t, "tenants: [").Load(ctx)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("empty tenant list", func(t *testing.T) {
		_, err := writeConfig(t, "tenants: []").Load(ctx)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("invalid tenant fails load", func(t *testing.T) {
		_, err := writeConfig(t, `
tenants:
  - id: broken
    domains:
      - {value: acme.com, type: primary}
    timezone: Not/AZone
`).Load(ctx)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
