package identify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"mailgate/internal/directory"
	"mailgate/internal/identify"
	"mailgate/internal/tenant/models"
	id "mailgate/pkg/domain"
)

// PipelineSuite exercises the identification pipeline against a real
// directory snapshot, covering the end-to-end resolution scenarios.
type PipelineSuite struct {
	suite.Suite
	provider *directory.Provider
	pipeline *identify.Pipeline
	ctx      context.Context
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

// staticSource feeds a fixed tenant set to the directory provider.
type staticSource struct {
	configs []models.TenantConfig
}

func (s staticSource) Load(context.Context) ([]models.TenantConfig, error) {
	return s.configs, nil
}

func (s *PipelineSuite) SetupTest() {
	s.ctx = context.Background()

	configs := []models.TenantConfig{
		{
			ID:   "t1",
			Name: "Acme Corp",
			Domains: []models.DomainRecord{
				{Value: "acme.com", Type: models.DomainTypePrimary},
				{Value: "old-acme.com", Type: models.DomainTypeAlias},
			},
		},
		{
			ID:   "t2",
			Name: "Globex",
			Domains: []models.DomainRecord{
				{Value: "globex.org", Type: models.DomainTypePrimary},
				{Value: "*.globex-mail.org", Type: models.DomainTypePattern},
			},
		},
	}

	var err error
	s.provider, err = directory.NewProvider(s.ctx, staticSource{configs: configs})
	s.Require().NoError(err)
	s.pipeline = identify.NewPipeline(s.provider)
}

func (s *PipelineSuite) TestIdentifyByDomain() {
	s.Run("exact match normalizes case and trailing dot", func() {
		result := s.pipeline.IdentifyByDomain(s.ctx, "ACME.com.")
		s.True(result.Successful)
		s.Equal(id.TenantID("t1"), result.TenantID)
		s.Equal(identify.MethodExactMatch, result.Method)
		s.Equal(1.0, result.Confidence)
		s.Equal("acme.com", result.DomainUsed)
	})

	s.Run("alias resolution", func() {
		result := s.pipeline.IdentifyByDomain(s.ctx, "old-acme.com")
		s.True(result.Successful)
		s.Equal(id.TenantID("t1"), result.TenantID)
		s.Equal(identify.MethodAliasResolution, result.Method)
		s.Equal(0.95, result.Confidence)
	})

	s.Run("hierarchy match for unregistered subdomain", func() {
		result := s.pipeline.IdentifyByDomain(s.ctx, "api.acme.com")
		s.True(result.Successful)
		s.Equal(id.TenantID("t1"), result.TenantID)
		s.Equal(identify.MethodHierarchyMatch, result.Method)
		s.GreaterOrEqual(result.Confidence, 0.7)
		s.Less(result.Confidence, 0.95)
	})

	s.Run("pattern match for mail subdomains", func() {
		result := s.pipeline.IdentifyByDomain(s.ctx, "mx1.globex-mail.org")
		s.True(result.Successful)
		s.Equal(id.TenantID("t2"), result.TenantID)
		s.Equal(identify.MethodPatternMatch, result.Method)
		s.Equal(0.85, result.Confidence)
	})

	s.Run("unrelated domain yields no_match", func() {
		result := s.pipeline.IdentifyByDomain(s.ctx, "unrelated.example.org")
		s.False(result.Successful)
		s.Equal(identify.MethodNoMatch, result.Method)
		s.Equal(0.0, result.Confidence)
		s.True(result.TenantID.IsZero())
		s.Empty(result.DomainUsed)
	})

	s.Run("malformed input recovers as no_match, never errors", func() {
		for _, input := range []string{"", "nodot", "bad domain.com", "..."} {
			result := s.pipeline.IdentifyByDomain(s.ctx, input)
			s.False(result.Successful, input)
			s.Equal(identify.MethodNoMatch, result.Method, input)
		}
	})
}

func (s *PipelineSuite) TestIdentifyByEmail() {
	s.Run("delegates to domain identification", func() {
		result := s.pipeline.IdentifyByEmail(s.ctx, "Jane.Doe@ACME.com")
		s.True(result.Successful)
		s.Equal(id.TenantID("t1"), result.TenantID)
		s.Equal(identify.MethodExactMatch, result.Method)
	})

	s.Run("extraction failure yields no_match", func() {
		for _, input := range []string{"not-an-email", "a@b@c.com", "@acme.com", "user@"} {
			result := s.pipeline.IdentifyByEmail(s.ctx, input)
			s.False(result.Successful, input)
			s.Equal(identify.MethodNoMatch, result.Method, input)
		}
	})
}

// TestDeterminism pins the reproducibility contract: identical directory and
// input produce identical results across repeated calls.
func (s *PipelineSuite) TestDeterminism() {
	inputs := []string{"acme.com", "api.acme.com", "acmes.com", "mx.globex-mail.org", "nonsense.io"}
	for _, input := range inputs {
		first := s.pipeline.IdentifyByDomain(s.ctx, input)
		for i := 0; i < 5; i++ {
			s.Equal(first, s.pipeline.IdentifyByDomain(s.ctx, input), input)
		}
	}
}

func (s *PipelineSuite) TestFindSimilarTenants() {
	s.Run("ranks tenants by best domain score", func() {
		suggestions := s.pipeline.FindSimilarTenants(s.ctx, "acmes.com", 5)
		s.Require().NotEmpty(suggestions)
		s.Equal(id.TenantID("t1"), suggestions[0].TenantID)
		for i := 1; i < len(suggestions); i++ {
			s.GreaterOrEqual(suggestions[i-1].Score, suggestions[i].Score)
		}
	})

	s.Run("dedupes by tenant keeping the max score", func() {
		suggestions := s.pipeline.FindSimilarTenants(s.ctx, "old-acme.com", 10)
		seen := make(map[id.TenantID]bool)
		for _, sg := range suggestions {
			s.False(seen[sg.TenantID], "tenant %s suggested twice", sg.TenantID)
			seen[sg.TenantID] = true
		}
	})

	s.Run("respects the limit", func() {
		suggestions := s.pipeline.FindSimilarTenants(s.ctx, "acme.com", 1)
		s.LessOrEqual(len(suggestions), 1)
	})

	s.Run("invalid input returns nothing", func() {
		s.Empty(s.pipeline.FindSimilarTenants(s.ctx, "nodot", 5))
		s.Empty(s.pipeline.FindSimilarTenants(s.ctx, "acme.com", 0))
	})
}

func (s *PipelineSuite) TestToggles() {
	s.Run("hierarchy disabled", func() {
		pipeline := identify.NewPipeline(s.provider,
			identify.WithHierarchyMatching(false),
			identify.WithFuzzyMatching(false),
		)
		result := pipeline.IdentifyByDomain(s.ctx, "api.acme.com")
		s.False(result.Successful)
	})

	s.Run("fuzzy disabled", func() {
		pipeline := identify.NewPipeline(s.provider, identify.WithFuzzyMatching(false))
		result := pipeline.IdentifyByDomain(s.ctx, "acmes.com")
		s.False(result.Successful)
	})
}
