package sdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renderOnly struct{ available bool }

func (r *renderOnly) Name() string      { return "render-only" }
func (r *renderOnly) IsAvailable() bool { return r.available }
func (r *renderOnly) Render() View      { return View{Component: r.Name()} }

type everything struct{ renderOnly }

func (e *everything) IsValid() bool { return true }
func (e *everything) Submit()       {}
func (e *everything) Tokenize()     {}

func TestDeclaredCapabilities(t *testing.T) {
	assert.True(t, DeclaredCapabilities(VariantCard).Has(CapabilityTokenize))
	assert.False(t, DeclaredCapabilities(VariantFlow).Has(CapabilityTokenize))
	assert.False(t, DeclaredCapabilities(VariantApplePay).Has(CapabilityTokenize))
	assert.True(t, DeclaredCapabilities(VariantApplePay).Has(CapabilitySubmit))
	assert.Equal(t, "render", DeclaredCapabilities(VariantAddress).String())
	assert.Equal(t, "none", DeclaredCapabilities(Variant("unknown")).String())
}

func TestNewComponent_IntersectsDeclaredAndProvided(t *testing.T) {
	t.Run("CardWithAllFacets", func(t *testing.T) {
		c := NewComponent(VariantCard, &everything{})
		assert.Equal(t, "render|submit|tokenize", c.Capabilities.String())
		assert.NotNil(t, c.Renderer())
		assert.NotNil(t, c.Submitter())
		assert.NotNil(t, c.Tokenizer())
	})

	t.Run("FlowDoesNotExposeTokenize", func(t *testing.T) {
		c := NewComponent(VariantFlow, &everything{})
		assert.False(t, c.Capabilities.Has(CapabilityTokenize))
		assert.Nil(t, c.Tokenizer())
		assert.NotNil(t, c.Submitter())
	})

	t.Run("CardHandleMissingFacets", func(t *testing.T) {
		c := NewComponent(VariantCard, &renderOnly{available: true})
		assert.Equal(t, "render", c.Capabilities.String())
		assert.Nil(t, c.Submitter())
		assert.Nil(t, c.Tokenizer())
		require.NotNil(t, c.Renderer())
		assert.Equal(t, "render-only", c.Name())
	})
}

func TestError(t *testing.T) {
	err := &Error{Code: ErrorCodeInvalidOptions, Message: "no methods"}
	assert.Equal(t, "invalid_component_options: no methods", err.Error())
}
