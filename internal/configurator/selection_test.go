package configurator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yourorg/checkout-components/internal/sdk"
)

func TestKind_Labels(t *testing.T) {
	tests := []struct {
		kind    Kind
		display string
		id      string
		variant sdk.Variant
	}{
		{KindFlow, "Flow", "flow", sdk.VariantFlow},
		{KindCard, "Card", "card", sdk.VariantCard},
		{KindApplePay, "Apple Pay", "google_apple_pay", sdk.VariantApplePay},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.True(t, tt.kind.Valid())
			assert.Equal(t, tt.display, tt.kind.DisplayName())
			assert.Equal(t, tt.id, tt.kind.AccessibilityID())
			assert.Equal(t, tt.variant, tt.kind.Variant())
		})
	}
	assert.False(t, Kind("googlePay").Valid())
	assert.Equal(t, []Kind{KindFlow, KindCard, KindApplePay}, Kinds())
}

func TestMethodSet(t *testing.T) {
	var s MethodSet
	assert.True(t, s.Empty())
	assert.Equal(t, "Payment Methods", s.Title())

	s = s.With(MethodApplePay)
	assert.Equal(t, "Apple Pay", s.Title())

	s = s.With(MethodCard).With(MethodCard)
	assert.Equal(t, "Card, Apple Pay", s.Title())
	assert.Equal(t, []MethodKind{MethodCard, MethodApplePay}, s.Kinds())
	assert.Equal(t, AllMethods(), s)
	assert.Equal(t, Methods(MethodApplePay, MethodCard), s)

	s = s.Without(MethodCard)
	assert.False(t, s.Has(MethodCard))
	assert.True(t, s.Has(MethodApplePay))
	assert.False(t, s.Has(MethodKind("paypal")))
}

func TestMethodSet_Encoding(t *testing.T) {
	data, err := json.Marshal(AllMethods())
	require.NoError(t, err)
	assert.JSONEq(t, `["card","applePay"]`, string(data))

	var fromJSON MethodSet
	require.NoError(t, json.Unmarshal([]byte(`["applePay","card"]`), &fromJSON))
	assert.Equal(t, AllMethods(), fromJSON)

	var fromYAML MethodSet
	require.NoError(t, yaml.Unmarshal([]byte("[applePay]"), &fromYAML))
	assert.Equal(t, Methods(MethodApplePay), fromYAML)

	out, err := yaml.Marshal(Methods(MethodCard))
	require.NoError(t, err)
	assert.Equal(t, "- card\n", string(out))

	var bad MethodSet
	err = json.Unmarshal([]byte(`["paypal"]`), &bad)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSelection_EffectiveMethods(t *testing.T) {
	tests := []struct {
		name      string
		selection Selection
		want      MethodSet
	}{
		{"card forces card", Selection{Kind: KindCard, Methods: Methods(MethodApplePay)}, Methods(MethodCard)},
		{"card ignores empty", Selection{Kind: KindCard}, Methods(MethodCard)},
		{"apple pay forces apple pay", Selection{Kind: KindApplePay, Methods: AllMethods()}, Methods(MethodApplePay)},
		{"flow keeps user subset", Selection{Kind: KindFlow, Methods: Methods(MethodCard)}, Methods(MethodCard)},
		{"flow keeps both", Selection{Kind: KindFlow, Methods: AllMethods()}, AllMethods()},
		{"flow falls back when cleared", Selection{Kind: KindFlow}, AllMethods()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.selection.EffectiveMethods())
			normalized := tt.selection.Normalize()
			assert.Equal(t, tt.want, normalized.Methods)
			assert.Equal(t, tt.selection.Kind, normalized.Kind)
			assert.False(t, normalized.Methods.Empty())
		})
	}
}
