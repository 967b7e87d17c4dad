package configurator

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yourorg/checkout-components/internal/sdk"
)

// Kind is the component the user asks for.
type Kind string

const (
	KindFlow     Kind = "flow"
	KindCard     Kind = "card"
	KindApplePay Kind = "applePay"
)

// Kinds lists the selectable component kinds in display order.
func Kinds() []Kind {
	return []Kind{KindFlow, KindCard, KindApplePay}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindFlow, KindCard, KindApplePay:
		return true
	}
	return false
}

// DisplayName is the label shown by hosts.
func (k Kind) DisplayName() string {
	switch k {
	case KindFlow:
		return "Flow"
	case KindCard:
		return "Card"
	case KindApplePay:
		return "Apple Pay"
	}
	return string(k)
}

// AccessibilityID is the stable identifier hosts attach to the kind's control.
func (k Kind) AccessibilityID() string {
	switch k {
	case KindFlow:
		return "flow"
	case KindCard:
		return "card"
	case KindApplePay:
		return "google_apple_pay"
	}
	return string(k)
}

// Variant is the SDK component variant requested for k.
func (k Kind) Variant() sdk.Variant {
	switch k {
	case KindCard:
		return sdk.VariantCard
	case KindApplePay:
		return sdk.VariantApplePay
	}
	return sdk.VariantFlow
}

// MethodKind is a payment method a flow component may offer.
type MethodKind string

const (
	MethodCard     MethodKind = "card"
	MethodApplePay MethodKind = "applePay"
)

var methodOrder = []MethodKind{MethodCard, MethodApplePay}

func (m MethodKind) bit() MethodSet {
	switch m {
	case MethodCard:
		return 1
	case MethodApplePay:
		return 2
	}
	return 0
}

func (m MethodKind) displayName() string {
	if m == MethodApplePay {
		return "Apple Pay"
	}
	return "Card"
}

// MethodSet is an unordered set of MethodKind.
type MethodSet uint8

// Methods builds a set from kinds.
func Methods(kinds ...MethodKind) MethodSet {
	var s MethodSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// AllMethods is the fallback set used when a flow has no methods selected.
func AllMethods() MethodSet {
	return Methods(MethodCard, MethodApplePay)
}

// Has reports whether m is in the set.
func (s MethodSet) Has(m MethodKind) bool {
	return m.bit() != 0 && s&m.bit() != 0
}

// With returns s plus m.
func (s MethodSet) With(m MethodKind) MethodSet {
	return s | m.bit()
}

// Without returns s minus m.
func (s MethodSet) Without(m MethodKind) MethodSet {
	return s &^ m.bit()
}

// Empty reports whether no method is selected.
func (s MethodSet) Empty() bool {
	return s == 0
}

// Kinds lists the members in a stable order.
func (s MethodSet) Kinds() []MethodKind {
	kinds := make([]MethodKind, 0, len(methodOrder))
	for _, m := range methodOrder {
		if s.Has(m) {
			kinds = append(kinds, m)
		}
	}
	return kinds
}

// Title is the summary label of the selection, e.g. "Card, Apple Pay".
func (s MethodSet) Title() string {
	if s.Empty() {
		return "Payment Methods"
	}
	names := make([]string, 0, len(methodOrder))
	for _, m := range s.Kinds() {
		names = append(names, m.displayName())
	}
	return strings.Join(names, ", ")
}

func (s MethodSet) strings() []string {
	out := make([]string, 0, len(methodOrder))
	for _, m := range s.Kinds() {
		out = append(out, string(m))
	}
	return out
}

func parseMethods(names []string) (MethodSet, error) {
	var s MethodSet
	for _, n := range names {
		m := MethodKind(n)
		if m.bit() == 0 {
			return 0, fmt.Errorf("%w: unknown payment method %q", ErrConfiguration, n)
		}
		s = s.With(m)
	}
	return s, nil
}

func (s MethodSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.strings())
}

func (s *MethodSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := parseMethods(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s MethodSet) MarshalYAML() (interface{}, error) {
	return s.strings(), nil
}

func (s *MethodSet) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if err := node.Decode(&names); err != nil {
		return err
	}
	parsed, err := parseMethods(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Selection is the requested component kind plus the user's method choice.
type Selection struct {
	Kind    Kind      `json:"kind" yaml:"kind"`
	Methods MethodSet `json:"methods" yaml:"methods"`
}

// EffectiveMethods is the method set actually requested. Card and Apple Pay
// components imply their single method; a flow falls back to every method
// when the user cleared the set.
func (s Selection) EffectiveMethods() MethodSet {
	switch s.Kind {
	case KindCard:
		return Methods(MethodCard)
	case KindApplePay:
		return Methods(MethodApplePay)
	}
	if s.Methods.Empty() {
		return AllMethods()
	}
	return s.Methods
}

// Normalize returns s with Methods replaced by EffectiveMethods.
func (s Selection) Normalize() Selection {
	s.Methods = s.EffectiveMethods()
	return s
}
