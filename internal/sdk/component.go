package sdk

import "strings"

// Variant tags the kind of component the SDK produced.
type Variant string

const (
	VariantFlow     Variant = "flow"
	VariantCard     Variant = "card"
	VariantApplePay Variant = "applepay"
	VariantAddress  Variant = "address"
)

// Capability is a facet a component may support.
type Capability uint8

const (
	CapabilityRender Capability = 1 << iota
	CapabilitySubmit
	CapabilityTokenize
)

// Capabilities is a set of Capability values.
type Capabilities uint8

// Has reports whether c is in the set.
func (cs Capabilities) Has(c Capability) bool {
	return uint8(cs)&uint8(c) != 0
}

func (cs Capabilities) String() string {
	var names []string
	if cs.Has(CapabilityRender) {
		names = append(names, "render")
	}
	if cs.Has(CapabilitySubmit) {
		names = append(names, "submit")
	}
	if cs.Has(CapabilityTokenize) {
		names = append(names, "tokenize")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Declared capabilities per variant. Tokenization only works on card input.
var variantCapabilities = map[Variant]Capabilities{
	VariantFlow:     Capabilities(CapabilityRender | CapabilitySubmit),
	VariantCard:     Capabilities(CapabilityRender | CapabilitySubmit | CapabilityTokenize),
	VariantApplePay: Capabilities(CapabilityRender | CapabilitySubmit),
	VariantAddress:  Capabilities(CapabilityRender),
}

// DeclaredCapabilities returns the capability set a variant declares.
func DeclaredCapabilities(v Variant) Capabilities {
	return variantCapabilities[v]
}

// View is a displayable rendering of a component, handed to the host as is.
type View struct {
	Component string              `json:"component"`
	Variant   Variant             `json:"variant"`
	Methods   []PaymentMethodType `json:"methods"`
	Locale    string              `json:"locale"`
	Theme     string              `json:"theme"`
	Amount    int64               `json:"amount"`
}

// Handle is the raw object returned by Instance.Create. It may additionally
// implement Renderable, Submittable and Tokenizable.
type Handle interface {
	Name() string
}

type Renderable interface {
	IsAvailable() bool
	Render() View
}

type Submittable interface {
	// IsValid is true when the input fields pass client-side validation.
	// Components without input fields are always valid.
	IsValid() bool
	Submit()
}

type Tokenizable interface {
	Tokenize()
}

// Component is a created component with its capabilities resolved once.
type Component struct {
	Variant      Variant
	Capabilities Capabilities
	handle       Handle
	renderer     Renderable
	submitter    Submittable
	tokenizer    Tokenizable
}

// NewComponent tags h with its variant. The resulting capability set is the
// variant's declared set restricted to the facets h actually implements.
func NewComponent(v Variant, h Handle) *Component {
	c := &Component{Variant: v, handle: h}
	declared := DeclaredCapabilities(v)
	var caps uint8
	if r, ok := h.(Renderable); ok && declared.Has(CapabilityRender) {
		c.renderer = r
		caps |= uint8(CapabilityRender)
	}
	if s, ok := h.(Submittable); ok && declared.Has(CapabilitySubmit) {
		c.submitter = s
		caps |= uint8(CapabilitySubmit)
	}
	if t, ok := h.(Tokenizable); ok && declared.Has(CapabilityTokenize) {
		c.tokenizer = t
		caps |= uint8(CapabilityTokenize)
	}
	c.Capabilities = Capabilities(caps)
	return c
}

// Name returns the SDK name of the underlying handle.
func (c *Component) Name() string {
	return c.handle.Name()
}

// Renderer returns the render facet, or nil.
func (c *Component) Renderer() Renderable { return c.renderer }

// Submitter returns the submit facet, or nil.
func (c *Component) Submitter() Submittable { return c.submitter }

// Tokenizer returns the tokenize facet, or nil.
func (c *Component) Tokenizer() Tokenizable { return c.tokenizer }
