package domain

type OptionKind string

const (
	OptionSlider OptionKind = "slider"
	OptionColor  OptionKind = "color"
	OptionSelect OptionKind = "select"
	OptionToggle OptionKind = "toggle"
)

// Option describes one customizable style parameter of a catalog definition.
// Min, Max and Step only apply to sliders; Choices only to selects.
type Option struct {
	Key         string     `json:"key" toml:"key"`
	Label       string     `json:"label" toml:"label"`
	Kind        OptionKind `json:"kind" toml:"kind"`
	Min         float64    `json:"min,omitempty" toml:"min"`
	Max         float64    `json:"max,omitempty" toml:"max"`
	Step        float64    `json:"step,omitempty" toml:"step"`
	Choices     []string   `json:"choices,omitempty" toml:"choices"`
	Description string     `json:"description,omitempty" toml:"description"`
}

// CatalogDefinition is the read-only template a PlacedInstance refers to.
type CatalogDefinition struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Category           string      `json:"category"`
	Description        string      `json:"description"`
	Tags               []string    `json:"tags"`
	Options            []Option    `json:"options"`
	DefaultStyleParams StyleParams `json:"defaultStyleParams"`
	// DefaultSize is the footprint used when the definition is first placed.
	DefaultSize Size `json:"defaultSize"`
	// Requirements are text/template lines rendered against the style
	// params into the component-specific part of a prompt.
	Requirements []string `json:"requirements,omitempty"`
}

// Option returns the schema entry for key.
func (d CatalogDefinition) Option(key string) (Option, bool) {
	for _, o := range d.Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// Catalog resolves reference ids to definitions.
type Catalog interface {
	Lookup(refID string) (CatalogDefinition, bool)
	List() []CatalogDefinition
}

// WorkingConfig is a transient, not-yet-placed configuration seeded from a
// deep link or the customization panel.
type WorkingConfig struct {
	RefID       string      `json:"refId"`
	StyleParams StyleParams `json:"styleParams"`
	// FromLink is true when the parameters came from a parsed deep link
	// rather than the catalog defaults.
	FromLink bool `json:"fromLink"`
}
