package catalog

import (
	"fmt"
	"math"
	"regexp"
	"slices"

	"design2prompt/internal/domain"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Coerce validates v against opt and returns it in canonical form: sliders
// become numbers clamped to [Min, Max], toggles become booleans. Values that
// cannot be interpreted fail with domain.ErrInvalidInput.
func Coerce(opt domain.Option, v domain.StyleValue) (domain.StyleValue, error) {
	switch opt.Kind {
	case domain.OptionSlider:
		n, ok := v.Number()
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return v, fmt.Errorf("%s: %q is not a number: %w", opt.Key, v.String(), domain.ErrInvalidInput)
		}
		if opt.Max > opt.Min {
			n = math.Min(math.Max(n, opt.Min), opt.Max)
		}
		return domain.NumberValue(n), nil

	case domain.OptionColor:
		s, ok := v.Text()
		if !ok || !hexColor.MatchString(s) {
			return v, fmt.Errorf("%s: %q is not a hex color: %w", opt.Key, v.String(), domain.ErrInvalidInput)
		}
		return v, nil

	case domain.OptionSelect:
		s := v.String()
		if len(opt.Choices) > 0 && !slices.Contains(opt.Choices, s) {
			return v, fmt.Errorf("%s: %q is not one of %v: %w", opt.Key, s, opt.Choices, domain.ErrInvalidInput)
		}
		return domain.StringValue(s), nil

	case domain.OptionToggle:
		b, ok := v.Bool()
		if !ok {
			return v, fmt.Errorf("%s: %q is not a boolean: %w", opt.Key, v.String(), domain.ErrInvalidInput)
		}
		return domain.BoolValue(b), nil
	}
	return v, nil
}

// Sanitize coerces every parameter that def declares an option for.
// Invalid values fall back to the definition default; keys without an
// option pass through untouched.
func Sanitize(def domain.CatalogDefinition, params domain.StyleParams) domain.StyleParams {
	out := make(domain.StyleParams, len(params))
	for k, v := range params {
		opt, ok := def.Option(k)
		if !ok {
			out[k] = v
			continue
		}
		c, err := Coerce(opt, v)
		if err != nil {
			if d, ok := def.DefaultStyleParams[k]; ok {
				out[k] = d
			}
			continue
		}
		out[k] = c
	}
	return out
}

// Resolve layers params over the definition defaults and sanitizes the result.
func Resolve(def domain.CatalogDefinition, params domain.StyleParams) domain.StyleParams {
	return Sanitize(def, def.DefaultStyleParams.Merge(params))
}
