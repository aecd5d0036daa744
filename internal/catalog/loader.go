package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"design2prompt/internal/domain"
)

// fileDefinition is the on-disk shape of a user catalog entry:
//
//	id = "aurora-card"
//	name = "Aurora Card"
//	category = "cards"
//	tags = ["aurora", "gradient"]
//	requirements = ["Aurora speed: {{.auroraSpeed}}s"]
//
//	[size]
//	width = 320
//	height = 220
//
//	[defaults]
//	auroraSpeed = 6
//
//	[[options]]
//	key = "auroraSpeed"
//	kind = "slider"
//	min = 1
//	max = 20
type fileDefinition struct {
	ID           string          `toml:"id"`
	Name         string          `toml:"name"`
	Category     string          `toml:"category"`
	Description  string          `toml:"description"`
	Tags         []string        `toml:"tags"`
	Requirements []string        `toml:"requirements"`
	Size         domain.Size     `toml:"size"`
	Defaults     map[string]any  `toml:"defaults"`
	Options      []domain.Option `toml:"options"`
}

// LoadDir reads every *.toml file in dir. Files that fail to parse are
// skipped and reported in the joined error; the valid ones are still
// returned. A missing directory yields no definitions and no error.
func LoadDir(dir string) ([]domain.CatalogDefinition, error) {
	if dir == "" {
		return nil, nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("glob catalog dir: %w", err)
	}
	sort.Strings(paths)

	var defs []domain.CatalogDefinition
	var errs []error
	for _, p := range paths {
		def, err := LoadFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		defs = append(defs, def)
	}
	return defs, errors.Join(errs...)
}

// LoadFile parses one definition file and layers it over the base style.
func LoadFile(path string) (domain.CatalogDefinition, error) {
	var fd fileDefinition
	md, err := toml.DecodeFile(path, &fd)
	if err != nil {
		return domain.CatalogDefinition{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return domain.CatalogDefinition{}, fmt.Errorf("%s: unknown keys %s: %w",
			filepath.Base(path), strings.Join(keys, ", "), domain.ErrInvalidInput)
	}
	if fd.ID == "" {
		fd.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	defaults := domain.StyleParams{}
	for k, v := range fd.Defaults {
		sv, err := styleValueOf(v)
		if err != nil {
			return domain.CatalogDefinition{}, fmt.Errorf("%s: default %s: %w", filepath.Base(path), k, err)
		}
		defaults[k] = sv
	}
	for i := range fd.Options {
		if fd.Options[i].Key == "" {
			return domain.CatalogDefinition{}, fmt.Errorf("%s: option without key: %w", filepath.Base(path), domain.ErrInvalidInput)
		}
		if fd.Options[i].Label == "" {
			fd.Options[i].Label = fd.Options[i].Key
		}
	}

	size := fd.Size
	if size.Width == 0 && size.Height == 0 {
		size = cardSize
	}
	size.Width = max(size.Width, domain.MinInstanceWidth)
	size.Height = max(size.Height, domain.MinInstanceHeight)

	name := fd.Name
	if name == "" {
		name = fd.ID
	}
	category := fd.Category
	if category == "" {
		category = "custom"
	}

	return define(domain.CatalogDefinition{
		ID:           fd.ID,
		Name:         name,
		Category:     category,
		Description:  fd.Description,
		Tags:         fd.Tags,
		DefaultSize:  size,
		Requirements: fd.Requirements,
	}, defaults, fd.Options...), nil
}

func styleValueOf(v any) (domain.StyleValue, error) {
	switch t := v.(type) {
	case int64:
		return domain.NumberValue(float64(t)), nil
	case float64:
		return domain.NumberValue(t), nil
	case string:
		return domain.StringValue(t), nil
	case bool:
		return domain.BoolValue(t), nil
	}
	return domain.StyleValue{}, fmt.Errorf("unsupported value %T: %w", v, domain.ErrInvalidInput)
}

// ensureDir creates dir when missing so it can be watched.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	return nil
}
