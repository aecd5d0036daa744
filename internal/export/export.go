// Package export turns catalog configurations and canvas layouts into
// prompts for code-generating assistants.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"design2prompt/internal/domain"
)

var frameworkNames = map[string]string{
	"react":   "React",
	"nextjs":  "Next.js",
	"vue":     "Vue 3",
	"svelte":  "Svelte",
	"vanilla": "Vanilla JS",
	"astro":   "Astro",
}

var stylingNames = map[string]string{
	"tailwind":          "Tailwind CSS",
	"css-modules":       "CSS Modules",
	"styled-components": "styled-components",
}

var features = []struct {
	key, line string
}{
	{"responsive", "Fully responsive (mobile-first)"},
	{"darkMode", "Dark mode support"},
	{"accessibility", "WCAG AA accessibility"},
	{"animations", "Smooth animations on interaction"},
}

const specTemplate = `{{define "spec"}}## Component Type
{{.Def.Category}}: {{.Def.Name}}
{{.Def.Description}}

## Framework & Setup
- Framework: {{.Framework}}
- TypeScript: {{if .TypeScript}}Yes{{else}}No{{end}}
- Styling: {{.Styling}}

## Design Specifications

### Colors
- Primary: {{.P.primaryColor}}
- Secondary: {{.P.secondaryColor}}
- Background: {{.P.backgroundColor}}
- Text: {{.P.textColor}}

### Typography
- Font Family: {{.P.fontFamily}}
- Base Font Size: {{.P.fontSize}}px
- Font Weight: {{.P.fontWeight}}

### Spacing & Layout
- Padding: {{.P.padding}}px
- Margin: {{.P.margin}}px
- Border Radius: {{.P.borderRadius}}px

### Effects & Animations
- Animation Type: {{.P.animation}}
- Duration: {{.P.duration}}ms
- Shadow Intensity: {{.P.shadowIntensity}}%
- Blur Amount: {{.P.blurAmount}}px

## Features Required
{{range .Features}}- {{.}}
{{else}}- None
{{end}}
## Component-Specific Requirements
{{range .Requirements}}- {{.}}
{{end}}{{end}}`

const componentTemplate = `Create a {{.Def.Name}} component with the following specifications:

{{template "spec" .}}
## Additional Requirements
- Component should be reusable and accept props
- Include proper TypeScript types/interfaces
- Add helpful comments explaining complex logic
- Follow best practices for the chosen framework
- Include usage example

Please create this component with attention to detail and modern best practices.
`

const layoutTemplate = `Build a single {{.Viewport}} page ({{.Width}}x{{.Height}} px) composed of the components below.
Positions are in pixels from the top-left corner of the page. Components are listed back to front; later ones overlap earlier ones.
{{range $i, $s := .Sections}}
---

# {{inc $i}}. {{$s.Title}}
- Position: x={{$s.Inst.Position.X}}, y={{$s.Inst.Position.Y}}
- Size: {{$s.Inst.Size.Width}}x{{$s.Inst.Size.Height}}
- Stacking order: {{$s.Inst.ZIndex}}{{if $s.Inst.Locked}}
- Locked in place{{end}}
{{if $s.Found}}
{{template "spec" $s.Data}}{{else}}
Unknown component "{{$s.Inst.RefID}}"; reproduce it as a neutral placeholder of the given size.
{{end}}{{end}}
Assemble every component on one page with the layout above and keep each component self-contained.
`

var templates = template.Must(
	template.Must(
		template.New("root").Parse(specTemplate),
	).New("layout").Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).Parse(layoutTemplate),
)

var component = template.Must(template.Must(templates.Clone()).New("component").Parse(componentTemplate))

type specData struct {
	Def          domain.CatalogDefinition
	P            domain.StyleParams
	Framework    string
	Styling      string
	TypeScript   bool
	Features     []string
	Requirements []string
}

func newSpecData(def domain.CatalogDefinition, params domain.StyleParams) specData {
	p := def.DefaultStyleParams.Merge(params)
	d := specData{
		Def:          def,
		P:            p,
		Framework:    lookupName(frameworkNames, p.Get("framework").String()),
		Styling:      lookupName(stylingNames, p.Get("styling").String()),
		Requirements: requirements(def, p),
	}
	d.TypeScript, _ = p.Get("typescript").Bool()
	for _, f := range features {
		if on, _ := p.Get(f.key).Bool(); on {
			d.Features = append(d.Features, f.line)
		}
	}
	return d
}

func lookupName(names map[string]string, key string) string {
	if n, ok := names[key]; ok {
		return n
	}
	return key
}

// requirements renders the definition's requirement lines. A line that
// fails to render is kept verbatim. Definitions without lines fall back to
// their tags.
func requirements(def domain.CatalogDefinition, p domain.StyleParams) []string {
	if len(def.Requirements) == 0 {
		return []string{"Tags: " + strings.Join(def.Tags, ", ")}
	}
	out := make([]string, 0, len(def.Requirements))
	for _, line := range def.Requirements {
		t, err := template.New("req").Option("missingkey=zero").Parse(line)
		if err != nil {
			out = append(out, line)
			continue
		}
		var buf bytes.Buffer
		if err := t.Execute(&buf, p); err != nil {
			out = append(out, line)
			continue
		}
		out = append(out, buf.String())
	}
	return out
}

// Prompt renders the generation prompt for one component configuration.
// params are layered over the definition defaults.
func Prompt(def domain.CatalogDefinition, params domain.StyleParams) (string, error) {
	var buf bytes.Buffer
	if err := component.ExecuteTemplate(&buf, "component", newSpecData(def, params)); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

type layoutSection struct {
	Title string
	Inst  domain.PlacedInstance
	Found bool
	Data  specData
}

// LayoutPrompt renders one prompt for the whole canvas: the viewport, then
// every visible instance in paint order with its geometry and
// specification. bounds is the size of the document's viewport.
func LayoutPrompt(doc domain.LayoutDocument, cat domain.Catalog, bounds domain.Size) (string, error) {
	visible := make([]domain.PlacedInstance, 0, len(doc.Instances))
	for _, inst := range doc.Instances {
		if !inst.Hidden {
			visible = append(visible, inst)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].ZIndex < visible[j].ZIndex })

	sections := make([]layoutSection, len(visible))
	for i, inst := range visible {
		s := layoutSection{Title: inst.RefID, Inst: inst}
		if def, ok := cat.Lookup(inst.RefID); ok {
			s.Title = def.Name
			s.Found = true
			s.Data = newSpecData(def, inst.StyleParams)
		}
		sections[i] = s
	}

	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "layout", map[string]any{
		"Viewport": doc.Viewport,
		"Width":    bounds.Width,
		"Height":   bounds.Height,
		"Sections": sections,
	})
	if err != nil {
		return "", fmt.Errorf("render layout prompt: %w", err)
	}
	return buf.String(), nil
}

// JSON returns the layout document as indented JSON.
func JSON(doc domain.LayoutDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return data, nil
}
