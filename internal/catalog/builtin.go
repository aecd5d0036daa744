package catalog

import "design2prompt/internal/domain"

var (
	num  = domain.NumberValue
	str  = domain.StringValue
	flag = domain.BoolValue
)

// BaseStyleParams are the parameters every component shares: colors,
// typography, spacing, effects, target framework and feature flags.
func BaseStyleParams() domain.StyleParams {
	return domain.StyleParams{
		"primaryColor":    str("#10b981"),
		"secondaryColor":  str("#06b6d4"),
		"backgroundColor": str("#0a0a0a"),
		"textColor":       str("#f0fdf4"),

		"fontFamily": str("Inter"),
		"fontSize":   num(16),
		"fontWeight": str("400"),

		"padding":      num(20),
		"margin":       num(10),
		"borderRadius": num(8),

		"animation":       str("smooth"),
		"duration":        num(300),
		"shadowIntensity": num(50),
		"blurAmount":      num(12),

		"framework":  str("react"),
		"typescript": flag(true),
		"styling":    str("tailwind"),

		"responsive":    flag(true),
		"darkMode":      flag(true),
		"accessibility": flag(true),
		"animations":    flag(true),
	}
}

func slider(key, label string, lo, hi, step float64) domain.Option {
	return domain.Option{Key: key, Label: label, Kind: domain.OptionSlider, Min: lo, Max: hi, Step: step}
}

func color(key, label string) domain.Option {
	return domain.Option{Key: key, Label: label, Kind: domain.OptionColor}
}

func choice(key, label string, choices ...string) domain.Option {
	return domain.Option{Key: key, Label: label, Kind: domain.OptionSelect, Choices: choices}
}

func toggle(key, label, description string) domain.Option {
	return domain.Option{Key: key, Label: label, Kind: domain.OptionToggle, Description: description}
}

// BaseOptions is the schema of BaseStyleParams.
func BaseOptions() []domain.Option {
	return []domain.Option{
		color("primaryColor", "Primary Color"),
		color("secondaryColor", "Secondary Color"),
		color("backgroundColor", "Background"),
		color("textColor", "Text Color"),

		choice("fontFamily", "Font Family", "Inter", "Roboto", "Poppins", "Space Grotesk", "JetBrains Mono"),
		slider("fontSize", "Font Size", 12, 24, 1),
		choice("fontWeight", "Font Weight", "300", "400", "500", "600", "700"),

		slider("padding", "Padding", 0, 40, 1),
		slider("margin", "Margin", 0, 40, 1),
		slider("borderRadius", "Border Radius", 0, 24, 1),

		choice("animation", "Animation", "none", "smooth", "bounce", "spring"),
		slider("duration", "Duration", 100, 1000, 50),
		slider("shadowIntensity", "Shadow Intensity", 0, 100, 1),
		slider("blurAmount", "Blur Amount", 0, 24, 1),

		choice("framework", "Framework", "react", "nextjs", "vue", "svelte", "vanilla", "astro"),
		toggle("typescript", "TypeScript", "Generate typed code"),
		choice("styling", "Styling", "tailwind", "css-modules", "styled-components"),

		toggle("responsive", "Responsive", "Mobile-first layout"),
		toggle("darkMode", "Dark Mode", "Dark theme support"),
		toggle("accessibility", "Accessibility", "WCAG AA compliance"),
		toggle("animations", "Animations", "Toggle motion effects"),
	}
}

var (
	cardSize   = domain.Size{Width: 320, Height: 220}
	buttonSize = domain.Size{Width: 200, Height: 80}
)

// define layers the component-specific defaults and options over the base.
func define(def domain.CatalogDefinition, defaults domain.StyleParams, options ...domain.Option) domain.CatalogDefinition {
	def.DefaultStyleParams = BaseStyleParams().Merge(defaults)
	def.Options = mergeOptions(BaseOptions(), options)
	return def
}

// mergeOptions appends extra to base; an extra option with an existing key
// replaces the base entry in place.
func mergeOptions(base, extra []domain.Option) []domain.Option {
	out := append([]domain.Option{}, base...)
	for _, o := range extra {
		replaced := false
		for i := range out {
			if out[i].Key == o.Key {
				out[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, o)
		}
	}
	return out
}

// Builtins returns the bundled component library in display order.
func Builtins() []domain.CatalogDefinition {
	return []domain.CatalogDefinition{
		define(domain.CatalogDefinition{
			ID:          "glass-card",
			Name:        "Glassmorphic Card",
			Category:    "cards",
			Description: "Frosted glass effect with customizable blur and transparency",
			Tags:        []string{"glass", "blur", "modern", "backdrop"},
			DefaultSize: cardSize,
			Requirements: []string{
				"Glass opacity: {{.glassOpacity}}%",
				"Border opacity: {{.glassBorderOpacity}}%",
				"Backdrop blur effect with customizable intensity",
				"Frosted glass aesthetic",
			},
		}, domain.StyleParams{
			"glassOpacity":       num(15),
			"glassBorderOpacity": num(40),
		},
			slider("glassOpacity", "Glass Opacity", 5, 50, 1),
			slider("glassBorderOpacity", "Border Opacity", 10, 80, 1),
			slider("blurAmount", "Blur Amount", 4, 24, 1),
		),
		define(domain.CatalogDefinition{
			ID:          "floating-card",
			Name:        "3D Floating Card",
			Category:    "cards",
			Description: "Hover to see 3D lift effect with perspective transforms",
			Tags:        []string{"3d", "hover", "perspective", "float"},
			DefaultSize: cardSize,
			Requirements: []string{
				"Float height on hover: {{.floatHeight}}px",
				"3D rotation X: {{.rotationX}}°",
				"3D rotation Y: {{.rotationY}}°",
				"Smooth perspective transforms on hover",
			},
		}, domain.StyleParams{
			"floatHeight": num(10),
			"rotationX":   num(5),
			"rotationY":   num(5),
		},
			slider("floatHeight", "Float Height", 5, 30, 1),
			slider("rotationX", "X Rotation", 0, 15, 1),
			slider("rotationY", "Y Rotation", 0, 15, 1),
		),
		define(domain.CatalogDefinition{
			ID:          "neon-card",
			Name:        "Neon Glow Card",
			Category:    "cards",
			Description: "Pulsing neon glow effect with customizable intensity",
			Tags:        []string{"neon", "glow", "pulse", "cyberpunk"},
			DefaultSize: cardSize,
			Requirements: []string{
				"Glow intensity: {{.glowIntensity}}%",
				"Glow spread: {{.glowSpread}}px",
				"Pulse animation speed: {{.pulseSpeed}}s",
				"Neon border with box-shadow glow effects",
			},
		}, domain.StyleParams{
			"glowIntensity": num(60),
			"glowSpread":    num(40),
			"pulseSpeed":    num(2),
		},
			slider("glowIntensity", "Glow Intensity", 20, 100, 1),
			slider("glowSpread", "Glow Spread", 10, 80, 1),
			slider("pulseSpeed", "Pulse Speed", 0.5, 4, 0.5),
		),
		define(domain.CatalogDefinition{
			ID:          "profile-card",
			Name:        "Profile Card",
			Category:    "cards",
			Description: "User profile with avatar, verification badge and social links",
			Tags:        []string{"profile", "avatar", "social", "user"},
			DefaultSize: domain.Size{Width: 320, Height: 400},
		}, domain.StyleParams{
			"glassOpacity": num(15),
		},
			slider("glassOpacity", "Glass Opacity", 5, 50, 1),
		),
		define(domain.CatalogDefinition{
			ID:          "product-card",
			Name:        "Product Card",
			Category:    "cards",
			Description: "E-commerce product tile with image, price, rating and wishlist action",
			Tags:        []string{"product", "ecommerce", "shop", "rating"},
			DefaultSize: domain.Size{Width: 320, Height: 420},
			Requirements: []string{
				"Image height: {{.imageHeight}}px",
				"Show rating: {{.showRating}}",
				"Add-to-cart and wishlist actions",
			},
		}, domain.StyleParams{
			"imageHeight": num(200),
			"showRating":  flag(true),
		},
			slider("imageHeight", "Image Height", 120, 320, 10),
			toggle("showRating", "Show Rating", "Display star rating"),
		),
		define(domain.CatalogDefinition{
			ID:          "gradient-btn",
			Name:        "Gradient Button",
			Category:    "buttons",
			Description: "Beautiful gradient with smooth hover effects",
			Tags:        []string{"gradient", "colorful", "hover", "modern"},
			DefaultSize: buttonSize,
			Requirements: []string{
				"Gradient angle: {{.gradientAngle}}°",
				"Hover scale: {{.hoverScale}}x",
				"Gradient from primary to secondary color",
				"Smooth hover transition with scale effect",
			},
		}, domain.StyleParams{
			"gradientAngle": num(135),
			"hoverScale":    num(1.05),
		},
			slider("gradientAngle", "Gradient Angle", 0, 360, 5),
			slider("hoverScale", "Hover Scale", 1, 1.2, 0.01),
		),
		define(domain.CatalogDefinition{
			ID:          "neo-btn",
			Name:        "Neomorphic Button",
			Category:    "buttons",
			Description: "Soft shadow neomorphic design with press states",
			Tags:        []string{"neomorphic", "soft", "shadow", "minimal"},
			DefaultSize: buttonSize,
			Requirements: []string{
				"Neomorphic depth: {{.neoDepth}}px",
				"Soft shadow intensity: {{.softShadowIntensity}}%",
				"Pressed state with inset shadows",
				"Soft, raised appearance",
			},
		}, domain.StyleParams{
			"neoDepth":            num(8),
			"softShadowIntensity": num(20),
		},
			slider("neoDepth", "Depth", 2, 16, 1),
			slider("softShadowIntensity", "Shadow Softness", 10, 50, 1),
		),
		define(domain.CatalogDefinition{
			ID:          "particle-btn",
			Name:        "Particle Effect Button",
			Category:    "buttons",
			Description: "Explosion particle effects on click",
			Tags:        []string{"particle", "explosion", "animation", "interactive"},
			DefaultSize: buttonSize,
			Requirements: []string{
				"Particle count: {{.particleCount}}",
				"Explosion radius: {{.explosionRadius}}px",
				"Particle animation on click",
				"Gradient background with particle overlay",
			},
		}, domain.StyleParams{
			"particleCount":   num(20),
			"explosionRadius": num(50),
		},
			slider("particleCount", "Particle Count", 5, 50, 1),
			slider("explosionRadius", "Explosion Radius", 20, 120, 5),
		),
		define(domain.CatalogDefinition{
			ID:          "split-button",
			Name:        "Split Button",
			Category:    "buttons",
			Description: "Primary action with an attached dropdown of secondary actions",
			Tags:        []string{"dropdown", "menu", "actions", "split"},
			DefaultSize: domain.Size{Width: 240, Height: 80},
			Requirements: []string{
				"Hover scale: {{.hoverScale}}x",
				"Dropdown surface color: {{.surfaceColor}}",
				"Keyboard navigable menu",
			},
		}, domain.StyleParams{
			"hoverScale":   num(1.02),
			"surfaceColor": str("#18181b"),
		},
			slider("hoverScale", "Hover Scale", 1, 1.2, 0.01),
			color("surfaceColor", "Menu Surface"),
		),
		define(domain.CatalogDefinition{
			ID:          "animated-form",
			Name:        "Animated Form",
			Category:    "forms",
			Description: "Field-level animations with staggered entrance",
			Tags:        []string{"animated", "stagger", "entrance", "form"},
			DefaultSize: domain.Size{Width: 360, Height: 420},
			Requirements: []string{
				"Field stagger delay: {{.fieldStagger}}s",
				"Animation style: {{.animation}}",
				"Staggered entrance animations for form fields",
				"Focus states with visual feedback",
			},
		}, domain.StyleParams{
			"fieldStagger": num(0.1),
		},
			slider("fieldStagger", "Field Stagger", 0, 0.5, 0.05),
		),
		define(domain.CatalogDefinition{
			ID:          "step-form",
			Name:        "Multi-Step Form",
			Category:    "forms",
			Description: "Progress indicators with smooth step transitions",
			Tags:        []string{"wizard", "steps", "progress", "multi-step"},
			DefaultSize: domain.Size{Width: 400, Height: 420},
			Requirements: []string{
				"Step count: {{.stepCount}}",
				"Progress style: {{.progressStyle}}",
				"Multi-step wizard with progress indicator",
				"Smooth transitions between steps",
			},
		}, domain.StyleParams{
			"stepCount":     num(3),
			"progressStyle": str("bar"),
		},
			slider("stepCount", "Steps", 2, 6, 1),
			choice("progressStyle", "Progress Style", "bar", "dots", "numbers"),
		),
		define(domain.CatalogDefinition{
			ID:          "gradient-hero",
			Name:        "Gradient Hero",
			Category:    "heroes",
			Description: "Landing hero with animated gradient orbs, headline and call-to-action",
			Tags:        []string{"hero", "landing", "gradient", "cta"},
			DefaultSize: domain.Size{Width: 800, Height: 400},
			Requirements: []string{
				"Gradient angle: {{.gradientAngle}}°",
				"Glass opacity: {{.glassOpacity}}%",
				"Blurred background orbs in primary and secondary colors",
			},
		}, domain.StyleParams{
			"gradientAngle": num(135),
			"glassOpacity":  num(15),
		},
			slider("gradientAngle", "Gradient Angle", 0, 360, 5),
			slider("glassOpacity", "Glass Opacity", 5, 50, 1),
		),
		define(domain.CatalogDefinition{
			ID:          "pricing-card",
			Name:        "Pricing Card",
			Category:    "pricing",
			Description: "Highlighted pricing tier with feature checklist and call-to-action",
			Tags:        []string{"pricing", "plan", "tier", "saas"},
			DefaultSize: domain.Size{Width: 320, Height: 440},
		}, domain.StyleParams{
			"glassOpacity": num(15),
		},
			slider("glassOpacity", "Glass Opacity", 5, 50, 1),
		),
	}
}
