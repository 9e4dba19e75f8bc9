package preview

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-siggen/pkg/model"
)

const svgOpen = `<svg xmlns="http://www.w3.org/2000/svg" width="12" height="12" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">`

const phonePath = `<path d="M22 16.92v3a2 2 0 0 1-2.18 2 19.79 19.79 0 0 1-8.63-3.07 19.5 19.5 0 0 1-6-6 19.79 19.79 0 0 1-3.07-8.67A2 2 0 0 1 4.11 2h3a2 2 0 0 1 2 1.72 12.84 12.84 0 0 0 .7 2.81 2 2 0 0 1-.45 2.11L8.09 9.91a16 16 0 0 0 6 6l1.27-1.27a2 2 0 0 1 2.11-.45 12.84 12.84 0 0 0 2.81.7A2 2 0 0 1 22 16.92z"></path>`

// DefaultIcons are the inline SVG icons shown in front of contact rows. The
// mobile row reuses the phone icon.
var DefaultIcons = map[model.Icon]string{
	model.IconMail:   svgOpen + `<rect width="20" height="16" x="2" y="4" rx="2"></rect><path d="m22 7-8.97 5.7a1.94 1.94 0 0 1-2.06 0L2 7"></path></svg>`,
	model.IconPhone:  svgOpen + phonePath + `</svg>`,
	model.IconMobile: svgOpen + phonePath + `</svg>`,
	model.IconGlobe:  svgOpen + `<circle cx="12" cy="12" r="10"></circle><path d="M12 2a14.5 14.5 0 0 0 0 20 14.5 14.5 0 0 0 0-20"></path><path d="M2 12h20"></path></svg>`,
	model.IconPin:    svgOpen + `<path d="M20 10c0 6-8 12-8 12s-8-6-8-12a8 8 0 0 1 16 0Z"></path><circle cx="12" cy="10" r="3"></circle></svg>`,
}

var (
	iconPolicyOnce sync.Once
	iconPolicy     *bluemonday.Policy
)

// sanitizeIcons returns a copy of icons with every entry passed through the
// SVG policy. Entries that sanitise to nothing are dropped.
func sanitizeIcons(icons map[model.Icon]string) map[model.Icon]string {
	out := make(map[model.Icon]string, len(icons))
	for icon, raw := range icons {
		if cleaned := sanitizeIconMarkup(raw); cleaned != "" {
			out[icon] = cleaned
		}
	}
	return out
}

func sanitizeIconMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(iconSanitizer().Sanitize(trimmed))
}

func iconSanitizer() *bluemonday.Policy {
	iconPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(
			"svg", "g", "path", "circle", "rect", "line", "polyline", "polygon",
			"ellipse", "defs", "use", "clipPath",
		)

		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "stroke-linecap", "stroke-linejoin", "aria-hidden",
			"role", "focusable", "class",
		).OnElements("svg")

		policy.AllowAttrs("href", "xlink:href", "clip-path").OnElements("use")

		for _, el := range []string{"path", "circle", "rect", "line", "polyline", "polygon", "ellipse"} {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
				"points", "rx", "ry", "width", "height", "fill", "stroke",
				"stroke-width", "stroke-linecap", "stroke-linejoin", "class",
			).OnElements(el)
		}

		policy.AllowAttrs("id", "clipPathUnits").OnElements("clipPath")
		policy.AllowAttrs("id").OnElements("defs", "g")

		iconPolicy = policy
	})
	return iconPolicy
}
