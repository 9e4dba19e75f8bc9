package render

import (
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

// MarkupFilterName is the template filter renderers apply to field values:
// {{ value|sigtext:markup }} where markup is a MarkupMode.
const MarkupFilterName = "sigtext"

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// SanitizeMarkup keeps inline formatting tags and strips everything else.
// Text content is escaped.
func SanitizeMarkup(raw string) string {
	return markupSanitizer().Sanitize(raw)
}

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "strong", "i", "em", "u", "br", "small")
		markupPolicy = policy
	})
	return markupPolicy
}

// MarkupFilter returns the pongo2 filter registered as MarkupFilterName. In
// sanitize mode the sanitised value is marked safe, otherwise it is left for
// autoescape.
func MarkupFilter() pongo2.FilterFunction {
	return func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		value := in.String()
		if param != nil && ParseMarkupMode(param.String()) == MarkupSanitize {
			return pongo2.AsSafeValue(SanitizeMarkup(value)), nil
		}
		return pongo2.AsValue(value), nil
	}
}

// TemplateFuncs bundles the filters shared by the HTML renderers.
func TemplateFuncs() map[string]any {
	return map[string]any{
		MarkupFilterName: MarkupFilter(),
	}
}
