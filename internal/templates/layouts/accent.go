package layouts

import (
	"fmt"
	"html/template"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

type accent struct {
	Primary string
	Soft    string
}

var defaultAccent = accent{Primary: "#0f766e", Soft: "#ccfbf1"}

var typeAccents = map[models.BusinessType]accent{
	models.BusinessTypeHotel:      {Primary: "#1d4ed8", Soft: "#dbeafe"},
	models.BusinessTypeRestaurant: {Primary: "#c2410c", Soft: "#ffedd5"},
	models.BusinessTypeHostel:     {Primary: "#7c3aed", Soft: "#ede9fe"},
}

// accentCSSVars colors the shell after the business being managed. Pages
// outside a business use the default accent.
func accentCSSVars(businessType models.BusinessType) template.CSS {
	chosen, ok := typeAccents[businessType]
	if !ok {
		chosen = defaultAccent
	}
	return template.CSS(fmt.Sprintf(":root{--accent:%s;--accent-soft:%s;}", chosen.Primary, chosen.Soft))
}
