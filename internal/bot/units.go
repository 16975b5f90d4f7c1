package bot

import "strings"

// Unit is one commissary location: a short code plus the display title shown
// on the selection list.
type Unit struct {
	Code  string
	Title string
}

// DefaultUnits is the catalog served when no override is wired in.
var DefaultUnits = []Unit{
	{Code: "PERG", Title: "PERG – Rio Grande"},
	{Code: "PEC", Title: "PEC – Charqueadas"},
	{Code: "PEJ", Title: "PEJ – Jacuí"},
	{Code: "PASC", Title: "PASC – Santa Cruz do Sul"},
}

// resolveUnit matches inbound text against the catalog: exact title, exact
// short-code, or a prefix of the title, all case-insensitive.
func (e *Engine) resolveUnit(norm string) (Unit, bool) {
	if norm == "" {
		return Unit{}, false
	}
	for _, u := range e.units {
		title := strings.ToLower(u.Title)
		code := strings.ToLower(u.Code)
		if norm == title || norm == code || strings.HasPrefix(title, norm) {
			return u, true
		}
	}
	return Unit{}, false
}

func (e *Engine) unitTitle(code string) string {
	for _, u := range e.units {
		if u.Code == code {
			return u.Title
		}
	}
	return code
}
