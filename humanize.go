package voluptuous

import "strings"

// Humanize renders a validation error as one line per contained failure,
// each located by its data path. It needs nothing beyond the error model's
// path, message and cause fields. Defect errors render via Error().
func Humanize(err error) string {
	if err == nil {
		return ""
	}
	errs := flattenInvalid(err)
	if errs == nil {
		return err.Error()
	}
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}
