package deps

// Status reports whether one external tool is usable. Path is the resolved
// executable when Available; Detail explains why it is not.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// MissingRequired lists the names of unavailable, non-optional tools in the
// order they were checked.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, s := range statuses {
		if s.Available || s.Optional {
			continue
		}
		missing = append(missing, s.Name)
	}
	return missing
}
