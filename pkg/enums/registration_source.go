package enums

// RegistrationSource distinguishes organic installer submissions from bulk imports.
type RegistrationSource string

const (
	// RegistrationSourceOrganic is the zero value for registrations submitted in the portal.
	RegistrationSourceOrganic RegistrationSource = ""
	RegistrationSourceImport  RegistrationSource = "import"
)

// IsImport reports whether the registration came in through a bulk import.
func (r RegistrationSource) IsImport() bool {
	return r == RegistrationSourceImport
}
