package models

// Division is a role string identifying both a user's permission class and the
// party responsible for a project's next step.
type Division string

const (
	DivisionOwner       Division = "Owner"
	DivisionAdminProyek Division = "Admin Proyek"
	DivisionAkuntan     Division = "Akuntan"
	DivisionArsitek     Division = "Arsitek"
	DivisionStruktur    Division = "Struktur"
	DivisionMEP         Division = "MEP"

	// DivisionDesignTeam labels the parallel design-upload stage where Arsitek,
	// Struktur and MEP all act. It is a stage tag, never a user role.
	DivisionDesignTeam Division = "Arsitek, Struktur & MEP"
)

// Roles returns the divisions a user account may hold.
func Roles() []Division {
	return []Division{
		DivisionOwner,
		DivisionAdminProyek,
		DivisionAkuntan,
		DivisionArsitek,
		DivisionStruktur,
		DivisionMEP,
	}
}

// IsRole reports whether d is a valid user role.
func (d Division) IsRole() bool {
	for _, r := range Roles() {
		if d == r {
			return true
		}
	}
	return false
}
