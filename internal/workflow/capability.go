package workflow

import "github.com/ardidw/studioflow-api/internal/models"

// Privileged reports whether a division may act on any non-terminal status
// and request revisions.
func Privileged(role models.Division) bool {
	return role == models.DivisionOwner || role == models.DivisionAdminProyek
}

func isDesignDivision(role models.Division) bool {
	for _, d := range designDivisions() {
		if d == role {
			return true
		}
	}
	return false
}

func designDivisions() []models.Division {
	return []models.Division{models.DivisionArsitek, models.DivisionStruktur, models.DivisionMEP}
}

// actingDivisions returns the divisions expected to act while a project sits
// in the given status. Terminal statuses return nil.
func actingDivisions(status models.ProjectStatus) []models.Division {
	st, ok := stageFor(status)
	if !ok || st.Terminal {
		return nil
	}
	if st.Division == models.DivisionDesignTeam {
		return designDivisions()
	}
	return []models.Division{st.Division}
}

// CanAct is the capability rule: Owner and Admin Proyek may act on any
// non-terminal status, everyone else only while their division holds the
// project. Terminal statuses admit no one.
func CanAct(role models.Division, status models.ProjectStatus) bool {
	if IsTerminal(status) {
		return false
	}
	if Privileged(role) {
		return true
	}
	for _, d := range actingDivisions(status) {
		if d == role {
			return true
		}
	}
	return false
}

// CanRevise reports whether a role may push a project back to an earlier
// stage. Only the privileged divisions can.
func CanRevise(role models.Division) bool {
	return Privileged(role)
}
