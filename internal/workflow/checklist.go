package workflow

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ardidw/studioflow-api/internal/models"
)

// requiredDocuments lists the design documents each division must upload
// before it can sign off the parallel design stage.
var requiredDocuments = map[models.Division][]string{
	models.DivisionArsitek:  {"denah", "tampak", "potongan"},
	models.DivisionStruktur: {"pondasi", "kolom balok", "detail struktur"},
	models.DivisionMEP:      {"elektrikal", "plumbing", "mekanikal"},
}

// RequiredDocuments returns the checklist for a design division, or nil for
// any other division.
func RequiredDocuments(division models.Division) []string {
	docs, ok := requiredDocuments[division]
	if !ok {
		return nil
	}
	out := make([]string, len(docs))
	copy(out, docs)
	return out
}

// MissingDocuments returns the checklist entries the division has not covered
// yet. A file counts for an entry when the file was uploaded by that division
// and its normalized name contains the normalized entry, so "Denah Lantai
// 2.pdf" satisfies "denah" and "kolom_balok_rev3.dwg" satisfies "kolom balok".
func MissingDocuments(division models.Division, files []models.ProjectFile) []string {
	var missing []string
	for _, doc := range requiredDocuments[division] {
		want := normalizeDocName(doc)
		found := false
		for _, f := range files {
			if f.UploadedByRole != division {
				continue
			}
			if strings.Contains(normalizeDocName(f.Name), want) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, doc)
		}
	}
	return missing
}

// normalizeDocName lower-cases and strips all whitespace so checklist matching
// tolerates spacing and casing differences in uploaded file names.
func normalizeDocName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MissingDocumentsError reports which required documents a division has not
// uploaded yet. Handlers surface Missing as the error details.
type MissingDocumentsError struct {
	Division models.Division
	Missing  []string
}

func (e *MissingDocumentsError) Error() string {
	return fmt.Sprintf("division %s is missing required documents: %s", e.Division, strings.Join(e.Missing, ", "))
}
