package dto

import (
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/workflow"
)

// ChecklistItemDTO is one required document and whether an upload covers it
type ChecklistItemDTO struct {
	Document  string `json:"document"`
	Satisfied bool   `json:"satisfied"`
}

// DivisionChecklistDTO is one design division's checklist state
type DivisionChecklistDTO struct {
	Division  models.Division    `json:"division"`
	SignedOff bool               `json:"signed_off"`
	Documents []ChecklistItemDTO `json:"documents"`
}

// ToProjectChecklistDTO reports each design division's required documents,
// which of them the division's uploads already cover, and whether the
// division has signed off.
func ToProjectChecklistDTO(project models.Project) []DivisionChecklistDTO {
	divisions := []models.Division{
		models.DivisionArsitek,
		models.DivisionStruktur,
		models.DivisionMEP,
	}

	out := make([]DivisionChecklistDTO, 0, len(divisions))
	for _, division := range divisions {
		missing := workflow.MissingDocuments(division, project.Files)
		missingSet := make(map[string]bool, len(missing))
		for _, doc := range missing {
			missingSet[doc] = true
		}

		entry := DivisionChecklistDTO{
			Division:  division,
			SignedOff: project.SignedOff(division),
		}
		for _, doc := range workflow.RequiredDocuments(division) {
			entry.Documents = append(entry.Documents, ChecklistItemDTO{
				Document:  doc,
				Satisfied: !missingSet[doc],
			})
		}
		out = append(out, entry)
	}

	return out
}
