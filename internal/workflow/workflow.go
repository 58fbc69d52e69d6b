// Package workflow holds the project workflow state machine: the stage table,
// the forward transition table, the revision table, and the capability and
// checklist rules. It is pure domain logic with no persistence or transport
// concerns; callers load a project, apply an action, and persist the result.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardidw/studioflow-api/internal/models"
)

var (
	ErrTransitionNotFound = errors.New("no workflow transition for this status and action")
	ErrStatusNotRevisable = errors.New("revision is not supported for the current step")
	ErrFileRequired       = errors.New("this action requires at least one uploaded file")
	ErrScheduleRequired   = errors.New("this action requires schedule details")
	ErrSurveyRequired     = errors.New("this action requires survey details")
	ErrNotDesignDivision  = errors.New("only Arsitek, Struktur or MEP can sign off design uploads")
	ErrWrongActionRole    = errors.New("this action is reserved for another division")
)

// Stage describes one stop of the workflow: the progress value and the
// responsible division a project carries while it waits there.
type Stage struct {
	Status     models.ProjectStatus `json:"status"`
	Progress   int                  `json:"progress"`
	Division   models.Division      `json:"assigned_division"`
	NextAction string               `json:"next_action"`
	Terminal   bool                 `json:"terminal"`
}

// stages is the canonical stage order. Progress values are assigned by this
// table and nowhere else.
var stages = []Stage{
	{Status: models.StatusPendingOffer, Progress: 10, Division: models.DivisionAdminProyek, NextAction: "Upload the offer document"},
	{Status: models.StatusPendingApproval, Progress: 20, Division: models.DivisionOwner, NextAction: "Review the offer and approve or reject"},
	{Status: models.StatusPendingDPConfirmation, Progress: 30, Division: models.DivisionAkuntan, NextAction: "Confirm the down payment"},
	{Status: models.StatusPendingSurvey, Progress: 40, Division: models.DivisionAdminProyek, NextAction: "Schedule the site survey"},
	{Status: models.StatusSurveyScheduled, Progress: 45, Division: models.DivisionArsitek, NextAction: "Conduct the site survey"},
	{Status: models.StatusPendingParallelUploads, Progress: 50, Division: models.DivisionDesignTeam, NextAction: "Upload the required design documents"},
	{Status: models.StatusPendingDesignConfirmation, Progress: 60, Division: models.DivisionAdminProyek, NextAction: "Verify the design documents"},
	{Status: models.StatusPendingScheduling, Progress: 70, Division: models.DivisionAdminProyek, NextAction: "Schedule the sidang"},
	{Status: models.StatusScheduled, Progress: 80, Division: models.DivisionOwner, NextAction: "Hold the sidang and record the outcome"},
	{Status: models.StatusPendingPostSidangRevision, Progress: 75, Division: models.DivisionArsitek, NextAction: "Rework the design per sidang findings"},
	{Status: models.StatusCompleted, Progress: 100, Terminal: true},
	{Status: models.StatusCanceled, Progress: 0, Terminal: true},
}

// Outcome is the successor tuple of a transition.
type Outcome struct {
	Status     models.ProjectStatus
	Progress   int
	Division   models.Division
	NextAction string

	// Notify lists the divisions whose users receive a notification after the
	// transition. Empty means the newly assigned division.
	Notify []models.Division

	RequiresFile     bool
	RequiresSchedule bool
	RequiresSurvey   bool

	// OnlyRole restricts the action to a single acting division even when the
	// capability check would admit more.
	OnlyRole models.Division

	// Checklist marks the parallel-upload sign-off entry. Its Status fields
	// describe the advance target; the engine stays on the current stage
	// until every design division has signed off.
	Checklist bool
}

func outcomeFor(status models.ProjectStatus) Outcome {
	st, ok := stageFor(status)
	if !ok {
		panic(fmt.Sprintf("workflow: unknown stage %q", status))
	}
	return Outcome{Status: st.Status, Progress: st.Progress, Division: st.Division, NextAction: st.NextAction}
}

// transitions is the forward table: (status, action) -> outcome.
var transitions = map[models.ProjectStatus]map[models.WorkflowAction]Outcome{
	models.StatusPendingOffer: {
		models.ActionSubmitted: withFile(outcomeFor(models.StatusPendingApproval)),
	},
	models.StatusPendingApproval: {
		models.ActionApproved: outcomeFor(models.StatusPendingDPConfirmation),
		models.ActionRejected: outcomeFor(models.StatusCanceled),
	},
	models.StatusPendingDPConfirmation: {
		models.ActionApproved: outcomeFor(models.StatusPendingSurvey),
	},
	models.StatusPendingSurvey: {
		models.ActionScheduled: withSurvey(outcomeFor(models.StatusSurveyScheduled)),
	},
	models.StatusSurveyScheduled: {
		models.ActionCompleted: notify(outcomeFor(models.StatusPendingParallelUploads),
			models.DivisionArsitek, models.DivisionStruktur, models.DivisionMEP),
	},
	models.StatusPendingParallelUploads: {
		models.ActionArchitectUploadedInitialImages: Outcome{
			Status:       models.StatusPendingParallelUploads,
			Progress:     55,
			Division:     models.DivisionDesignTeam,
			NextAction:   "Upload the required design documents",
			Notify:       []models.Division{models.DivisionStruktur, models.DivisionMEP},
			RequiresFile: true,
			OnlyRole:     models.DivisionArsitek,
		},
		models.ActionMarkDivisionComplete: func() Outcome {
			o := outcomeFor(models.StatusPendingDesignConfirmation)
			o.Checklist = true
			return o
		}(),
	},
	models.StatusPendingDesignConfirmation: {
		models.ActionAllFilesConfirmed: outcomeFor(models.StatusPendingScheduling),
	},
	models.StatusPendingScheduling: {
		models.ActionScheduled: withSchedule(outcomeFor(models.StatusScheduled)),
	},
	models.StatusScheduled: {
		models.ActionCompleted: outcomeFor(models.StatusCompleted),
	},
	models.StatusPendingPostSidangRevision: {
		models.ActionRevisionCompletedAndFinish: outcomeFor(models.StatusCompleted),
	},
}

// Revision maps a status back to an earlier stage when a privileged role
// requests rework. The reverted progress is the target stage's entry progress
// plus five, so a revised project sits between its old and new stages.
type Revision struct {
	Action models.WorkflowAction
	Outcome
}

var revisions = map[models.ProjectStatus]Revision{
	models.StatusPendingApproval: {
		Action:  models.ActionReviseOffer,
		Outcome: revisedTo(models.StatusPendingOffer),
	},
	models.StatusPendingSurvey: {
		Action:  models.ActionReviseDP,
		Outcome: revisedTo(models.StatusPendingDPConfirmation),
	},
	models.StatusScheduled: {
		Action: models.ActionReviseAfterSidang,
		Outcome: func() Outcome {
			o := outcomeFor(models.StatusPendingPostSidangRevision)
			o.Progress = 75
			return o
		}(),
	},
}

func withFile(o Outcome) Outcome     { o.RequiresFile = true; return o }
func withSchedule(o Outcome) Outcome { o.RequiresSchedule = true; return o }
func withSurvey(o Outcome) Outcome   { o.RequiresSurvey = true; return o }

func notify(o Outcome, divisions ...models.Division) Outcome {
	o.Notify = divisions
	return o
}

func revisedTo(status models.ProjectStatus) Outcome {
	o := outcomeFor(status)
	o.Progress = o.Progress + 5
	return o
}

func stageFor(status models.ProjectStatus) (Stage, bool) {
	for _, st := range stages {
		if st.Status == status {
			return st, true
		}
	}
	return Stage{}, false
}

// StageList returns the ordered stage table, for the workflow-status listing
// endpoint and startup validation.
func StageList() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// IsTerminal reports whether a status admits no further actions.
func IsTerminal(status models.ProjectStatus) bool {
	st, ok := stageFor(status)
	return ok && st.Terminal
}

// InitialStage returns the stage every new project starts in.
func InitialStage() Stage {
	return stages[0]
}

// IsReviseAction reports whether an action is a revision request rather than
// a forward step. Revisions are gated on CanRevise instead of CanAct.
func IsReviseAction(action models.WorkflowAction) bool {
	switch action {
	case models.ActionReviseOffer, models.ActionReviseDP, models.ActionReviseAfterSidang:
		return true
	}
	return false
}

// Next resolves a submitted action against the forward and revision tables.
// Revise actions submitted at a stage the revision table does not cover fail
// with ErrStatusNotRevisable; all other unknown pairs fail with
// ErrTransitionNotFound.
func Next(status models.ProjectStatus, action models.WorkflowAction) (Outcome, error) {
	if IsReviseAction(action) {
		rev, ok := revisions[status]
		if !ok || rev.Action != action {
			return Outcome{}, ErrStatusNotRevisable
		}
		return rev.Outcome, nil
	}
	if out, ok := transitions[status][action]; ok {
		return out, nil
	}
	return Outcome{}, ErrTransitionNotFound
}

// Validate checks the tables for internal consistency. It runs at server
// startup so a malformed table refuses to boot rather than miscomputing a
// transition at request time.
func Validate() error {
	seen := make(map[models.ProjectStatus]bool, len(stages))
	for _, st := range stages {
		if seen[st.Status] {
			return fmt.Errorf("workflow: duplicate stage %q", st.Status)
		}
		seen[st.Status] = true
		if st.Progress < 0 || st.Progress > 100 {
			return fmt.Errorf("workflow: stage %q progress %d out of range", st.Status, st.Progress)
		}
		if !st.Terminal && st.Division == "" {
			return fmt.Errorf("workflow: stage %q has no assigned division", st.Status)
		}
	}

	for status, actions := range transitions {
		st, ok := stageFor(status)
		if !ok {
			return fmt.Errorf("workflow: transition from unknown stage %q", status)
		}
		if st.Terminal {
			return fmt.Errorf("workflow: terminal stage %q has outgoing transitions", status)
		}
		for action, out := range actions {
			if IsReviseAction(action) {
				return fmt.Errorf("workflow: revise action %q in forward table for %q", action, status)
			}
			if _, ok := stageFor(out.Status); !ok {
				return fmt.Errorf("workflow: transition (%q, %q) targets unknown stage %q", status, action, out.Status)
			}
			if out.Progress < 0 || out.Progress > 100 {
				return fmt.Errorf("workflow: transition (%q, %q) progress %d out of range", status, action, out.Progress)
			}
			for _, d := range out.Notify {
				if !d.IsRole() {
					return fmt.Errorf("workflow: transition (%q, %q) notifies non-role %q", status, action, d)
				}
			}
		}
	}

	for _, st := range stages {
		if st.Terminal {
			continue
		}
		if len(transitions[st.Status]) == 0 {
			return fmt.Errorf("workflow: stage %q is a dead end", st.Status)
		}
	}

	for status, rev := range revisions {
		src, ok := stageFor(status)
		if !ok {
			return fmt.Errorf("workflow: revision from unknown stage %q", status)
		}
		if _, ok := stageFor(rev.Status); !ok {
			return fmt.Errorf("workflow: revision from %q targets unknown stage %q", status, rev.Status)
		}
		if !IsReviseAction(rev.Action) {
			return fmt.Errorf("workflow: revision from %q uses non-revise action %q", status, rev.Action)
		}
		if rev.Progress >= src.Progress {
			return fmt.Errorf("workflow: revision from %q does not lower progress (%d -> %d)", status, src.Progress, rev.Progress)
		}
	}

	return nil
}

// Input carries one submitted workflow action.
type Input struct {
	Action   models.WorkflowAction
	Actor    string
	Role     models.Division
	Note     *string
	Files    int
	Schedule *models.EventDetails
	Survey   *models.EventDetails
	Now      time.Time
}

// Result reports what Apply changed. Event is always set; Signoff only when a
// new parallel-upload sign-off was recorded.
type Result struct {
	Event   models.WorkflowEvent
	Signoff *models.DesignSignoff

	// Notify lists divisions to fan notifications out to. Empty for terminal
	// statuses and for sign-offs that did not advance the project.
	Notify []models.Division

	// Advanced reports whether the project moved to a different stage tuple.
	Advanced bool
	Terminal bool
}

// Apply mutates the project in memory according to the submitted action. The
// caller is responsible for the capability check, for persisting the project
// together with Result.Event (and Signoff, when set), and for the notification
// fan-out. Apply never touches storage.
func Apply(p *models.Project, in Input) (*Result, error) {
	out, err := Next(p.Status, in.Action)
	if err != nil {
		return nil, err
	}

	if out.OnlyRole != "" && in.Role != out.OnlyRole {
		return nil, ErrWrongActionRole
	}
	if out.RequiresFile && in.Files == 0 {
		return nil, ErrFileRequired
	}
	if out.RequiresSchedule && (in.Schedule == nil || in.Schedule.Date == "") {
		return nil, ErrScheduleRequired
	}
	if out.RequiresSurvey && (in.Survey == nil || in.Survey.Date == "") {
		return nil, ErrSurveyRequired
	}

	res := &Result{
		Event: models.WorkflowEvent{
			ProjectID: p.ID,
			Division:  in.Role,
			Action:    in.Action,
			Note:      in.Note,
			CreatedAt: in.Now,
		},
	}

	if out.Checklist {
		if err := applySignoff(p, in, out, res); err != nil {
			return nil, err
		}
		return res, nil
	}

	if in.Schedule != nil {
		p.Schedule = *in.Schedule
	}
	if in.Survey != nil {
		p.Survey = *in.Survey
	}

	advance(p, out, res)
	return res, nil
}

// applySignoff handles mark_division_complete: verify the checklist for the
// actor's division, record the sign-off, and advance only when all three
// design divisions are done.
func applySignoff(p *models.Project, in Input, out Outcome, res *Result) error {
	if !isDesignDivision(in.Role) {
		return ErrNotDesignDivision
	}
	if missing := MissingDocuments(in.Role, p.Files); len(missing) > 0 {
		return &MissingDocumentsError{Division: in.Role, Missing: missing}
	}

	if !p.SignedOff(in.Role) {
		signoff := models.DesignSignoff{ProjectID: p.ID, Division: in.Role, CreatedAt: in.Now}
		p.DesignSignoffs = append(p.DesignSignoffs, signoff)
		res.Signoff = &signoff
	}

	if len(p.DesignSignoffs) >= len(designDivisions()) {
		advance(p, out, res)
	}
	return nil
}

func advance(p *models.Project, out Outcome, res *Result) {
	p.Status = out.Status
	p.Progress = out.Progress
	p.AssignedDivision = out.Division
	if out.NextAction == "" {
		p.NextAction = nil
	} else {
		next := out.NextAction
		p.NextAction = &next
	}

	res.Advanced = true
	res.Terminal = IsTerminal(out.Status)
	if res.Terminal {
		return
	}
	if len(out.Notify) > 0 {
		res.Notify = out.Notify
	} else if out.Division.IsRole() {
		res.Notify = []models.Division{out.Division}
	}
}
