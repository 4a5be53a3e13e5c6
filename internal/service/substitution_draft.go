package service

import (
	"github.com/noah-isme/madaris-ops-api/internal/dto"
	"github.com/noah-isme/madaris-ops-api/internal/models"
)

// AssignmentDraft tracks one assignment through the editing workflow:
// unassigned → candidate-selected → conflict-checked → saved. Conflict checks
// are fired independently and may complete out of order; each check carries
// the sequence number current when it started, and stale completions are
// dropped so the last selection's result wins.
type AssignmentDraft struct {
	Cell        dto.SubstitutionCell
	CandidateID string
	State       models.AssignmentState
	Conflicts   []models.SubstitutionConflict
	Checked     bool

	checkSeq uint64
}

// NewAssignmentDraft starts a draft for one grid cell.
func NewAssignmentDraft(cell dto.SubstitutionCell) *AssignmentDraft {
	return &AssignmentDraft{Cell: cell, State: models.AssignmentUnassigned}
}

// SelectCandidate picks a substitute and invalidates any in-flight or prior
// conflict result. Returns the sequence number the next conflict check must
// present with its result.
func (d *AssignmentDraft) SelectCandidate(teacherID string) uint64 {
	d.CandidateID = teacherID
	d.State = models.AssignmentCandidateSelected
	d.Conflicts = nil
	d.Checked = false
	d.checkSeq++
	return d.checkSeq
}

// ClearCandidate returns the draft to unassigned and discards conflict
// results. In-flight checks for the cleared candidate become stale.
func (d *AssignmentDraft) ClearCandidate() {
	d.CandidateID = ""
	d.State = models.AssignmentUnassigned
	d.Conflicts = nil
	d.Checked = false
	d.checkSeq++
}

// ApplyConflictResult records a completed check. Results for a superseded
// selection are ignored.
func (d *AssignmentDraft) ApplyConflictResult(seq uint64, report *dto.ConflictReport) bool {
	if seq != d.checkSeq || d.State == models.AssignmentUnassigned {
		return false
	}
	d.Conflicts = report.Conflicts
	d.Checked = true
	d.State = models.AssignmentChecked
	if report.Count > 0 {
		d.Cell.Status = dto.CellConflict
	}
	return true
}

// Clean reports whether the draft has been checked and found conflict-free.
func (d *AssignmentDraft) Clean() bool {
	return d.Checked && len(d.Conflicts) == 0
}

// MarkSaved finalizes the draft after persistence.
func (d *AssignmentDraft) MarkSaved() {
	d.State = models.AssignmentSaved
}
