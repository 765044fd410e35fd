// Package routing composes the ordered approval line for a proposal.
//
// The amount tiers here are fixed by the delegation-of-authority table and are
// independent of the configurable rules handled by the threshold package.
package routing

import "github.com/garyjia/contract-approval/internal/domain/entity"

// Amount tiers in the smallest currency unit
const (
	TierManagementReview int64 = 2_000_000   // management review required above this
	TierITAudit          int64 = 10_000_000  // IT audit and division-head sign-off above this
	TierAuditDirector    int64 = 50_000_000  // audit director required above this
	TierExecutive        int64 = 300_000_000 // executive sign-off above this
)

// Approver titles
const (
	TitlePreparer          = "Preparer"
	TitleTeamLead          = "Team Lead"
	TitleDivisionHead      = "Division Head"
	TitleExecutiveDirector = "Executive Director"
	TitleDepartmentHead    = "Department Head"
	TitleComplianceOfficer = "Compliance Officer"
	TitleITInternalAuditor = "IT Internal Auditor"
	TitleAuditDirector     = "Audit Director"
	TitleCEO               = "CEO"
)

// line accumulates steps with increasing order numbers
type line struct {
	steps []entity.ApprovalStep
}

func (l *line) add(step entity.ApprovalStep) {
	step.Order = len(l.steps) + 1
	l.steps = append(l.steps, step)
}

// BuildApprovalLine returns the approval steps for a contract of the given amount and
// category. A zero amount yields no steps unless the category is freeform. The last
// step is always the single final approver.
func BuildApprovalLine(totalAmount int64, category entity.Category) []entity.ApprovalStep {
	if totalAmount == 0 && category != entity.CategoryFreeform {
		return []entity.ApprovalStep{}
	}

	l := &line{steps: make([]entity.ApprovalStep, 0, 8)}

	l.add(entity.ApprovalStep{
		Name:        "Requesting Department",
		Title:       TitlePreparer,
		Description: "Drafts and submits the proposal",
	})

	if totalAmount > TierManagementReview {
		l.add(entity.ApprovalStep{
			Name:        "Management Planning",
			Title:       managementReviewTitle(totalAmount),
			Description: "Budget and management efficiency review",
			Conditional: true,
		})
	}

	if category == entity.CategoryService {
		l.add(entity.ApprovalStep{
			Name:        "Compliance",
			Title:       TitleComplianceOfficer,
			Description: "Legal compliance review for service contracts",
			Conditional: true,
		})
	}

	if category == entity.CategoryFreeform {
		l.add(entity.ApprovalStep{
			Name:        "Requesting Department",
			Title:       TitleDepartmentHead,
			Description: "Department head review of the freeform proposal",
		})
		l.add(entity.ApprovalStep{
			Name:        "Compliance",
			Title:       TitleComplianceOfficer,
			Description: "Internal policy compliance review",
			Conditional: true,
		})
	}

	if totalAmount > TierITAudit && totalAmount <= TierExecutive {
		l.add(entity.ApprovalStep{
			Name:        "IT Audit",
			Title:       TitleITInternalAuditor,
			Description: "IT system and security review",
			Conditional: true,
		})
	}

	if totalAmount > TierAuditDirector {
		l.add(entity.ApprovalStep{
			Name:        "Audit Division",
			Title:       TitleAuditDirector,
			Description: "Audit and internal control review",
			Conditional: true,
		})
	}

	l.add(entity.ApprovalStep{
		Name:        "Final Approval",
		Title:       finalApproverTitle(totalAmount),
		Description: "Final approval under the delegation of authority",
		Final:       true,
	})

	return l.steps
}

// managementReviewTitle is only meaningful above TierManagementReview
func managementReviewTitle(amount int64) string {
	switch {
	case amount <= TierAuditDirector:
		return TitleTeamLead
	case amount <= TierExecutive:
		return TitleDivisionHead
	default:
		return TitleExecutiveDirector
	}
}

func finalApproverTitle(amount int64) string {
	switch {
	case amount <= TierITAudit:
		return TitleTeamLead
	case amount <= TierExecutive:
		return TitleDivisionHead
	default:
		return TitleCEO
	}
}
