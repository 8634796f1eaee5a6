package coordinator

// Phase represents the coarse stage of the planning dialogue.
type Phase string

const (
	PhaseInitialAssessment     Phase = "initial_assessment"
	PhaseInformationCollection Phase = "information_collection"
	PhaseProposalReview        Phase = "proposal_review"
	PhaseTaskDelegation        Phase = "task_delegation"
	PhaseImplementation        Phase = "implementation"
	PhaseStatusReporting       Phase = "status_reporting"
)

// Category is one of the information groupings tracked for completeness.
type Category string

const (
	CategoryBasicDetails    Category = "basic_details"
	CategoryTimeline        Category = "timeline"
	CategoryBudget          Category = "budget"
	CategoryLocation        Category = "location"
	CategoryStakeholders    Category = "stakeholders"
	CategoryResources       Category = "resources"
	CategorySuccessCriteria Category = "success_criteria"
	CategoryRisks           Category = "risks"
)

// AllCategories lists every tracked category in a stable order.
var AllCategories = []Category{
	CategoryBasicDetails,
	CategoryTimeline,
	CategoryBudget,
	CategoryLocation,
	CategoryStakeholders,
	CategoryResources,
	CategorySuccessCriteria,
	CategoryRisks,
}

// ValidCategory reports whether s names a tracked category.
func ValidCategory(s string) bool {
	for _, c := range AllCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// AgentType labels the specialized agent a task is delegated to.
type AgentType string

const (
	AgentResourcePlanning        AgentType = "resource_planning"
	AgentFinancial               AgentType = "financial"
	AgentStakeholderManagement   AgentType = "stakeholder_management"
	AgentMarketingCommunications AgentType = "marketing_communications"
	AgentProjectManagement       AgentType = "project_management"
	AgentAnalytics               AgentType = "analytics"
	AgentComplianceSecurity      AgentType = "compliance_security"
)

// AgentRoster is the fixed set of delegation targets. Anything outside it
// coming back from the model is dropped, never appended.
var AgentRoster = []AgentType{
	AgentResourcePlanning,
	AgentFinancial,
	AgentStakeholderManagement,
	AgentMarketingCommunications,
	AgentProjectManagement,
	AgentAnalytics,
	AgentComplianceSecurity,
}

// ValidAgentType reports whether s names a roster agent.
func ValidAgentType(s string) bool {
	for _, a := range AgentRoster {
		if string(a) == s {
			return true
		}
	}
	return false
}
