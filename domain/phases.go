package domain

// Phase is an immutable descriptor of one stage of the facilitation workflow.
type Phase struct {
	ID                string
	Name              string
	Description       string
	ConversationTypes []string
	Orchestrators     []string
	Activities        []string
}

// phaseTemplate is the fixed, ordered facilitation workflow. Every session
// receives its own clone at creation time; the sequence is never reordered.
var phaseTemplate = []Phase{
	{
		ID:          "introduction",
		Name:        "Introduction",
		Description: "Welcome participants and establish context",
		ConversationTypes: []string{
			"Icebreaker discussions",
			"Project overview presentations",
			"Goal setting conversations",
		},
		Orchestrators: []string{RoleProjectManager},
		Activities: []string{
			"Welcome participants",
			"Review agenda and objectives",
			"Establish ground rules",
			"Share participant backgrounds",
		},
	},
	{
		ID:          "data_collection",
		Name:        "Data Collection",
		Description: "Gather initial information and perspectives",
		ConversationTypes: []string{
			"Stakeholder interviews",
			"Information sharing sessions",
			"Context mapping discussions",
		},
		Orchestrators: []string{RoleAnalyst, RoleProjectManager},
		Activities: []string{
			"Collect existing data and documents",
			"Interview key stakeholders",
			"Map current state and processes",
			"Identify initial constraints",
		},
	},
	{
		ID:          "analysis",
		Name:        "Analysis",
		Description: "Explore constraints and assumptions",
		ConversationTypes: []string{
			"Constraint identification",
			"Assumption testing",
			"Root cause analysis",
			"Impact assessment discussions",
		},
		Orchestrators: []string{RoleAnalyst},
		Activities: []string{
			"Analyze constraints and assumptions",
			"Identify patterns and themes",
			"Prioritize key issues",
		},
	},
	{
		ID:          "ideation",
		Name:        "Ideation",
		Description: "Generate creative solutions and ideas",
		ConversationTypes: []string{
			"Brainstorming sessions",
			"Solution generation workshops",
			"Creative thinking exercises",
		},
		Orchestrators: []string{RoleProjectManager, RoleAnalyst},
		Activities: []string{
			"Brainstorm potential solutions",
			"Encourage diverse perspectives",
			"Build on participant ideas",
			"Document creative concepts",
		},
	},
	{
		ID:          "synthesis",
		Name:        "Synthesis",
		Description: "Combine findings and develop recommendations",
		ConversationTypes: []string{
			"Consensus building",
			"Priority setting discussions",
			"Recommendation development",
		},
		Orchestrators: []string{RoleAnalyst, RoleProjectManager},
		Activities: []string{
			"Synthesize ideas and findings",
			"Develop actionable recommendations",
			"Create implementation roadmap",
			"Address remaining concerns",
		},
	},
	{
		ID:          "reporting",
		Name:        "Reporting",
		Description: "Generate final report and next steps",
		ConversationTypes: []string{
			"Findings presentation",
			"Action planning sessions",
			"Feedback and refinement",
		},
		Orchestrators: []string{RoleProjectManager},
		Activities: []string{
			"Compile final report",
			"Present key findings",
			"Outline implementation plan",
			"Plan follow-up actions",
		},
	},
}

// DefaultPhases returns a fresh clone of the phase template.
func DefaultPhases() []Phase {
	out := make([]Phase, len(phaseTemplate))
	for i, p := range phaseTemplate {
		p.ConversationTypes = append([]string(nil), p.ConversationTypes...)
		p.Orchestrators = append([]string(nil), p.Orchestrators...)
		p.Activities = append([]string(nil), p.Activities...)
		out[i] = p
	}
	return out
}
