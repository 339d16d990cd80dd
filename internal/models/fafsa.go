// internal/models/fafsa.go
package models

// FafsaStep is one entry in the 12-step FAFSA walkthrough. The step count is
// the denominator behind the 0-12 fafsaCurrentStep urgency signal.
type FafsaStep struct {
	Step        int      `json:"step"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Documents   []string `json:"documents"`
	Tips        []string `json:"tips"`
	URL         string   `json:"url,omitempty"`
}

// FafsaStepCount is the total number of guided steps.
const FafsaStepCount = 12

// FafsaSteps is the ordered walkthrough shown to students. Step numbers are
// 1-based; a student's fafsaCurrentStep of 0 means not started, FafsaStepCount
// means complete.
var FafsaSteps = []FafsaStep{
	{
		Step:        1,
		Title:       "Create Your FSA ID",
		Description: "You and one parent (if dependent) each need a separate FSA ID that serves as your legal signature.",
		Documents:   []string{"Social Security Number", "Email address"},
		Tips: []string{
			"Each person needs their own email address.",
			"SSN verification can take up to 3 days, so do this first.",
		},
		URL: "https://studentaid.gov/fsa-id/create-account/launch",
	},
	{
		Step:        2,
		Title:       "Gather Your Documents",
		Description: "Collect everything you'll need before starting the form.",
		Documents: []string{
			"Your Social Security Number",
			"Your parent's Social Security Number (if dependent)",
			"Federal tax returns from 2 years ago",
			"W-2 forms and records of other income",
			"Bank statements and investment records",
		},
		Tips: []string{
			"The FAFSA uses tax info from the prior-prior year.",
		},
	},
	{
		Step:        3,
		Title:       "Start Your FAFSA at studentaid.gov",
		Description: "Log in with your FSA ID and select the correct award year.",
		Tips: []string{
			"For fall enrollment, choose the award year that starts that fall.",
			"Save as you go; the form times out after 45 minutes.",
		},
		URL: "https://studentaid.gov/h/apply-for-aid/fafsa",
	},
	{
		Step:        4,
		Title:       "Enter Your Student Information",
		Description: "Provide personal information exactly as it appears on your Social Security card.",
		Documents:   []string{"Social Security card", "Driver's license or state ID"},
	},
	{
		Step:        5,
		Title:       "Determine Your Dependency Status",
		Description: "Most high school seniors are dependent students by FAFSA rules.",
		Tips: []string{
			"Financial independence from your parents does not make you independent for the FAFSA.",
		},
	},
	{
		Step:        6,
		Title:       "Enter Parent Information",
		Description: "Which parent to include depends on your family situation.",
		Documents:   []string{"Parent's Social Security Number", "Parent's FSA ID login", "Parent's tax returns and W-2s"},
	},
	{
		Step:        7,
		Title:       "Link IRS Tax Data",
		Description: "Use the IRS data exchange to pull tax info directly and reduce verification risk.",
	},
	{
		Step:        8,
		Title:       "Enter Financial Information",
		Description: "Report savings and investments. Retirement accounts and your primary home do not count.",
		Documents:   []string{"Bank account balances", "Investment account balances", "529 plan balances"},
		Tips: []string{
			"Parent-owned 529 plans count as a parental asset; grandparent-owned plans are not reported.",
		},
	},
	{
		Step:        9,
		Title:       "Add Your School Codes",
		Description: "Enter the Federal School Code for each college you're considering, up to 20.",
		Tips: []string{
			"Add every school you're applying to; you can remove them later.",
		},
		URL: "https://studentaid.gov/fafsa/school-search",
	},
	{
		Step:        10,
		Title:       "Sign with Your FSA ID",
		Description: "You and a parent (if dependent) both sign electronically.",
	},
	{
		Step:        11,
		Title:       "Review Your Submission Summary",
		Description: "Check the Student Aid Index and confirm every school received your information.",
	},
	{
		Step:        12,
		Title:       "Follow Up on Verification",
		Description: "Respond quickly if a school selects you for verification; aid is not final until it clears.",
	},
}
