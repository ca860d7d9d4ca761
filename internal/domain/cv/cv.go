package cv

// ProfileDocID is the fixed id of the singleton profile document.
const ProfileDocID = "main"

// Profile is the singleton "cv_profile" document. The three *_summary fields
// are free-text overrides shown above the corresponding CV sections.
type Profile struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Title                 string `json:"title"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	Location              string `json:"location"`
	LinkedinURL           string `json:"linkedin_url"`
	GithubURL             string `json:"github_url"`
	PortfolioURL          string `json:"portfolio_url"`
	Summary               string `json:"summary"`
	EducationSummary      string `json:"education_summary"`
	ExperienceSummary     string `json:"experience_summary"`
	CertificationsSummary string `json:"certifications_summary"`
}

type SkillGroup struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
	Icon     string   `json:"icon"`
}

type Education struct {
	ID          string `json:"id"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartYear   string `json:"start_year"`
	EndYear     string `json:"end_year"`
}

type Experience struct {
	ID          string `json:"id"`
	JobTitle    string `json:"job_title"`
	Company     string `json:"company"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type Certification struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Issuer    string `json:"issuer"`
	IssueDate string `json:"issue_date"`
	URL       string `json:"url"`
}
