package summarize

// Severity levels for identified risks.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Summary is the structured result of analyzing a legal document.
// Degraded is true when real summarization failed and the content only
// flags the failure; callers can tell fallback output from the real thing.
type Summary struct {
	Parties     []Party    `json:"parties"`
	Obligations []string   `json:"obligations"`
	Dates       []DateItem `json:"dates"`
	Terms       []Term     `json:"terms"`
	Risks       []Risk     `json:"risks"`
	Raw         string     `json:"raw"`
	Degraded    bool       `json:"degraded,omitempty"`
}

// Party is a participant in the document and its role.
type Party struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// DateItem is a critical date tied to an event.
type DateItem struct {
	Event string `json:"event"`
	Date  string `json:"date"`
}

// Term is a key contract term.
type Term struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Risk is a potential concern with a severity level.
type Risk struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// normalize replaces nil list fields with empty slices so every category
// is always present in stored and serialized summaries.
func (s *Summary) normalize() {
	if s.Parties == nil {
		s.Parties = []Party{}
	}
	if s.Obligations == nil {
		s.Obligations = []string{}
	}
	if s.Dates == nil {
		s.Dates = []DateItem{}
	}
	if s.Terms == nil {
		s.Terms = []Term{}
	}
	if s.Risks == nil {
		s.Risks = []Risk{}
	}
}
