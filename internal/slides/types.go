package slides

// Presentation is a text summary of a presentation.
type Presentation struct {
	PresentationID string  `json:"presentationId"`
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Slides         []Slide `json:"slides"`
}

// Slide holds the text of one slide in reading order.
type Slide struct {
	Index    int      `json:"index"`
	ObjectID string   `json:"objectId"`
	Texts    []string `json:"texts,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// TextReplacement is one find/replace pair for ReplaceAllText.
type TextReplacement struct {
	Find       string `json:"find"`
	Replace    string `json:"replace"`
	IgnoreCase bool   `json:"ignoreCase,omitempty"`
}

// ReplacementCount is the number of changes made for one pair.
type ReplacementCount struct {
	Find               string `json:"find"`
	OccurrencesChanged int64  `json:"occurrencesChanged"`
}

// ReplaceAllResult reports a ReplaceAllText batch.
type ReplaceAllResult struct {
	PresentationID string             `json:"presentationId"`
	TotalChanged   int64              `json:"totalChanged"`
	Results        []ReplacementCount `json:"results"`
}

// CreatedPresentation describes a newly created presentation.
type CreatedPresentation struct {
	PresentationID string `json:"presentationId"`
	Title          string `json:"title"`
	URL            string `json:"url"`
}
