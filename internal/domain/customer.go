package domain

type Customer struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Industry     string       `json:"industry" yaml:"industry"`
	Logo         *string      `json:"logo,omitempty" yaml:"logo"`
	Testimonial  *Testimonial `json:"testimonial,omitempty" yaml:"testimonial"`
	Metrics      []Metric     `json:"metrics,omitempty" yaml:"metrics"`
	CaseStudyURL *string      `json:"caseStudyUrl,omitempty" yaml:"case_study_url"`
}

type Testimonial struct {
	Quote    string `json:"quote" yaml:"quote"`
	Author   string `json:"author" yaml:"author"`
	Role     string `json:"role" yaml:"role"`
	Initials string `json:"initials" yaml:"initials"`
}

type Metric struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}
