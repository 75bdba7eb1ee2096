package views

import "sitecontent/internal/domain"

// ByIndustry keeps customers whose industry matches exactly, in input order.
func ByIndustry(customers []domain.Customer, industry string) []domain.Customer {
	out := []domain.Customer{}
	for _, c := range customers {
		if c.Industry == industry {
			out = append(out, c)
		}
	}
	return out
}

func WithTestimonials(customers []domain.Customer) []domain.Customer {
	out := []domain.Customer{}
	for _, c := range customers {
		if c.Testimonial != nil {
			out = append(out, c)
		}
	}
	return out
}

// Featured returns the first customer with at least one metric. Selection
// is by position, not by ranking.
func Featured(customers []domain.Customer) (domain.Customer, bool) {
	for _, c := range customers {
		if len(c.Metrics) > 0 {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// Industries lists distinct industries in first-seen order.
func Industries(customers []domain.Customer) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range customers {
		if !seen[c.Industry] {
			seen[c.Industry] = true
			out = append(out, c.Industry)
		}
	}
	return out
}
