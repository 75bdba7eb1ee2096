package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sitecontent/internal/domain"
)

func TestCustomerFilters(t *testing.T) {
	customers := []domain.Customer{
		{ID: "1", Name: "Harbor Inn", Industry: "hospitality"},
		{ID: "2", Name: "Smile Dental", Industry: "healthcare", Testimonial: &domain.Testimonial{Quote: "Great"}},
		{ID: "3", Name: "Lakeside Resort", Industry: "hospitality", Metrics: []domain.Metric{{Label: "Leads", Value: "+40%"}}},
		{ID: "4", Name: "Ortho Plus", Industry: "healthcare", Metrics: []domain.Metric{{Label: "Calls", Value: "+2x"}}},
	}

	assert.Equal(t, []string{"1", "3"}, ids(ByIndustry(customers, "hospitality")))
	assert.Empty(t, ByIndustry(customers, "Hospitality"))
	assert.Equal(t, []string{"2"}, ids(WithTestimonials(customers)))

	featured, ok := Featured(customers)
	assert.True(t, ok)
	assert.Equal(t, "3", featured.ID)

	_, ok = Featured(customers[:2])
	assert.False(t, ok)

	assert.Equal(t, []string{"hospitality", "healthcare"}, Industries(customers))
}

func ids(customers []domain.Customer) []string {
	out := make([]string, len(customers))
	for i, c := range customers {
		out[i] = c.ID
	}
	return out
}
