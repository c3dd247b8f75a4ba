package actions

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectLowPriorityTag(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		want     string
	}{
		{name: "header absent creates it", existing: "", want: "lowprio"},
		{name: "header present appends", existing: "other", want: "other,lowprio"},
		{name: "repeated call accumulates", existing: "lowprio", want: "lowprio,lowprio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			if tt.existing != "" {
				headers.Set(clientTagsHeader, tt.existing)
			}
			InjectLowPriorityTag(headers)
			assert.Equal(t, tt.want, headers.Get(clientTagsHeader))
		})
	}
}

func TestInjectLowPriorityTagAccumulatesAcrossMultipleRules(t *testing.T) {
	headers := http.Header{}
	InjectLowPriorityTag(headers)
	InjectLowPriorityTag(headers)
	InjectLowPriorityTag(headers)

	assert.Equal(t, "lowprio,lowprio,lowprio", headers.Get(clientTagsHeader))
}
