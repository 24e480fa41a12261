package models

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestDateRange_Validate(t *testing.T) {
	jan1 := civil.Date{Year: 2023, Month: 1, Day: 1}
	jan7 := civil.Date{Year: 2023, Month: 1, Day: 7}

	tests := []struct {
		name  string
		r     DateRange
		valid bool
	}{
		{"ordered", DateRange{Start: jan1, End: jan7}, true},
		{"single day", DateRange{Start: jan1, End: jan1}, true},
		{"reversed", DateRange{Start: jan7, End: jan1}, false},
		{"unset", DateRange{}, false},
		{"unset start", DateRange{End: jan7}, false},
		{"impossible end", DateRange{Start: jan1, End: civil.Date{Year: 2023, Month: 2, Day: 30}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var ire *InvalidRangeError
			assert.True(t, errors.As(err, &ire))
			assert.Contains(t, err.Error(), "invalid range")
		})
	}
}
