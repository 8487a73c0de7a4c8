package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"10 December 2020", "10-12-2020", true},
		{"1 March 2019", "01-03-2019", true},
		{"10th December 2020", "10-12-2020", true},
		{"22nd Sept 2015", "22-09-2015", true},
		{"10th of December 2020", "10-12-2020", true},
		{"10th day of December 2020", "10-12-2020", true},
		{"Registered this 3rd Day of March 2019", "03-03-2019", true},
		{"10-Dec-2020", "10-12-2020", true},
		{"December 10, 2020", "10-12-2020", true},
		{"Dec. 3 2021", "03-12-2021", true},
		{"2020-12-10", "10-12-2020", true},
		{"2020/1/5", "05-01-2020", true},
		{"10/12/2020", "10-12-2020", true},
		{"10.12.2020", "10-12-2020", true},
		{"Date of registry: 4 July 2018", "04-07-2018", true},
		{"31 February 2020", "31 February 2020", false},
		{"13/13/2020", "13/13/2020", false},
		{"10 Smarch 2020", "10 Smarch 2020", false},
		{"10/12/20", "10/12/20", false},
		{"not a date", "not a date", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
