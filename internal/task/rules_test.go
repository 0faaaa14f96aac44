package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreate_FirstViolatedRule(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want string
	}{
		{
			name: "valid",
			in:   Input{Title: "Buy milk", Description: "2% milk", Priority: PriorityLow},
		},
		{
			name: "blank title",
			in:   Input{Title: "   ", Description: "d", Priority: PriorityLow},
			want: MsgRequired,
		},
		{
			name: "missing description wins over long title",
			in:   Input{Title: strings.Repeat("t", 30), Priority: PriorityLow},
			want: MsgRequired,
		},
		{
			name: "title 26 chars",
			in:   Input{Title: strings.Repeat("t", 26), Description: "d", Priority: PriorityLow},
			want: MsgTitleTooLong,
		},
		{
			name: "title 25 multibyte chars",
			in:   Input{Title: strings.Repeat("é", 25), Description: "d", Priority: PriorityLow},
		},
		{
			name: "description 201 chars",
			in:   Input{Title: "t", Description: strings.Repeat("d", 201), Priority: PriorityLow},
			want: MsgDescriptionTooLong,
		},
		{
			name: "long title wins over long description",
			in:   Input{Title: strings.Repeat("t", 26), Description: strings.Repeat("d", 201), Priority: PriorityLow},
			want: MsgTitleTooLong,
		},
		{
			name: "unknown priority",
			in:   Input{Title: "t", Description: "d", Priority: "urgent"},
			want: MsgPriorityInvalid,
		},
		{
			name: "empty priority",
			in:   Input{Title: "t", Description: "d"},
			want: MsgPriorityInvalid,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCreate(tc.in)
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.want, verr.Message)
		})
	}
}

func TestValidateUpdate_RequiresCompleted(t *testing.T) {
	in := Input{Title: "t", Description: "d", Priority: PriorityHigh}

	err := ValidateUpdate(in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgCompletedInvalid, verr.Message)

	done := false
	in.Completed = &done
	assert.NoError(t, ValidateUpdate(in))
}

func TestValidateFields_OnlyNamedFields(t *testing.T) {
	// description and priority are empty but not checked
	assert.NoError(t, ValidateFields(Input{Title: "Buy milk"}, "Title"))
	assert.NoError(t, ValidateFields(Input{Title: strings.Repeat("é", MaxTitleLen)}, "Title"))

	var ve *ValidationError
	err := ValidateFields(Input{Title: "  "}, "Title")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, MsgRequired, ve.Message)

	err = ValidateFields(Input{Title: strings.Repeat("t", MaxTitleLen+1)}, "Title")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, MsgTitleTooLong, ve.Message)

	err = ValidateFields(Input{Description: strings.Repeat("d", MaxDescriptionLen+1)}, "Description")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, MsgDescriptionTooLong, ve.Message)
}
