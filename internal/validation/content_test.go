package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCommunitySlug(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"Valid", "acme-corp", false},
		{"Valid Numeric", "team-42", false},
		{"Too Short", "ab", true},
		{"Too Long", strings.Repeat("a", 25), true},
		{"Uppercase", "AcmeCorp", true},
		{"Leading Hyphen", "-acme", true},
		{"Trailing Hyphen", "acme-", true},
		{"Reserved", "admin", true},
		{"Reserved API", "api", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommunitySlug(tt.slug)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCommentContent(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateCommentContent("looks fine"))
	assert.NoError(t, ValidateCommentContent(strings.Repeat("x", MaxCommentLen)))
	assert.Error(t, ValidateCommentContent(""))
	assert.Error(t, ValidateCommentContent("   "))
	assert.Error(t, ValidateCommentContent(strings.Repeat("x", MaxCommentLen+1)))
}

func TestValidateNickname(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateNickname("jane.doe"))
	assert.NoError(t, ValidateNickname("user_42"))
	assert.Error(t, ValidateNickname("j"))
	assert.Error(t, ValidateNickname("has space"))
	assert.Error(t, ValidateNickname(strings.Repeat("a", 41)))
}

func TestValidateEmailBasic(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateEmail("jane@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
}
