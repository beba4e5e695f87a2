package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itnxhuy1806/socket-game-be/internal/security"
)

func TestValidateParticipantName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		// Valid cases
		{"valid simple name", "alice", "alice", false},
		{"valid with numbers", "alice2024", "alice2024", false},
		{"valid with space", "Alice Smith", "Alice Smith", false},
		{"valid with hyphen", "Jean-Luc", "Jean-Luc", false},
		{"valid with apostrophe", "O'Brien", "O'Brien", false},
		{"valid with underscore", "team_lead", "team_lead", false},
		{"valid with dot", "a.smith", "a.smith", false},
		{"valid accented", "Zoé", "Zoé", false},
		{"valid with leading space", "  alice", "alice", false},
		{"valid with trailing space", "alice  ", "alice", false},
		{"maximum length", strings.Repeat("a", 50), strings.Repeat("a", 50), false},

		// Invalid cases
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"too long", strings.Repeat("a", 51), "", true},
		{"xss attempt", "<script>alert('xss')</script>", "", true},
		{"sql injection", "'; DROP TABLE users--", "", true},
		{"shell metacharacters", "alice$(rm -rf)", "", true},
		{"control characters", "alice\x00", "", true},
		{"pipe", "alice|bob", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := security.ValidateParticipantName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIsValidMessageType(t *testing.T) {
	t.Run("accepts known inbound types", func(t *testing.T) {
		assert.True(t, security.IsValidMessageType("SendQuestion"))
		assert.True(t, security.IsValidMessageType("ResetRoom"))
		assert.True(t, security.IsValidMessageType("sendAnswer"))
		assert.True(t, security.IsValidMessageType("UpdateUsers"))
	})

	t.Run("rejects unknown and outbound-only types", func(t *testing.T) {
		assert.False(t, security.IsValidMessageType(""))
		assert.False(t, security.IsValidMessageType("UpdateQuestion"))
		assert.False(t, security.IsValidMessageType("SENDQUESTION"))
		assert.False(t, security.IsValidMessageType("SendAnswer"))
	})
}
