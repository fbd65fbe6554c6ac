package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "claimdocs/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "record IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseClaimID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseClaimID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseClaimID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseClaimID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, ClaimID(valid), id)
	})
}

func TestParseID_TrustBoundary(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE claims;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMediaID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestParseDocumentID(t *testing.T) {
	id, err := ParseDocumentID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, DocumentID(42), id)

	for _, input := range []string{"", "0", "-3", "abc"} {
		_, err := ParseDocumentID(input)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), input)
	}
}

func TestClaimID_TextRoundTrip(t *testing.T) {
	id := NewClaimID()
	text, err := id.MarshalText()
	require.NoError(t, err)

	var parsed ClaimID
	require.NoError(t, parsed.UnmarshalText(text))
	assert.Equal(t, id, parsed)
}
