// internal/attrition/codec_test.go
package attrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "attrition-insights/internal/common/errors"
)

// ==========================
// Normalization Tests
// ==========================

func TestLabelCodec_Normalize(t *testing.T) {
	codec := NewLabelCodec()

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"already canonical", "Will Leave", "Will Leave"},
		{"surrounding whitespace", "  Will Leave  ", "Will Leave"},
		{"lowercase", "will leave", "Will Leave"},
		{"uppercase", "WONT LEAVE", "Wont Leave"},
		{"mixed case", "LiKeLy tO lEaVe", "Likely To Leave"},
		{"internal whitespace collapsed", "Not    Decided", "Not Decided"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, codec.Normalize(tt.raw))
		})
	}
}

// ==========================
// Encode / Decode Tests
// ==========================

func TestLabelCodec_EncodeOne(t *testing.T) {
	codec := NewLabelCodec()

	tests := []struct {
		name     string
		raw      string
		expected int
		ok       bool
	}{
		{"will leave", "Will Leave", VerdictWillLeave, true},
		{"likely to leave", "likely to leave", VerdictLikelyToLeave, true},
		{"not decided", " NOT DECIDED ", VerdictNotDecided, true},
		{"less likely to leave", "Less Likely To Leave", VerdictLessLikelyToLeave, true},
		{"wont leave", "wont leave", VerdictWontLeave, true},
		{"unmapped verdict", "Maybe", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := codec.EncodeOne(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, id)
			}
		})
	}
}

func TestLabelCodec_Encode_Success(t *testing.T) {
	codec := NewLabelCodec()

	ids, err := codec.Encode([]string{"Will Leave", "wont leave", "Not Decided"})
	require.NoError(t, err)
	assert.Equal(t, []int{VerdictWillLeave, VerdictWontLeave, VerdictNotDecided}, ids)
}

func TestLabelCodec_Encode_AggregatesUnmappedValues(t *testing.T) {
	codec := NewLabelCodec()

	ids, err := codec.Encode([]string{"Will Leave", "Maybe", "Unsure", "maybe", "Wont Leave"})
	require.Error(t, err)
	assert.Nil(t, ids)

	assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeUnmappedLabel))
	// Distinct normalized values, sorted; "Maybe" and "maybe" collapse.
	assert.Equal(t, []string{"Maybe", "Unsure"}, stderrors.UnmappedValues(err))
}

func TestLabelCodec_Decode(t *testing.T) {
	codec := NewLabelCodec()

	tests := []struct {
		name     string
		id       int
		expected string
	}{
		{"will leave", VerdictWillLeave, "Will Leave"},
		{"wont leave", VerdictWontLeave, "Wont Leave"},
		{"zero is unknown", 0, "Unknown"},
		{"out of range is unknown", 99, "Unknown"},
		{"negative is unknown", -1, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, codec.Decode(tt.id))
		})
	}
}

func TestLabelCodec_DecodeEncode_RoundTrip(t *testing.T) {
	codec := NewLabelCodec()

	for class := VerdictWillLeave; class <= VerdictWontLeave; class++ {
		text := codec.Decode(class)
		id, ok := codec.EncodeOne(text)
		require.True(t, ok, "decoded verdict %q must encode back", text)
		assert.Equal(t, class, id)
	}
}
