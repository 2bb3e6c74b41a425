package wheel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Astrolabe/internal/domain/models"
)

var approx = cmpopts.EquateApprox(0, 1e-6)

func TestGateTableIsPermutation(t *testing.T) {
	seen := map[int]bool{}
	for _, g := range GateTable {
		require.GreaterOrEqual(t, g, 1)
		require.LessOrEqual(t, g, 64)
		require.False(t, seen[g], "gate %d repeated", g)
		seen[g] = true
	}
	assert.Len(t, seen, 64)
}

func TestSizes(t *testing.T) {
	assert.Equal(t, 358.25, StartOffset)
	assert.Equal(t, 5.625, GateSize)
	assert.Equal(t, 0.9375, LineSize)
	assert.InDelta(t, 360.0, BaseSize*64*6*6*6*5, 1e-9)
}

func TestEncodeAtStartOffset(t *testing.T) {
	got := Encode(StartOffset, models.ConventionStandard)
	want := models.WheelCoordinate{
		GateIndex: 0, Gate: 25, Line: 1, Color: 1, Tone: 1, Base: 1,
		Convention: models.ConventionStandard,
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Fatalf("coordinate mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeOneGateForward(t *testing.T) {
	prev := Encode(StartOffset, models.ConventionStandard)
	lon := StartOffset
	for i := 1; i < Gates; i++ {
		lon += GateSize
		got := Encode(lon, models.ConventionStandard)
		assert.Equal(t, (prev.GateIndex+1)%Gates, got.GateIndex, "lon %v", lon)
		assert.Equal(t, GateTable[got.GateIndex], got.Gate)
		prev = got
	}

	got := Encode(StartOffset+GateSize, models.ConventionStandard)
	assert.Equal(t, 17, got.Gate)
	assert.Equal(t, 1, got.Line)
}

func TestEncodeKnownLongitudes(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		want models.WheelCoordinate
	}{
		{
			name: "zero aries",
			lon:  0,
			want: models.WheelCoordinate{GateIndex: 0, Gate: 25, Line: 2, Color: 6, Tone: 2, Base: 1},
		},
		{
			name: "mid cancer",
			lon:  100.1234,
			want: models.WheelCoordinate{GateIndex: 18, Gate: 39, Line: 1, Color: 4, Tone: 6, Base: 5,
				ColorFrac: 0.98976, ToneFrac: 0.93856, BaseFrac: 0.6928},
		},
		{
			name: "constructed",
			lon:  StartOffset + 10*GateSize + 3*LineSize + 2*ColorSize + 4*ToneSize + 3.5*BaseSize,
			want: models.WheelCoordinate{GateIndex: 10, Gate: 8, Line: 4, Color: 3, Tone: 5, Base: 4,
				ColorFrac: 0.78333333, ToneFrac: 0.7, BaseFrac: 0.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.lon, models.ConventionStandard)
			tt.want.Convention = models.ConventionStandard
			ignoreFrac := tt.want.ColorFrac == 0 && tt.want.ToneFrac == 0 && tt.want.BaseFrac == 0
			opts := []cmp.Option{approx}
			if ignoreFrac {
				opts = append(opts, cmpopts.IgnoreFields(models.WheelCoordinate{}, "ColorFrac", "ToneFrac", "BaseFrac"))
			}
			if diff := cmp.Diff(tt.want, got, opts...); diff != "" {
				t.Fatalf("coordinate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeRanges(t *testing.T) {
	for lon := -720.0; lon < 720; lon += 0.0137 {
		c := Encode(lon, models.ConventionStandard)
		require.True(t, c.Gate >= 1 && c.Gate <= 64)
		require.True(t, c.Line >= 1 && c.Line <= 6)
		require.True(t, c.Color >= 1 && c.Color <= 6)
		require.True(t, c.Tone >= 1 && c.Tone <= 6)
		require.True(t, c.Base >= 1 && c.Base <= 5)
		require.True(t, c.ColorFrac >= 0 && c.ColorFrac < 1)
		require.True(t, c.ToneFrac >= 0 && c.ToneFrac < 1)
		require.True(t, c.BaseFrac >= 0 && c.BaseFrac < 1)
	}
}

func TestAlternateConvention(t *testing.T) {
	lon := StartOffset + 10*GateSize + 3*LineSize + 2*ColorSize + 4*ToneSize + 3.5*BaseSize
	std := Encode(lon, models.ConventionStandard)
	alt := Encode(lon, models.ConventionAlternate)

	assert.Equal(t, models.ConventionAlternate, alt.Convention)
	assert.Equal(t, std.Gate, alt.Gate)
	assert.Equal(t, std.Line, alt.Line)
	assert.Equal(t, 4, alt.Color)
	assert.Equal(t, 4, alt.Tone)
	assert.Equal(t, 3, alt.Base)

	// wrap-around at both ends
	first := Encode(StartOffset, models.ConventionAlternate)
	assert.Equal(t, 2, first.Color)
	assert.Equal(t, 6, first.Tone)
	assert.Equal(t, 5, first.Base)
}

func TestConvertRoundTrip(t *testing.T) {
	for lon := 0.0; lon < 360; lon += 0.7771 {
		std := Encode(lon, models.ConventionStandard)
		back := Convert(Convert(std, models.ConventionAlternate), models.ConventionStandard)
		if diff := cmp.Diff(std, back); diff != "" {
			t.Fatalf("round trip mismatch at %v (-want +got):\n%s", lon, diff)
		}
		assert.Equal(t, std, Convert(std, models.ConventionStandard), "same-convention convert must be a no-op")
	}
}

func TestParseConvention(t *testing.T) {
	c, err := ParseConvention("")
	require.NoError(t, err)
	assert.Equal(t, models.ConventionStandard, c)

	c, err = ParseConvention("Alternate")
	require.NoError(t, err)
	assert.Equal(t, models.ConventionAlternate, c)

	_, err = ParseConvention("legacy")
	assert.ErrorIs(t, err, models.ErrInvalidWheelConvention)
}

func TestLongitude(t *testing.T) {
	lon, ok := Longitude(41, 1)
	require.True(t, ok)
	assert.InDelta(t, 302.0, lon, 1e-9)

	c := Encode(lon, models.ConventionStandard)
	assert.Equal(t, 41, c.Gate)
	assert.Equal(t, 1, c.Line)

	_, ok = Longitude(65, 1)
	assert.False(t, ok)
	_, ok = Longitude(1, 7)
	assert.False(t, ok)
}
