package dice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns a fixed sequence of die faces (1-based).
type scripted struct {
	faces []int
	calls int
}

func (s *scripted) Intn(n int) int {
	f := s.faces[s.calls%len(s.faces)]
	s.calls++
	return (f - 1) % n
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		terms []Term
	}{
		{"2d6", true, []Term{{Text: "2d6", Count: 2, Sides: 6}}},
		{"d20", true, []Term{{Text: "d20", Count: 1, Sides: 20}}},
		{"1d20a", true, []Term{{Text: "1d20a", Count: 1, Sides: 20, Mode: ModeAdvantage}}},
		{"2d8d", true, []Term{{Text: "2d8d", Count: 2, Sides: 8, Mode: ModeDisadvantage}}},
		{"2d6+1d4-3", true, []Term{
			{Text: "2d6", Count: 2, Sides: 6},
			{Text: "+1d4", Count: 1, Sides: 4},
			{Text: "-3", Shift: -3},
		}},
		{"2d6 + 3", true, []Term{{Text: "2d6", Count: 2, Sides: 6}, {Text: "+3", Shift: 3}}},
		{"0d6", false, nil},
		{"2d0", false, nil},
		{"+3", false, nil},
		{"3", false, nil},
		{"hello", false, nil},
		{"", false, nil},
		{"2d6+", false, nil},
		{"2d6x", false, nil},
		{"101d6", false, nil},
		{"1d1001", false, nil},
		{"100d6+100d6+100d6+100d6+100d6+1d6", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, ok := Parse(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.terms, e.Terms)
			}
		})
	}
}

func TestParseLenientSkipsInvalidTerms(t *testing.T) {
	e, errs := ParseLenient("2d6+0d4+1")
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidDiceTerm)
	assert.Len(t, e.Terms, 2)
	assert.Equal(t, 2, e.DiceCount())
}

func TestRollConcreteCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		faces []int
		want  Record
	}{
		{
			name:  "dice plus shift",
			input: "2d6+3",
			faces: []int{4, 5},
			want: Record{
				RollText: "2d6+3",
				Results:  []Die{{4, 6}, {5, 6}},
				Shift:    3,
				Sum:      12,
			},
		},
		{
			name:  "advantage keeps max",
			input: "1d20a",
			faces: []int{7, 15},
			want: Record{
				RollText:   "1d20a",
				Results:    []Die{{15, 20}},
				Sum:        15,
				AltResults: []int{7},
			},
		},
		{
			name:  "disadvantage keeps min",
			input: "1d20d+2",
			faces: []int{7, 15},
			want: Record{
				RollText:   "1d20d+2",
				Results:    []Die{{7, 20}},
				Shift:      2,
				Sum:        9,
				AltResults: []int{15},
			},
		},
		{
			name:  "negative dice still add",
			input: "1d8-1d4",
			faces: []int{6, 3},
			want: Record{
				RollText: "1d8-1d4",
				Results:  []Die{{6, 8}, {3, 4}},
				Sum:      9,
			},
		},
		{
			name:  "alt results parallel results",
			input: "1d6+1d6a",
			faces: []int{2, 1, 5},
			want: Record{
				RollText:   "1d6+1d6a",
				Results:    []Die{{2, 6}, {5, 6}},
				Sum:        7,
				AltResults: []int{0, 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := Parse(tt.input)
			require.True(t, ok)
			got := NewRoller(&scripted{faces: tt.faces}).Roll(e)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRollProperties(t *testing.T) {
	seed, err := NewSeed()
	require.NoError(t, err)
	r := NewSeededRoller(seed)
	inputs := []string{"2d6+1d4-3", "4d8a", "10d100d-7", "1d20+1d20+1d20"}
	for _, input := range inputs {
		e, ok := Parse(input)
		require.True(t, ok)
		for i := 0; i < 200; i++ {
			rec := r.Roll(e)
			require.Len(t, rec.Results, e.DiceCount())
			sum := rec.Shift
			for j, d := range rec.Results {
				require.GreaterOrEqual(t, d.Value, 1)
				require.LessOrEqual(t, d.Value, d.Sides)
				if rec.AltResults != nil {
					require.Len(t, rec.AltResults, len(rec.Results))
					_ = rec.AltResults[j]
				}
				sum += d.Value
			}
			require.Equal(t, sum, rec.Sum)
		}
	}
}

func TestRollText(t *testing.T) {
	r := NewSeededRoller(1)
	_, _, ok := r.RollText("nothing")
	assert.False(t, ok)

	rec, errs, ok := r.RollText("2d6+0d4")
	require.True(t, ok)
	assert.Len(t, errs, 1)
	assert.Len(t, rec.Results, 2)
}

func TestUnwrap(t *testing.T) {
	inner, open, closed := Unwrap("(2d6+1)")
	assert.Equal(t, "2d6+1", inner)
	assert.True(t, open)
	assert.True(t, closed)

	inner, open, closed = Unwrap("2d6)")
	assert.Equal(t, "2d6", inner)
	assert.False(t, open)
	assert.True(t, closed)
}

func TestSplitTermsNeverLosesText(t *testing.T) {
	for _, s := range []string{"2d6+1d4-3", "-1d4", "+-", "abc"} {
		assert.Equal(t, s, strings.Join(splitTerms(s), ""))
	}
}
