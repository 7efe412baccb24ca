package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Formwork", want: "formwork"},
		{in: "  rebar   tying ", want: "rebar tying"},
		{in: "ÉLECTRICAL", want: "électrical"},
		{in: "\t", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalTag(tt.in))
		})
	}
}

func TestSkillSet_DropsBlanksAndDuplicates(t *testing.T) {
	set := skillSet([]string{"Concrete", "concrete ", "", "  ", "Form  Work"})

	assert.Len(t, set, 2)
	assert.Contains(t, set, "concrete")
	assert.Contains(t, set, "form work")
}

func TestScoreSkills(t *testing.T) {
	tests := []struct {
		name         string
		requested    []string
		candidate    []string
		wantScore    int
		wantMatching []string
		wantMissing  []string
	}{
		{
			name:         "full overlap",
			requested:    []string{"concrete", "formwork"},
			candidate:    []string{"Formwork", "CONCRETE", "rebar"},
			wantScore:    100,
			wantMatching: []string{"concrete", "formwork"},
			wantMissing:  []string{},
		},
		{
			name:         "one of three rounds to 33",
			requested:    []string{"rebar", "formwork", "finishing"},
			candidate:    []string{"finishing"},
			wantScore:    33,
			wantMatching: []string{"finishing"},
			wantMissing:  []string{"formwork", "rebar"},
		},
		{
			name:         "two of three rounds to 67",
			requested:    []string{"rebar", "formwork", "finishing"},
			candidate:    []string{"finishing", "rebar"},
			wantScore:    67,
			wantMatching: []string{"finishing", "rebar"},
			wantMissing:  []string{"formwork"},
		},
		{
			name:         "no candidate skills",
			requested:    []string{"welding"},
			wantScore:    0,
			wantMatching: []string{},
			wantMissing:  []string{"welding"},
		},
		{
			name:         "empty request is a vacuous match",
			candidate:    []string{"welding"},
			wantScore:    100,
			wantMatching: []string{},
			wantMissing:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := scoreSkills(skillSet(tt.requested), tt.candidate)

			assert.Equal(t, tt.wantScore, res.score)
			assert.Equal(t, tt.wantMatching, res.matching)
			assert.Equal(t, tt.wantMissing, res.missing)
		})
	}
}
