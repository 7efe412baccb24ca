package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"8:30", 510, true},
		{"16:00", 960, true},
		{"24:00", 1440, true},
		{"08:00:00", 480, true},
		{"16:30:59", 990, true},
		{"24:00:00", 1440, true},
		{"24:00:01", 0, false},
		{"08:00:60", 0, false},
		{"08:00:0", 0, false},
		{"08:00:00:00", 0, false},
		{"24:01", 0, false},
		{"12:60", 0, false},
		{"1200", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseClock(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.minutes, got)
			}
		})
	}
}

func TestParseWindow(t *testing.T) {
	w, err := parseWindow(DateWindow{Start: "2025-02-27", End: "2025-03-02"}, nil)
	require.NoError(t, err)
	assert.Len(t, w.days, 4)
	assert.Contains(t, w.days, "2025-03-01")
	assert.False(t, w.timed)

	w, err = parseWindow(DateWindow{Start: "2025-03-10", End: "2025-03-10"}, &TimeWindow{Start: "08:00", End: "16:00"})
	require.NoError(t, err)
	assert.Len(t, w.days, 1)
	assert.Equal(t, 480, w.start)
	assert.Equal(t, 960, w.end)
	assert.True(t, w.timed)
}

func TestCheckAvailability(t *testing.T) {
	twoDays := DateWindow{Start: "2025-03-10", End: "2025-03-11"}
	dayShift := &TimeWindow{Start: "08:00", End: "16:00"}

	tests := []struct {
		name       string
		timeWindow *TimeWindow
		slots      []AvailabilitySlot
		permissive bool
		partial    bool
		wantPass   bool
		wantScore  int
	}{
		{
			name:       "every day fully covered",
			timeWindow: dayShift,
			slots: []AvailabilitySlot{
				{Date: "2025-03-10", Start: "07:00", End: "17:00", Status: SlotAvailable},
				{Date: "2025-03-11", Start: "08:00", End: "16:00", Status: SlotAvailable},
			},
			wantPass:  true,
			wantScore: 100,
		},
		{
			name:      "date-only request accepts any available slot",
			slots:     []AvailabilitySlot{{Date: "2025-03-10", Start: "09:00", End: "10:00", Status: SlotAvailable}, {Date: "2025-03-11", Start: "18:00", End: "20:00", Status: SlotAvailable}},
			wantPass:  true,
			wantScore: 100,
		},
		{
			name:       "no data is permissive by default",
			timeWindow: dayShift,
			permissive: true,
			wantPass:   true,
			wantScore:  NeutralScore,
		},
		{
			name:       "no data excluded when conservative",
			timeWindow: dayShift,
			wantPass:   false,
			wantScore:  0,
		},
		{
			name:       "slots outside the window count as no data",
			timeWindow: dayShift,
			permissive: true,
			slots:      []AvailabilitySlot{{Date: "2025-03-12", Status: SlotBooked}},
			wantPass:   true,
			wantScore:  NeutralScore,
		},
		{
			name:       "malformed available slots are ignored",
			timeWindow: dayShift,
			permissive: true,
			slots:      []AvailabilitySlot{{Date: "2025-03-10", Start: "17:00", End: "09:00", Status: SlotAvailable}},
			wantPass:   true,
			wantScore:  NeutralScore,
		},
		{
			name:       "malformed booked slot blocks the whole day",
			timeWindow: dayShift,
			permissive: true,
			slots:      []AvailabilitySlot{{Date: "2025-03-10", Start: "17:00", End: "09:00", Status: SlotBooked}},
			wantPass:   false,
			wantScore:  0,
		},
		{
			name:       "booked slot with seconds excludes",
			timeWindow: dayShift,
			permissive: true,
			slots:      []AvailabilitySlot{{Date: "2025-03-10", Start: "08:00:00", End: "17:00:00", Status: SlotBooked}},
			wantPass:   false,
			wantScore:  0,
		},
		{
			name:       "available slots with seconds cover the shift",
			timeWindow: dayShift,
			slots: []AvailabilitySlot{
				{Date: "2025-03-10", Start: "07:30:00", End: "16:00:00", Status: SlotAvailable},
				{Date: "2025-03-11", Start: "08:00:00", End: "18:00:00", Status: SlotAvailable},
			},
			wantPass:  true,
			wantScore: 100,
		},
		{
			name:       "unknown statuses count as no data",
			timeWindow: dayShift,
			permissive: true,
			slots: []AvailabilitySlot{
				{Date: "2025-03-10", Start: "08:00", End: "16:00", Status: "tentative"},
				{Date: "2025-03-11", Status: ""},
			},
			wantPass:  true,
			wantScore: NeutralScore,
		},
		{
			name:       "booked slot inside the shift excludes",
			timeWindow: dayShift,
			permissive: true,
			partial:    true,
			slots: []AvailabilitySlot{
				{Date: "2025-03-10", Start: "07:00", End: "17:00", Status: SlotAvailable},
				{Date: "2025-03-11", Start: "07:00", End: "17:00", Status: SlotAvailable},
				{Date: "2025-03-11", Start: "12:00", End: "13:00", Status: SlotBooked},
			},
			wantPass:  false,
			wantScore: 0,
		},
		{
			name:       "booked slot after the shift does not block",
			timeWindow: dayShift,
			slots: []AvailabilitySlot{
				{Date: "2025-03-10", Start: "07:00", End: "17:00", Status: SlotAvailable},
				{Date: "2025-03-11", Start: "07:00", End: "17:00", Status: SlotAvailable},
				{Date: "2025-03-11", Start: "16:00", End: "19:00", Status: SlotBooked},
			},
			wantPass:  true,
			wantScore: 100,
		},
		{
			name: "unavailable day blocks a date-only request",
			slots: []AvailabilitySlot{
				{Date: "2025-03-10", Status: SlotAvailable},
				{Date: "2025-03-11", Start: "18:00", End: "19:00", Status: "Unavailable"},
			},
			wantPass:  false,
			wantScore: 0,
		},
		{
			name:       "one day covered earns partial credit",
			timeWindow: dayShift,
			partial:    true,
			slots:      []AvailabilitySlot{{Date: "2025-03-10", Start: "07:00", End: "17:00", Status: SlotAvailable}},
			wantPass:   true,
			wantScore:  NeutralScore,
		},
		{
			name:       "short slot earns partial credit",
			timeWindow: dayShift,
			partial:    true,
			slots:      []AvailabilitySlot{{Date: "2025-03-10", Start: "10:00", End: "12:00", Status: SlotAvailable}},
			wantPass:   true,
			wantScore:  NeutralScore,
		},
		{
			name:       "partial coverage excluded without partial credit",
			timeWindow: dayShift,
			permissive: true,
			slots:      []AvailabilitySlot{{Date: "2025-03-10", Start: "07:00", End: "17:00", Status: SlotAvailable}},
			wantPass:   false,
			wantScore:  0,
		},
		{
			name:       "available slots that miss the shift do not count",
			timeWindow: dayShift,
			permissive: true,
			partial:    true,
			slots:      []AvailabilitySlot{{Date: "2025-03-10", Start: "17:00", End: "20:00", Status: SlotAvailable}},
			wantPass:   false,
			wantScore:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := parseWindow(twoDays, tt.timeWindow)
			require.NoError(t, err)

			cfg := DefaultScoringConfig()
			cfg.PermissiveAvailabilityDefault = tt.permissive
			cfg.PartialAvailabilityCredit = tt.partial

			got := checkAvailability(tt.slots, w, cfg)
			assert.Equal(t, tt.wantPass, got.pass)
			assert.Equal(t, tt.wantScore, got.score)
		})
	}
}
