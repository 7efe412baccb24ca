package matching

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerDay = 24 * 60

	// MaxWindowDays bounds the requested date window.
	MaxWindowDays = 366
)

// window is a validated request window: the requested days plus the daily
// time range in minutes since midnight. Untimed windows span the whole day.
type window struct {
	days       map[string]struct{}
	start, end int
	timed      bool
}

func parseWindow(dw DateWindow, tw *TimeWindow) (window, error) {
	if dw.Start == "" || dw.End == "" {
		return window{}, fmt.Errorf("date window start and end are required")
	}
	start, err := time.Parse(DateLayout, dw.Start)
	if err != nil {
		return window{}, fmt.Errorf("malformed date window start %q", dw.Start)
	}
	end, err := time.Parse(DateLayout, dw.End)
	if err != nil {
		return window{}, fmt.Errorf("malformed date window end %q", dw.End)
	}
	if end.Before(start) {
		return window{}, fmt.Errorf("date window end %s is before start %s", dw.End, dw.Start)
	}
	if n := int(end.Sub(start).Hours()/24) + 1; n > MaxWindowDays {
		return window{}, fmt.Errorf("date window spans %d days, limit is %d", n, MaxWindowDays)
	}

	w := window{days: map[string]struct{}{}, start: 0, end: minutesPerDay}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		w.days[d.Format(DateLayout)] = struct{}{}
	}

	if tw != nil {
		s, ok1 := parseClock(tw.Start)
		e, ok2 := parseClock(tw.End)
		if !ok1 || !ok2 {
			return window{}, fmt.Errorf("malformed time window %q-%q", tw.Start, tw.End)
		}
		if e <= s {
			return window{}, fmt.Errorf("time window end %s must be after start %s", tw.End, tw.Start)
		}
		w.start, w.end, w.timed = s, e, true
	}
	return w, nil
}

// parseClock parses HH:MM or HH:MM:SS into minutes since midnight. Seconds
// are validated and then dropped. 24:00 is accepted as end of day.
func parseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}
	hh, mm := parts[0], parts[1]
	if len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || h < 0 {
		return 0, false
	}
	sec := 0
	if len(parts) == 3 {
		if len(parts[2]) != 2 {
			return 0, false
		}
		sec, err = strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, false
		}
	}
	if h > 24 || (h == 24 && (m != 0 || sec != 0)) {
		return 0, false
	}
	return h*60 + m, true
}

// slotRange resolves a slot's daily range; an empty start and end cover the
// whole day.
func slotRange(s AvailabilitySlot) (int, int, bool) {
	if s.Start == "" && s.End == "" {
		return 0, minutesPerDay, true
	}
	start, ok1 := parseClock(s.Start)
	end, ok2 := parseClock(s.End)
	if !ok1 || !ok2 || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

type availabilityResult struct {
	pass  bool
	score int
}

// checkAvailability applies the availability policy to one candidate.
func checkAvailability(slots []AvailabilitySlot, w window, cfg ScoringConfig) availabilityResult {
	covered := make(map[string]bool, len(w.days))
	hasData, partial := false, false

	for _, slot := range slots {
		if _, ok := w.days[slot.Date]; !ok {
			continue
		}
		start, end, ok := slotRange(slot)

		switch SlotStatus(strings.ToLower(strings.TrimSpace(string(slot.Status)))) {
		case SlotUnavailable, SlotBooked:
			// A blocking slot whose times cannot be read blocks the whole day.
			if !ok {
				start, end = 0, minutesPerDay
			}
			if overlaps(start, end, w.start, w.end) {
				return availabilityResult{pass: false, score: 0}
			}
			hasData = true
		case SlotAvailable:
			if !ok {
				continue
			}
			hasData = true
			if !w.timed || (start <= w.start && end >= w.end) {
				covered[slot.Date] = true
			} else if overlaps(start, end, w.start, w.end) {
				partial = true
			}
		}
	}

	if !hasData {
		if cfg.PermissiveAvailabilityDefault {
			return availabilityResult{pass: true, score: NeutralScore}
		}
		return availabilityResult{pass: false, score: 0}
	}

	if len(covered) == len(w.days) {
		return availabilityResult{pass: true, score: 100}
	}
	if (partial || len(covered) > 0) && cfg.PartialAvailabilityCredit {
		return availabilityResult{pass: true, score: NeutralScore}
	}
	return availabilityResult{pass: false, score: 0}
}
