package dashboard

import "time"

type day struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) day {
	y, m, d := t.In(loc).Date()
	return day{y, m, d}
}

func (d day) prev() day {
	y, m, dd := time.Date(d.year, d.month, d.day-1, 12, 0, 0, 0, time.UTC).Date()
	return day{y, m, dd}
}

func (d day) after(o day) bool {
	if d.year != o.year {
		return d.year > o.year
	}
	if d.month != o.month {
		return d.month > o.month
	}
	return d.day > o.day
}

// streakCounter counts consecutive study days ending today, or yesterday when
// nothing was studied yet today. Timestamps must be fed newest first.
type streakCounter struct {
	loc   *time.Location
	today day
	last  day
	count int
}

func newStreakCounter(now time.Time, loc *time.Location) *streakCounter {
	return &streakCounter{loc: loc, today: dayOf(now, loc)}
}

// observe reports whether older timestamps can still extend the streak.
func (s *streakCounter) observe(t time.Time) bool {
	d := dayOf(t, s.loc)
	if d.after(s.today) {
		return true
	}

	if s.count == 0 {
		if d != s.today && d != s.today.prev() {
			return false
		}
		s.count, s.last = 1, d
		return true
	}

	switch d {
	case s.last:
		return true
	case s.last.prev():
		s.count++
		s.last = d
		return true
	default:
		return false
	}
}

// streakOf returns the streak for timestamps sorted newest first.
func streakOf(timestamps []time.Time, now time.Time, loc *time.Location) int {
	counter := newStreakCounter(now, loc)
	for _, t := range timestamps {
		if !counter.observe(t) {
			break
		}
	}
	return counter.count
}
