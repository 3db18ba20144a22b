package tick

import "fmt"

// Clock lengths in ticks.
const (
	HourLength  = 25
	DayLength   = 24 * HourLength
	MonthLength = 14 * DayLength
)

// Hour is the hour of day, 0 to 23, at time t.
func Hour(t int) int { return (t / HourLength) % 24 }

// Day is the number of whole days elapsed at time t, counting from one.
func Day(t int) int { return t/DayLength + 1 }

// Dark reports whether hour falls between nightfall and sunrise.
func Dark(hour int) bool { return hour < 6 || hour >= 21 }

// Clockface renders t as "day N, HH:00".
func Clockface(t int) string {
	return fmt.Sprintf("day %d, %02d:00", Day(t), Hour(t))
}

// Astro is the state of the heavens at one moment.
type Astro struct {
	Aurora  bool
	Meteors bool
	Eclipse bool
	Moon    int // 0 is new, 7 is full
}

// Sky computes the astronomy at time t.
func Sky(t int) Astro {
	dark := Dark(Hour(t))
	return Astro{
		Aurora:  dark && t%2000 < 100,
		Meteors: dark && t%3500 < 300,
		Eclipse: !dark && t%(MonthLength*3+100) < 30,
		Moon:    (t % MonthLength) / DayLength,
	}
}

var moonNames = []string{
	"new", "waxing crescent", "waxing crescent", "first quarter", "first quarter",
	"waxing gibbous", "waxing gibbous", "full", "waning gibbous", "waning gibbous",
	"last quarter", "last quarter", "waning crescent", "waning crescent",
}

// MoonName describes a moon phase.
func MoonName(phase int) string {
	if phase < 0 || phase >= len(moonNames) {
		return "hidden"
	}
	return moonNames[phase]
}

// omens narrates the astronomical events that begin between prev and next.
func omens(prev, next Astro) []string {
	var out []string
	if next.Aurora && !prev.Aurora {
		out = append(out, "Ribbons of green light ripple across the night sky.")
	}
	if next.Meteors && !prev.Meteors {
		out = append(out, "Shooting stars streak overhead. A meteor shower has begun.")
	}
	if next.Eclipse && !prev.Eclipse {
		out = append(out, "The moon slides across the sun. The day goes dim.")
	}
	if next.Moon == 7 && prev.Moon != 7 {
		out = append(out, "The full moon rises.")
	}
	return out
}
