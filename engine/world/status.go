package world

// Special status durations. Positive durations count down one per tick.
const (
	Expiring  = 0  // removed at the next tick
	Permanent = -1 // never expires
	Imbued    = -2 // held while the room imbues it
	Sticky    = -3 // removed explicitly
	Concealed = -4 // sticky variant used for hiding and containment
)

// Status is a named, time-bounded condition on a room, item or creature.
type Status struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

// Statuses is an ordered list of conditions with unique names.
type Statuses []Status

// Add applies a condition. Re-applying keeps the stronger duration: any
// special (negative) duration replaces a countdown, and between countdowns
// the longer one wins.
func (s *Statuses) Add(name string, duration int) {
	for i, st := range *s {
		if st.Name != name {
			continue
		}
		switch {
		case duration < 0:
			(*s)[i].Duration = duration
		case st.Duration < 0:
		case duration > st.Duration:
			(*s)[i].Duration = duration
		}
		return
	}
	*s = append(*s, Status{Name: name, Duration: duration})
}

// Has reports whether the named condition is held.
func (s Statuses) Has(name string) bool {
	_, ok := s.Duration(name)
	return ok
}

// HasAny reports whether any of the named conditions is held.
func (s Statuses) HasAny(names ...string) bool {
	for _, n := range names {
		if s.Has(n) {
			return true
		}
	}
	return false
}

// Duration returns the remaining duration of a condition.
func (s Statuses) Duration(name string) (int, bool) {
	for _, st := range s {
		if st.Name == name {
			return st.Duration, true
		}
	}
	return 0, false
}

// Remove drops a condition; it reports whether one was held.
func (s *Statuses) Remove(name string) bool {
	for i, st := range *s {
		if st.Name == name {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveImbued drops every room-imbued condition not listed in keep.
func (s *Statuses) RemoveImbued(keep Statuses) []string {
	var dropped []string
	out := (*s)[:0]
	for _, st := range *s {
		if st.Duration == Imbued && !keep.Has(st.Name) {
			dropped = append(dropped, st.Name)
			continue
		}
		out = append(out, st)
	}
	*s = out
	return dropped
}

// Tick counts every positive duration down by one and drops conditions
// that reach zero. It returns the names that expired.
func (s *Statuses) Tick() []string {
	var expired []string
	out := (*s)[:0]
	for _, st := range *s {
		if st.Duration > 0 {
			st.Duration--
			if st.Duration == 0 {
				expired = append(expired, st.Name)
				continue
			}
		} else if st.Duration == Expiring {
			expired = append(expired, st.Name)
			continue
		}
		out = append(out, st)
	}
	*s = out
	return expired
}

// Names returns the condition names in order.
func (s Statuses) Names() []string {
	out := make([]string, len(s))
	for i, st := range s {
		out[i] = st.Name
	}
	return out
}

// ValidDuration reports whether d is legal for a held condition after a tick.
func ValidDuration(d int) bool {
	return d > 0 || d == Permanent || d == Imbued || d == Sticky || d == Concealed
}
