package profiler

// TotalName is the public name of the implicit timer wrapping each call into a unit of work.
const TotalName = "total"

// Marker identifies a timer. The implicit total timer is a distinct tag, so a user
// timer named "total" never collides with it.
type Marker struct {
	name  string
	total bool
}

// TotalMarker is the reserved marker started and ended around every iteration.
var TotalMarker = Marker{total: true}

// UserMarker returns the marker for a caller-started timer.
func UserMarker(name string) Marker { return Marker{name: name} }

// IsTotal reports whether m is the reserved total marker.
func (m Marker) IsTotal() bool { return m.total }

// Name returns the display name of the marker.
func (m Marker) Name() string {
	if m.total {
		return TotalName
	}
	return m.name
}

func (m Marker) String() string { return m.Name() }
