package normalize

// Accessor looks up one candidate value in a response object
type Accessor struct {
	Name string
	Get  func(Object) (any, bool)
}

// Key returns an accessor for a top-level property
func Key(name string) Accessor {
	return Accessor{
		Name: name,
		Get: func(obj Object) (any, bool) {
			v, ok := obj[name]
			return v, ok && v != nil
		},
	}
}

// Keys returns accessors for each name, in order
func Keys(names ...string) []Accessor {
	out := make([]Accessor, len(names))
	for i, n := range names {
		out[i] = Key(n)
	}
	return out
}

// HighlightAccessors is the priority order for finding an experience record's bullets
var HighlightAccessors = Keys(
	"highlights", "achievements", "responsibilities", "tasks", "bullets", "details", "summary", "description",
)

// Field accessor lists for scalar record fields
var (
	companyAccessors     = Keys("company", "employer", "organization")
	roleAccessors        = Keys("role", "title", "position")
	startDateAccessors   = Keys("startDate", "start_date", "start")
	endDateAccessors     = Keys("endDate", "end_date", "end")
	locationAccessors    = Keys("location")
	descriptionAccessors = Keys("description", "summary")
	tagAccessors         = Keys("tags", "keywords")
	schoolAccessors      = Keys("school", "institution", "university")
	degreeAccessors      = Keys("degree", "major", "field")
	yearAccessors        = Keys("year", "graduationYear", "date")
)

// FirstList returns the first accessor result that coerces to a non-empty list
func FirstList(obj Object, accessors []Accessor) []string {
	for _, a := range accessors {
		v, ok := a.Get(obj)
		if !ok {
			continue
		}
		if list := StringList(v); len(list) > 0 {
			return list
		}
	}
	return []string{}
}

// FirstText returns the first accessor result that yields non-empty text
func FirstText(obj Object, accessors []Accessor) string {
	for _, a := range accessors {
		v, ok := a.Get(obj)
		if !ok {
			continue
		}
		if s := Text(v); s != "" {
			return s
		}
	}
	return ""
}

// PickHighlights returns the first non-empty bullet list among the alternate field names
func PickHighlights(obj Object) []string {
	return FirstList(obj, HighlightAccessors)
}
