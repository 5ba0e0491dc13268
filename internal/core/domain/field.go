package domain

// Field is one supplied value of a partial update, keyed by its API name
// (e.g. "firstName"). Order of a []Field is significant: it fixes the
// placeholder numbering of the generated SET clause.
type Field struct {
	Name  string
	Value any
}

func appendIfSet[T any](fields []Field, name string, v *T) []Field {
	if v == nil {
		return fields
	}
	return append(fields, Field{Name: name, Value: *v})
}
