package srafetch

// Assemble turns one page into filtered experiment records. Every uid on
// the page must carry both embedded fragments; the normalized run
// collection is attached under a `runs` key as a list, a single run
// becomes a one-element list. Records whose Instrument mapping lacks the
// key ILLUMINA are silently dropped.
func Assemble(page Page) ([]Value, error) {
	var records []Value
	for _, uid := range page.UIDs {
		doc, err := page.Doc(uid)
		if err != nil {
			return nil, err
		}
		if doc.Expxml == "" {
			return nil, errorf(KindMissingField, "uid %s carries no expxml", uid)
		}
		if doc.Runs == "" {
			return nil, errorf(KindMissingField, "uid %s carries no runs", uid)
		}
		record, err := Normalize(WrapFragment(doc.Expxml))
		if err != nil {
			return nil, err
		}
		// text-only or blank fragments normalize to a scalar, which
		// cannot carry the expected nested fields
		if record.Kind != MappingKind {
			return nil, errorf(KindMissingField, "uid %s expxml is not a mapping", uid)
		}
		runs, err := Normalize(WrapFragment(doc.Runs))
		if err != nil {
			return nil, err
		}
		collection, ok := runs.Get("Run")
		if !ok {
			return nil, errorf(KindMissingField, "uid %s run list carries no Run", uid)
		}
		record.Set("runs", asList(collection))

		instrument, ok := record.Get("Instrument")
		if !ok || !instrument.Has("ILLUMINA") {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// asList keeps lists as they are and wraps anything else.
func asList(v Value) Value {
	if v.Kind == ListKind {
		return v
	}
	return NewList([]Value{v})
}
