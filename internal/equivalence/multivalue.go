package equivalence

import "strings"

// splitValues accepts a list, or a single string separated by commas or
// semicolons.
func splitValues(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := stringify(item)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case string:
		return strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ';' || r == '\n'
		}), true
	}
	return nil, false
}

// normalizeSet maps values to their comparison keys, dropping blanks and
// collapsing duplicates.
func normalizeSet(values []string, mode CompareMode) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		key := NormalizeText(v)
		if key == "" {
			continue
		}
		if mode == CompareSymbolic {
			if canon, err := Canonicalize(v); err == nil {
				key = canon
			}
		}
		set[key] = true
	}
	return set
}

func checkMultiValue(spec Spec, raw any, opts Options) Result {
	values, ok := splitValues(raw)
	if !ok {
		return Result{}
	}
	want := normalizeSet(spec.Values, spec.Compare)
	got := normalizeSet(values, spec.Compare)
	if len(want) == 0 {
		return Result{}
	}

	hits, extra := 0, 0
	for v := range got {
		if want[v] {
			hits++
		} else {
			extra++
		}
	}

	r := Result{Extraneous: extra}
	switch {
	case opts.PartialCredit:
		r.Score = float64(hits) / float64(len(want))
	case hits == len(want) && extra == 0:
		r.Score = 1
	}
	return r
}
