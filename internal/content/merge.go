package content

// Merge overlays fetched on top of defaults one level deep. Keys present in
// fetched win, including blank values; nested values are replaced, never
// merged. Neither input is modified.
func Merge(defaults, fetched Record) Record {
	out := make(Record, len(defaults)+len(fetched))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range fetched {
		out[k] = v
	}
	return out
}

// Resolve applies the default fallback rule for a section snapshot: an
// existing object is merged over the defaults, anything else yields the
// defaults verbatim.
func Resolve(s Section, snap Snapshot) Record {
	if !snap.Exists() {
		return Defaults(s)
	}
	return Merge(Defaults(s), snap.Record())
}
