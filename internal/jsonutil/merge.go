package jsonutil

// MergeDeep merges patch into base.
//
// Arrays are atomic: an array base is replaced only by an array patch.
// Scalars, null and absent bases are replaced by any defined patch. Objects
// merge key by key; a non-object patch leaves an object base unchanged.
// Neither input is modified.
func MergeDeep(base, patch Value) Value {
	switch base.kind {
	case Array:
		if patch.kind == Array {
			return patch
		}

		return base
	case Object:
		out := base.Members()
		if patch.kind != Object {
			return ObjectOf(out)
		}

		for k, p := range patch.obj {
			merged := MergeDeep(base.obj[k], p)
			if merged.IsUndefined() {
				continue
			}

			out[k] = merged
		}

		return ObjectOf(out)
	default:
		if patch.kind == Undefined {
			return base
		}

		return patch
	}
}
