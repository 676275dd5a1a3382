package dsl

// deepCopy clones a structure made of map[string]interface{}, []interface{},
// and scalars, the shapes produced by decoding a YAML document. It is the Go
// stand-in for Python's copy.deepcopy in the source's snapshot/restore
// idempotence strategy (see dsl_service.py, dsl_test.py).
func deepCopy(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(vv))
		for k, val := range vv {
			out[k] = deepCopy(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(vv))
		for i, val := range vv {
			out[i] = deepCopy(val)
		}
		return out
	case []string:
		out := make([]string, len(vv))
		copy(out, vv)
		return out
	default:
		return v
	}
}

func deepCopyFields(fields map[string]interface{}) map[string]interface{} {
	copied := deepCopy(fields)
	m, _ := copied.(map[string]interface{})
	return m
}
