package measurefilter

import "net/url"

// Criteria holds the display and query options of a measure filter. It is
// shaped like a query string: scalar options carry one value, "cols" an
// ordered list.
type Criteria map[string][]string

// CriteriaFromQuery copies the query values of a request into criteria.
func CriteriaFromQuery(q url.Values) Criteria {
	c := make(Criteria, len(q))
	for k, v := range q {
		c[k] = append([]string(nil), v...)
	}
	return c
}

// Has reports whether key is present, even with an empty value.
func (c Criteria) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Get returns the first value of key, or "".
func (c Criteria) Get(key string) string {
	if v := c[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// List returns all values of key in order.
func (c Criteria) List(key string) []string {
	return c[key]
}

// Set replaces the values of key.
func (c Criteria) Set(key string, values ...string) {
	c[key] = values
}

// SetDefault sets key only when it is absent. It reports whether it did.
func (c Criteria) SetDefault(key string, values ...string) bool {
	if c.Has(key) {
		return false
	}
	c[key] = append([]string(nil), values...)
	return true
}

// Clone returns a deep copy.
func (c Criteria) Clone() Criteria {
	return CriteriaFromQuery(url.Values(c))
}

// Select returns the entries of the given keys that are present.
func (c Criteria) Select(keys ...string) url.Values {
	out := url.Values{}
	for _, k := range keys {
		if v, ok := c[k]; ok {
			out[k] = append([]string(nil), v...)
		}
	}
	return out
}
