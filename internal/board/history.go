package board

import "net/url"

// History is the navigation surface the filter state projects into. It is a
// one-way projection target plus a one-time hydration source read at
// construction, never a live bidirectional binding.
type History interface {
	Query() url.Values
	SetQuery(url.Values)
}

// MemoryHistory holds the canonical view query string in process memory.
type MemoryHistory struct {
	values url.Values
}

// NewMemoryHistory parses rawQuery ("search=…&filter=…&page=…") as the
// starting location. A malformed query hydrates as empty.
func NewMemoryHistory(rawQuery string) *MemoryHistory {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		values = url.Values{}
	}
	return &MemoryHistory{values: values}
}

func (h *MemoryHistory) Query() url.Values {
	out := url.Values{}
	for k, vs := range h.values {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func (h *MemoryHistory) SetQuery(values url.Values) {
	h.values = values
}

// RawQuery returns the canonical encoding of the current location.
func (h *MemoryHistory) RawQuery() string {
	return h.values.Encode()
}
