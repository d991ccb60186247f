package productive

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Envelope is the JSON:API response structure Productive returns for
// every endpoint: a primary data member (single resource or a list),
// sideloaded related resources under included, and pagination counters
// under meta.
type Envelope struct {
	Data     ResourceList `json:"data"`
	Included []Resource   `json:"included,omitempty"`
	Meta     *Meta        `json:"meta,omitempty"`
}

// Meta carries the pagination counters Productive includes on list
// responses.
type Meta struct {
	TotalCount  int `json:"total_count"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// Resource is a single JSON:API resource object.
type Resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    map[string]any          `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Relationship is a JSON:API relationship member. Data can be a single
// linkage object or an array of them; both are normalized into a slice.
type Relationship struct {
	Data linkageList `json:"data"`
}

// linkage identifies a related resource by type and id.
type linkage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// linkageList accepts either a single linkage object, an array, or null.
type linkageList []linkage

func (l *linkageList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var many []linkage
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*l = many
		return nil
	}
	var one linkage
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = linkageList{one}
	return nil
}

// ResourceList accepts the JSON:API data member in either of its two
// shapes (a single resource object or an array) and normalizes to a
// slice so callers don't branch on the wire shape.
type ResourceList []Resource

func (r *ResourceList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var many []Resource
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*r = many
		return nil
	}
	var one Resource
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*r = ResourceList{one}
	return nil
}

// First returns the primary resource of a single-resource response.
func (e *Envelope) First() (*Resource, bool) {
	if e == nil || len(e.Data) == 0 {
		return nil, false
	}
	return &e.Data[0], true
}

// FindIncluded looks up a sideloaded resource by type and id.
func (e *Envelope) FindIncluded(resType, id string) (*Resource, bool) {
	if e == nil {
		return nil, false
	}
	for i := range e.Included {
		if e.Included[i].Type == resType && e.Included[i].ID == id {
			return &e.Included[i], true
		}
	}
	return nil, false
}

// RelatedID returns the id of the first linkage under the named
// relationship, or "" when the relationship is absent or empty.
func (r *Resource) RelatedID(name string) string {
	rel, ok := r.Relationships[name]
	if !ok || len(rel.Data) == 0 {
		return ""
	}
	return rel.Data[0].ID
}

// String returns the named attribute as a string, or "" when absent or
// of another type.
func (r *Resource) String(name string) string {
	v, _ := r.Attributes[name].(string)
	return v
}

// Number returns the named attribute as a float64. JSON numbers decode
// to float64 under map[string]any.
func (r *Resource) Number(name string) (float64, bool) {
	v, ok := r.Attributes[name].(float64)
	return v, ok
}

// Bool returns the named attribute as a bool.
func (r *Resource) Bool(name string) bool {
	v, _ := r.Attributes[name].(bool)
	return v
}

// Query builds Productive list-endpoint query parameters: filters use
// the filter[x] convention, pagination uses page[number]/page[size],
// and include names related resources to sideload.
type Query struct {
	values url.Values
}

// NewQuery creates an empty query builder.
func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// Filter adds a filter[name]=value parameter. Empty values are skipped
// so callers can pass optional tool arguments straight through.
func (q *Query) Filter(name, value string) *Query {
	if value != "" {
		q.values.Set(fmt.Sprintf("filter[%s]", name), value)
	}
	return q
}

// Page sets page[number]; zero or negative means "let the API default".
func (q *Query) Page(n int) *Query {
	if n > 0 {
		q.values.Set("page[number]", strconv.Itoa(n))
	}
	return q
}

// PageSize sets page[size].
func (q *Query) PageSize(n int) *Query {
	if n > 0 {
		q.values.Set("page[size]", strconv.Itoa(n))
	}
	return q
}

// Include requests sideloaded related resources.
func (q *Query) Include(names ...string) *Query {
	if len(names) > 0 {
		q.values.Set("include", strings.Join(names, ","))
	}
	return q
}

// Sort sets the sort order, e.g. "-created_at".
func (q *Query) Sort(field string) *Query {
	if field != "" {
		q.values.Set("sort", field)
	}
	return q
}

// Values returns the accumulated url.Values, nil when empty.
func (q *Query) Values() url.Values {
	if q == nil || len(q.values) == 0 {
		return nil
	}
	return q.values
}
