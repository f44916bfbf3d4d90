package megalodon

import (
	"net/url"
	"strconv"
)

// Page holds the cursor parameters shared by timeline and notification listings.
type Page struct {
	Limit   int
	MaxID   string
	SinceID string
	MinID   string
}

func (p Page) Values() url.Values {
	v := url.Values{}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.MaxID != "" {
		v.Set("max_id", p.MaxID)
	}
	if p.SinceID != "" {
		v.Set("since_id", p.SinceID)
	}
	if p.MinID != "" {
		v.Set("min_id", p.MinID)
	}
	return v
}
