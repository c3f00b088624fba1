package transport

import "github.com/fastygo/degreeprogram/domain"

// DegreeProgramRequest is the body of the draft and publish endpoints. It
// carries the complete field set; omitted fields are stored empty.
type DegreeProgramRequest = domain.DegreeProgramData

// SharedLinkRequest replaces one shared organizational link.
type SharedLinkRequest struct {
	Name     domain.BilingualString `json:"name"`
	LinkText domain.BilingualString `json:"link_text"`
	LinkURL  domain.BilingualString `json:"link_url"`
}

func (r SharedLinkRequest) Link() domain.BilingualLink {
	return domain.NewBilingualLink("", r.Name, r.LinkText, r.LinkURL)
}

// CacheWarmRequest limits a warm-up to the given programs. An empty list warms everything.
type CacheWarmRequest struct {
	IDs []int `json:"ids"`
}
