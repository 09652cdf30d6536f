// Package banners holds the in-memory promotional banner slots shown on the
// index, host and player screens. Updated at runtime through the admin API;
// contents do not survive a restart.
package banners

import "sync"

type Banner struct {
	ImageURL string `json:"imageUrl"`
	LinkURL  string `json:"linkUrl"`
}

type Set struct {
	Index  Banner `json:"index"`
	Host   Banner `json:"host"`
	Player Banner `json:"player"`
}

// BannerPatch updates only the fields that were present in the request.
type BannerPatch struct {
	ImageURL *string `json:"imageUrl"`
	LinkURL  *string `json:"linkUrl"`
}

type Patch struct {
	Index  *BannerPatch `json:"index"`
	Host   *BannerPatch `json:"host"`
	Player *BannerPatch `json:"player"`
}

type Store struct {
	mu  sync.RWMutex
	set Set
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Get() Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}

func (s *Store) Apply(p Patch) Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	applyPatch(&s.set.Index, p.Index)
	applyPatch(&s.set.Host, p.Host)
	applyPatch(&s.set.Player, p.Player)
	return s.set
}

func applyPatch(b *Banner, p *BannerPatch) {
	if p == nil {
		return
	}
	if p.ImageURL != nil {
		b.ImageURL = *p.ImageURL
	}
	if p.LinkURL != nil {
		b.LinkURL = *p.LinkURL
	}
}
