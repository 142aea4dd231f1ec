package domain

// Product is a catalog document owned by the remote document store. This
// service never mutates products; it only reads them, so the JSON field
// names mirror the store's documents exactly.
type Product struct {
	ID          string            `json:"id" validate:"required"`
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description"`
	Price       float64           `json:"price" validate:"gte=0"`
	Category    string            `json:"category"`
	Size        string            `json:"size,omitempty"`
	Color       string            `json:"color,omitempty"`
	Available   bool              `json:"available"`
	CoverImage  string            `json:"coverImage"`
	Images      []string          `json:"images,omitempty"`
	Variations  []string          `json:"variations,omitempty"`
	PackageInfo string            `json:"packageInfo,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}

// DefaultVariation returns the variation preselected for the product: the
// first declared variation, or empty when the product has none.
func (p *Product) DefaultVariation() string {
	if len(p.Variations) == 0 {
		return ""
	}
	return p.Variations[0]
}

// HasVariation reports whether v is one of the product's declared variations.
func (p *Product) HasVariation(v string) bool {
	for _, variation := range p.Variations {
		if variation == v {
			return true
		}
	}
	return false
}

// GalleryImages returns the image sequence shown by the gallery: the cover
// image followed by the additional images. The cover always comes first and
// is always present, even when the additional images are empty.
func (p *Product) GalleryImages() []string {
	gallery := make([]string, 0, len(p.Images)+1)
	gallery = append(gallery, p.CoverImage)
	gallery = append(gallery, p.Images...)
	return gallery
}
