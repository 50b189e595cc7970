package views

import (
	"regexp"
	"strings"
)

type GallerySection struct {
	Slug   string   `json:"slug"`
	Name   string   `json:"name"`
	Images []string `json:"images"`
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func section(name string, images ...string) GallerySection {
	return GallerySection{Slug: slugify(name), Name: name, Images: images}
}

var gallerySections = []GallerySection{
	section("Annual Tech Fest 2024",
		"https://images.unsplash.com/photo-1540575467063-178a50c2df87?w=800&q=80",
		"https://images.unsplash.com/photo-1475721027785-f74eccf877e2?w=800&q=80",
		"https://images.unsplash.com/photo-1523580494863-6f3031224c94?w=800&q=80",
	),
	section("Robotics Workshop Series",
		"https://images.unsplash.com/photo-1485827404703-89b55fcc595e?w=800&q=80",
		"https://images.unsplash.com/photo-1518770660439-4636190af475?w=800&q=80",
		"https://images.unsplash.com/photo-1581091226825-a6a2a5aee158?w=800&q=80",
	),
	section("Hackathon Champions 2024",
		"https://images.unsplash.com/photo-1504384308090-c894fdcc538d?w=800&q=80",
		"https://images.unsplash.com/photo-1522071820081-009f0129c71c?w=800&q=80",
		"/assets/images/gallery/hackathon3.jpg",
	),
}

// Gallery is the fixed list of event photo sections.
type Gallery struct {
	sections []GallerySection
}

func NewGallery() *Gallery {
	return &Gallery{sections: gallerySections}
}

// Sections returns every section in display order.
func (g *Gallery) Sections() []GallerySection {
	out := make([]GallerySection, len(g.sections))
	copy(out, g.sections)
	return out
}

// DownloadAll returns every image URL of a section, in order, for the client
// to open. Reachability is not checked.
func (g *Gallery) DownloadAll(slug string) ([]string, bool) {
	for _, s := range g.sections {
		if s.Slug == slug {
			urls := make([]string, len(s.Images))
			copy(urls, s.Images)
			return urls, true
		}
	}
	return nil, false
}
