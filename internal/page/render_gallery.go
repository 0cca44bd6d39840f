package page

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/greenroots/greenroots-backend/internal/content"
)

const (
	galleryEmptyTitle = "No Images Uploaded"
	galleryEmptyText  = "The admin hasn't uploaded any gallery images yet. Check back soon for beautiful moments from our environmental conservation efforts!"
	galleryErrorText  = "Unable to load gallery images. Please try again later."
)

// RenderGallery replaces the gallery grid with one card per image.
func RenderGallery(b *Binding, images []content.Record) {
	if b.GalleryGrid == nil {
		return
	}
	items := make([]*html.Node, 0, len(images))
	for i, img := range images {
		items = append(items, galleryItem(i, img))
	}
	replaceChildren(b.GalleryGrid, items...)
}

func galleryItem(index int, img content.Record) *html.Node {
	url := img.String("url")
	alt := img.String("caption")
	if alt == "" {
		alt = "Gallery image"
	}
	heading := img.String("caption")
	if heading == "" {
		heading = "Gallery Image"
	}

	return el("div", attrs("class", "gallery-item", "data-aos", "fade-up", "data-aos-delay", strconv.Itoa(index*100)),
		el("img", attrs("src", url, "alt", alt, "data-lightbox-src", url, "data-lightbox-caption", alt)),
		el("div", attrs("class", "gallery-overlay"),
			el("div", attrs("class", "gallery-info"),
				el("h4", nil, text(heading)),
				el("p", nil, text("Environmental Conservation")),
			),
		),
	)
}

// RenderGalleryEmpty shows the placeholder for a gallery with no images.
func RenderGalleryEmpty(b *Binding) {
	replaceChildren(b.GalleryGrid,
		el("div", attrs("class", "no-images-message"),
			el("i", attrs("class", "fas fa-images")),
			el("h3", nil, text(galleryEmptyTitle)),
			el("p", nil, text(galleryEmptyText)),
		),
	)
}

// RenderGalleryError shows the load failure notice.
func RenderGalleryError(b *Binding) {
	replaceChildren(b.GalleryGrid,
		el("div", attrs("class", "error-message"),
			el("i", attrs("class", "fas fa-exclamation-triangle")),
			el("p", nil, text(galleryErrorText)),
		),
	)
}
