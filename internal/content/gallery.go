package content

// PartitionGallery splits items into featured and other cases, preserving
// order. Every item lands in exactly one of the two slices.
func PartitionGallery(items []GalleryItem) (featured, other []GalleryItem) {
	for _, it := range items {
		if it.Featured {
			featured = append(featured, it)
		} else {
			other = append(other, it)
		}
	}
	return featured, other
}

// FeaturedOptions returns the options flagged as featured, or all options
// when none are.
func FeaturedOptions(options []Option) []Option {
	var out []Option
	for _, o := range options {
		if o.Featured {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return options
	}
	return out
}
