package ai

// ImageFormats defines the image formats accepted by image describers.
// Formats are the subtype of the data URI media type, e.g. "png" for
// "data:image/png".
var ImageFormats = []string{
	"gif",
	"jpeg",
	"jpg",
	"png",
	"webp",
}

// SupportedImageFormat reports whether the given format is accepted.
func SupportedImageFormat(format string) bool {
	for _, f := range ImageFormats {
		if f == format {
			return true
		}
	}
	return false
}
