package media

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is an upload slot in the panel's forms.
type Kind string

const (
	KindProductImage      Kind = "product_image"
	KindSliderBackground  Kind = "slider_background"
	KindAnnouncementImage Kind = "announcement_image"
	KindLogo              Kind = "logo"
	KindFavicon           Kind = "favicon"
)

type mimeGroup string

const (
	mimeGroupImages   mimeGroup = "images"
	mimeGroupLogos    mimeGroup = "logos"
	mimeGroupFavicons mimeGroup = "favicons"
)

var mimeGroupNames = map[mimeGroup]string{
	mimeGroupImages:   "görsel (png, jpg, webp, gif)",
	mimeGroupLogos:    "jpg, jpeg, png, webp",
	mimeGroupFavicons: "ico, png, svg",
}

var mimeGroupTypes = map[mimeGroup][]string{
	mimeGroupImages:   {"image/png", "image/jpeg", "image/webp", "image/gif"},
	mimeGroupLogos:    {"image/jpeg", "image/png", "image/webp"},
	mimeGroupFavicons: {"image/x-icon", "image/vnd.microsoft.icon", "image/png", "image/svg+xml"},
}

var allowedMimeGroupsByKind = map[Kind][]mimeGroup{
	KindProductImage:      {mimeGroupImages},
	KindSliderBackground:  {mimeGroupImages},
	KindAnnouncementImage: {mimeGroupImages},
	KindLogo:              {mimeGroupLogos},
	KindFavicon:           {mimeGroupFavicons},
}

var (
	mimeTypesByKind        = buildMimeTypesByKind()
	mimeDescriptionsByKind = buildMimeDescriptions()
)

func buildMimeTypesByKind() map[Kind][]string {
	result := make(map[Kind][]string, len(allowedMimeGroupsByKind))
	for kind, groups := range allowedMimeGroupsByKind {
		set := make(map[string]struct{})
		for _, group := range groups {
			for _, value := range mimeGroupTypes[group] {
				set[value] = struct{}{}
			}
		}
		list := make([]string, 0, len(set))
		for value := range set {
			list = append(list, value)
		}
		sort.Strings(list)
		result[kind] = list
	}
	return result
}

func buildMimeDescriptions() map[Kind]string {
	result := make(map[Kind]string, len(allowedMimeGroupsByKind))
	for kind, groups := range allowedMimeGroupsByKind {
		var descriptions []string
		for _, group := range groups {
			if name, ok := mimeGroupNames[group]; ok {
				descriptions = append(descriptions, name)
			}
		}
		result[kind] = humanReadableList(descriptions)
	}
	return result
}

func humanReadableList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return fmt.Sprintf("%s veya %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
	}
}

// AllowedMimeTypes lists the content types accepted for kind.
func AllowedMimeTypes(kind Kind) []string {
	return append([]string(nil), mimeTypesByKind[kind]...)
}

func allowedMimeDescription(kind Kind) string {
	if msg, ok := mimeDescriptionsByKind[kind]; ok && msg != "" {
		return msg
	}
	return "onaylı dosya türleri"
}
