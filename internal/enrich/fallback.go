package enrich

import (
	"fmt"
	"strings"
)

const unsplashPhoto = "https://images.unsplash.com/photo-%s?ixlib=rb-4.0.3&q=85&fm=jpg&crop=entropy&cs=srgb&w=1200"

// fallbackImages is checked in order; the first entry whose keyword appears
// in the query wins.
var fallbackImages = []struct {
	keywords []string
	photo    string
}{
	{[]string{"beach", "hawaii", "bali"}, "1507525428034-b723cf961d3e"},
	{[]string{"mountain", "alps", "hiking"}, "1464822759023-fed622ff2c3b"},
	{[]string{"city", "york", "tokyo"}, "1480714378408-67cf0d13bc1b"},
	{[]string{"paris", "france"}, "1502602898657-3e91760cbb34"},
	{[]string{"rome", "italy"}, "1515542622106-78bda8ba0e5b"},
	{[]string{"london", "england"}, "1513635269975-59663e0ac1ad"},
	{[]string{"japan", "kyoto"}, "1493976040374-85c8e12f0c0e"},
	{[]string{"australia", "sydney"}, "1506973035872-a4ec16b8e8d9"},
	{[]string{"canyon", "desert"}, "1527319154240-37e71a16b1c7"},
}

const defaultPhoto = "1500835556837-99ac94a94552"

func fallbackImage(query string) string {
	q := strings.ToLower(query)
	for _, entry := range fallbackImages {
		for _, kw := range entry.keywords {
			if strings.Contains(q, kw) {
				return photoURL(entry.photo)
			}
		}
	}
	return photoURL(defaultPhoto)
}

func photoURL(id string) string {
	return fmt.Sprintf(unsplashPhoto, id)
}
