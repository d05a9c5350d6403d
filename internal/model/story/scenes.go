package story

import (
	"sort"
	"strconv"
	"strings"
)

// SceneKeys returns the scene keys of a story object in display order:
// keys with the "scene" prefix, sorted by their numeric suffix so that
// scene2 precedes scene10. Keys without a numeric suffix sort after the
// numbered ones, lexicographically.
func SceneKeys(storyObj map[string]string) []string {
	keys := make([]string, 0, len(storyObj))
	for key := range storyObj {
		if strings.HasPrefix(key, ScenePrefix) {
			keys = append(keys, key)
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		ni, iOK := sceneNumber(keys[i])
		nj, jOK := sceneNumber(keys[j])
		switch {
		case iOK && jOK:
			if ni != nj {
				return ni < nj
			}
			return keys[i] < keys[j]
		case iOK:
			return true
		case jOK:
			return false
		default:
			return keys[i] < keys[j]
		}
	})

	return keys
}

func sceneNumber(key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(key, ScenePrefix))
	if err != nil {
		return 0, false
	}
	return n, true
}
