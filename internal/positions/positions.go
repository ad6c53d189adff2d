// Package positions classifies raw player position tags against the
// position tabs shown to coaches.
package positions

import "strings"

// Tab identifiers, in display order.
const (
	TabAll = "ALL"
	TabDef = "DEF"
	TabKD  = "KD"
	TabMid = "MID"
	TabRuc = "RUC"
	TabFwd = "FWD"
	TabKF  = "KF"
)

// Tabs lists the known position tabs in display order.
var Tabs = []string{TabAll, TabDef, TabKD, TabMid, TabRuc, TabFwd, TabKF}

// Split breaks a raw position string such as "MID/FWD" into upper-cased
// tags, dropping empties.
func Split(posRaw string) []string {
	parts := strings.Split(posRaw, "/")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// Matches reports whether a player with the raw position string posRaw
// belongs on the given tab.
//
// The general tabs deliberately exclude their key-position variants:
// the DEF tab hides key defenders (KD) and the FWD tab hides key
// forwards (KF), while the KD and KF tabs show only those. This is the
// league's rule, not an oversight.
func Matches(posRaw, tab string) bool {
	if tab == TabAll {
		return true
	}

	tags := Split(posRaw)

	switch tab {
	case TabDef:
		return contains(tags, TabDef) && !contains(tags, TabKD)
	case TabFwd:
		return contains(tags, TabFwd) && !contains(tags, TabKF)
	case TabKD:
		return contains(tags, TabKD)
	case TabKF:
		return contains(tags, TabKF)
	default:
		// Strict membership; handles dual positions like MID/FWD.
		return contains(tags, tab)
	}
}

func contains(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
