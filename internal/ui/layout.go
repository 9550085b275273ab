package ui

import "time"

// LayoutCompactWidth is the terminal width below which the header drops
// secondary fields and the search view stacks its panes.
const LayoutCompactWidth = 100

// chromeLines is the number of rows taken by header, command bar and notice.
const chromeLines = 3

// DefaultUIInterval is how often the header re-reads API health.
const DefaultUIInterval = time.Second

// contentSize returns the area available below the chrome.
func (m Model) contentSize() (width, height int) {
	return max(m.width, 20), max(m.height-chromeLines, 5)
}
