package filterbar

import "dfilter/query"

// ChangedMsg is sent after every edit, carrying a fresh analysis of the text.
type ChangedMsg struct {
	Text     string
	Analysis query.Analysis
}

// CommitMsg is sent when Enter commits a valid filter.
type CommitMsg struct {
	Text string
}

// RecentMsg replaces the remembered filters offered on an empty bar.
type RecentMsg struct {
	Entries []string
}

// SizeMsg tells the bar its width.
type SizeMsg struct {
	Width int
}
