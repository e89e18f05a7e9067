package crawler

// StatusSink receives human-readable progress messages during a crawl: the
// URL about to be fetched, fetch failures, and a terminal summary. It is a
// soft dependency — a nil sink is valid and means no reporting.
type StatusSink interface {
	Report(msg string)
}

// StatusFunc adapts a plain function to the StatusSink interface.
type StatusFunc func(msg string)

func (f StatusFunc) Report(msg string) {
	f(msg)
}

type nopSink struct{}

func (nopSink) Report(string) {}
