// Package watcher re-runs work whenever an input file changes.
//
// The Watcher subscribes to the file's parent directory with fsnotify so that
// editors which save by writing a temporary file and renaming it over the
// original are still noticed. Events for other files in the directory are
// ignored. Bursts of events are debounced into a single callback.
//
// Example usage:
//
//	w, err := watcher.New("baskets.csv", 500*time.Millisecond, func() {
//		mineAndPrint()
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
package watcher
