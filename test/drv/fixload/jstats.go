package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"

	"fixcodec/pkg/msglog"
)

// PrintJournalStats reports the record count and on-disk size of the
// capture journal written during the run.
func PrintJournalStats(path string) {
	if path == "" {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		glog.Errorf("%s", err)
		return
	}

	n, err := msglog.Replay(path, func([]byte) error { return nil })
	if err != nil {
		glog.Errorf("journal replay: %s", err)
		return
	}

	fmt.Printf("\njournal %s: %d record(s), %d bytes\n\n", path, n, info.Size())
}
