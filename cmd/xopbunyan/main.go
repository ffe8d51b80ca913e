// Command xopbunyan writes demonstration Bunyan output and checks
// Bunyan lines produced elsewhere.
//
//	xopbunyan demo --workers 4 --events 10 --span-ids
//	xopbunyan demo --otel | xopbunyan check
//
// Every formatter setting can also come from a config file (--config)
// or from XOPBUNYAN_ environment variables, for example
// XOPBUNYAN_MESSAGE_STYLE=bracketed.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
