// Command sbitx9pd serves the sbitx transceiver's state as a 9P2000
// file tree. It wires together the static file table, the in-memory
// demo radio host, the event engine, and the server loop: pick a bind
// address, listen on port 564, log, and serve forever.
package main

import (
	"flag"
	"log"
	"os"

	"sbitx9p/internal/filetable"
	"sbitx9p/internal/netutil"
	"sbitx9p/internal/nine"
	"sbitx9p/internal/radio"
	"sbitx9p/internal/wire"
)

func main() {
	var (
		addr    = flag.String("a", "", "bind address (default: first non-loopback IPv4 interface)")
		verbose = flag.Bool("v", false, "log every 9P message received and sent")
		owner   = flag.String("u", currentUser(), "process owner name reported as uid/gid/muid")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "sbitx9p: ", log.LstdFlags)

	table := filetable.NewSbitxTable()
	host := radio.NewMemHost(*owner)

	srv := nine.NewServer(table, host, logger)
	host.OnChange(srv.Events.NotifyFieldChanged)
	if *verbose {
		srv.Trace = func(dir byte, remote string, m wire.Msg) {
			logger.Printf("%c %s %#v", dir, remote, m)
		}
	}

	l, full, err := netutil.Listen(*addr)
	if err != nil {
		logger.Fatalf("listen: %v", err)
	}
	logger.Printf("serving 9P2000 on %s", full)

	if err := srv.Serve(l); err != nil {
		logger.Fatalf("serve: %v", err)
	}
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "sbitx"
}
