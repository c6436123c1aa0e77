// Command zyncd is the desktop-side synchronization daemon: it listens
// for device-initiated connections and, on request, dials out to a
// waiting device, running one Session per connection.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/zyncd/zyncd/adapter"
	"github.com/zyncd/zyncd/config"
	"github.com/zyncd/zyncd/record"
	"github.com/zyncd/zyncd/schema"
	"github.com/zyncd/zyncd/session"
	"github.com/zyncd/zyncd/zyncerr"
)

var (
	listenFlag   = flag.BoolP("listen", "t", true, "Accept device-initiated connections.")
	dialFlag     = flag.StringP("dial", "a", "", "Dial this device `address` instead of listening.")
	confFlag     = flag.StringP("config", "c", "zyncd.conf", "Path to the configuration `file`.")
	dryRunFlag   = flag.BoolP("dry-run", "d", false, "Log a warning only; changes are still applied.")
	verboseFlag  = flag.CountP("verbose", "v", "Increase log verbosity; repeatable.")
	fullSyncFlag = flag.BoolP("full-resync", "r", false, "Force a full resync regardless of the device's log state.")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logrus.New()
	switch {
	case *verboseFlag >= 2:
		log.SetLevel(logrus.TraceLevel)
	case *verboseFlag == 1:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	entry := logrus.NewEntry(log)

	cfg, err := config.Load(*confFlag)
	if err != nil {
		entry.WithError(err).Fatal("loading configuration")
	}
	policy, err := cfg.ConflictWinner()
	if err != nil {
		entry.WithError(err).Fatal("parsing conflict_winner")
	}
	listenPort, err := cfg.ListenPort()
	if err != nil {
		entry.WithError(err).Fatal("parsing listen_port")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	schemaCache, err := schema.NewCache()
	if err != nil {
		entry.WithError(err).Fatal("building schema cache")
	}

	sessCfg := session.Config{
		Kinds:       defaultKinds(),
		Policy:      policy,
		FullSync:    *fullSyncFlag,
		Password:    passwordFromEnv,
		Log:         entry,
		RoundDelay:  30 * time.Second,
		SchemaCache: schemaCache,
	}
	if *dryRunFlag {
		entry.Warn("dry-run mode requested; adapters still apply writes in this reference build")
	}

	var wg sync.WaitGroup

	if *dialFlag != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runInitiator(ctx, entry, *dialFlag, sessCfg)
		}()
	}

	if *listenFlag {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runListener(ctx, entry, listenPort, sessCfg)
		}()
	}

	wg.Wait()
}

func defaultKinds() []session.KindConfig {
	return []session.KindConfig{
		{Kind: record.KindTodo, Adapter: adapter.NewMemory(record.KindTodo, "todo")},
		{Kind: record.KindCalendar, Adapter: adapter.NewMemory(record.KindCalendar, "calendar")},
		{Kind: record.KindAddress, Adapter: adapter.NewMemory(record.KindAddress, "address")},
	}
}

func passwordFromEnv(attempt int) (string, bool) {
	secret, ok := os.LookupEnv("ZYNCD_PASSWORD")
	if !ok {
		return "", false
	}
	return secret, true
}

func runListener(ctx context.Context, log *logrus.Entry, port int, cfg session.Config) {
	addr := net.JoinHostPort("", strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.WithError(err).Fatal("listen")
	}
	log.WithField("addr", addr).Info("listening for device connections")

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Warn("accept")
			continue
		}
		go serve(ctx, log, conn, cfg)
	}
}

func runInitiator(ctx context.Context, log *logrus.Entry, addr string, cfg session.Config) {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		log.WithError(err).Error("dial device")
		return
	}
	serve(ctx, log, conn, cfg)
}

func serve(ctx context.Context, log *logrus.Entry, conn net.Conn, cfg session.Config) {
	defer conn.Close()
	s := session.New(conn, cfg)
	if err := s.Run(ctx); err != nil {
		exitLog := log.WithError(err)
		switch {
		case errors.Is(err, zyncerr.ErrAuthFailed):
			exitLog.Warn("sync aborted: authentication failed")
		case errors.Is(err, zyncerr.ErrCancelled):
			exitLog.Info("sync cancelled")
		default:
			exitLog.Error("sync failed")
		}
		return
	}
	log.Info("sync completed")
}
