package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/baetyl/baetyl-go/v2/log"

	"github.com/baclab/bacsync/bacip"
	"github.com/baclab/bacsync/bacsync"
	"github.com/baclab/bacsync/driver"
)

func main() {
	var path string
	flag.StringVar(&path, "c", "etc/bacsync.yml", "config file path")
	flag.Parse()

	l := log.L().With(log.Any("module", "main"))
	cfg, err := driver.LoadConfig(path)
	if err != nil {
		l.Error("failed to load config", log.Error(err))
		os.Exit(1)
	}
	engine, err := bacip.NewEngine(cfg.Engine.Address, cfg.Engine.Port)
	if err != nil {
		l.Error("failed to create engine", log.Error(err))
		os.Exit(1)
	}
	engine.Start()
	defer engine.Close()

	reader := bacsync.NewReader(engine)
	poller := driver.NewPoller(cfg, reader)
	go poller.Run()
	defer poller.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
