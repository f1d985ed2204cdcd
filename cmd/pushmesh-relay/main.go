package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.uber.org/zap"

	"github.com/pushmesh/pushmesh/config"
	"github.com/pushmesh/pushmesh/db"
	"github.com/pushmesh/pushmesh/metric"
	"github.com/pushmesh/pushmesh/queue"
	"github.com/pushmesh/pushmesh/redisprovider"
	"github.com/pushmesh/pushmesh/relay"
	"github.com/pushmesh/pushmesh/relay/provider/fcm"
	"github.com/pushmesh/pushmesh/repo/tokenrepo"
	"github.com/pushmesh/pushmesh/repo/topicrepo"
)

var log = logger.NewNamed("main")

var flagConfigFile = flag.String("c", "etc/config.yml", "path to config file")

func main() {
	flag.Parse()

	conf, err := config.NewFromFile(*flagConfigFile)
	if err != nil {
		log.Fatal("can't load config", zap.Error(err))
	}

	ctx := context.Background()
	a := new(app.App)
	a.Register(conf).
		Register(metric.New()).
		Register(redisprovider.New()).
		Register(db.New()).
		Register(tokenrepo.New()).
		Register(topicrepo.New()).
		Register(queue.New()).
		Register(relay.New()).
		Register(fcm.New())

	if err = a.Start(ctx); err != nil {
		log.Fatal("can't start app", zap.Error(err))
	}
	log.Info("app started")

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	<-exit

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err = a.Close(ctx); err != nil {
		log.Fatal("close error", zap.Error(err))
	}
	log.Info("app stopped")
}
