package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Luismorlan/newsreader/push"
	"github.com/Luismorlan/newsreader/store"
	"github.com/Luismorlan/newsreader/utils/dotenv"
	. "github.com/Luismorlan/newsreader/utils/flag"
	. "github.com/Luismorlan/newsreader/utils/log"
)

var (
	title = flag.String("title", "", "notification title, server default when empty")
	body  = flag.String("body", "", "notification body, server default when empty")
	url   = flag.String("url", "", "url opened on click, server default when empty")
)

// This binary sends one notification to every stored subscription without
// going through the api server, for end to end testing of push delivery.
func main() {
	ParseFlags()
	if err := dotenv.LoadDotEnvs(); err != nil {
		Log.WithError(err).Fatal("fail to load env")
	}
	InitLogger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s, err := store.OpenFromEnv(ctx)
	if err != nil {
		Log.WithError(err).Fatal("fail to open store")
	}
	defer s.Close()

	vapid := push.VAPIDConfig{
		PublicKey:  os.Getenv("VAPID_PUBLIC"),
		PrivateKey: os.Getenv("VAPID_PRIVATE"),
		Subject:    os.Getenv("VAPID_SUBJECT"),
	}
	service := push.NewService(s, push.NewWebPushSender(vapid, &http.Client{Timeout: 10 * time.Second}), vapid)

	sent, err := service.Broadcast(ctx, push.Notification{Title: *title, Body: *body, URL: *url})
	if err != nil {
		Log.WithError(err).Fatal("broadcast failed")
	}
	fmt.Println("sent", sent)
}
