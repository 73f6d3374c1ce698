package main

import (
	"context"
	"net/http"
	"os"

	"github.com/Luismorlan/newsreader/app_config"
	"github.com/Luismorlan/newsreader/auth"
	"github.com/Luismorlan/newsreader/newsapi"
	"github.com/Luismorlan/newsreader/preference"
	"github.com/Luismorlan/newsreader/push"
	"github.com/Luismorlan/newsreader/recommender"
	"github.com/Luismorlan/newsreader/server"
	"github.com/Luismorlan/newsreader/server/middlewares"
	"github.com/Luismorlan/newsreader/store"
	"github.com/Luismorlan/newsreader/tracker"
	. "github.com/Luismorlan/newsreader/utils"
	"github.com/Luismorlan/newsreader/utils/dotenv"
	. "github.com/Luismorlan/newsreader/utils/flag"
	. "github.com/Luismorlan/newsreader/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

const (
	defaultPort      = "5000"
	defaultJWTSecret = "change_this_secret"
)

func getEnvOrDefault(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func cleanup() {
	CloseProfiler()
	CloseTracer()
	Log.Info("api server shutdown")
}

func main() {
	ParseFlags()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger()

	StartTracer()
	StartProfiler()
	defer cleanup()

	ctx := context.Background()

	config, err := app_config.ParseServerAppConfig(AppConfigPath)
	if err != nil {
		Log.WithError(err).Fatal("fail to load app config")
	}

	s, err := store.OpenFromEnv(ctx)
	if err != nil {
		Log.WithError(err).Fatal("fail to open store")
	}
	defer s.Close()

	var redisClient *redis.Client
	if IsRedisConfigured() {
		redisClient, err = GetRedisClient(ctx)
		if err != nil {
			Log.WithError(err).Fatal("fail to connect to redis")
		}
		defer redisClient.Close()
	}

	news := newsapi.NewClient(os.Getenv("NEWSAPI_BASE_URL"), os.Getenv("NEWSAPI_KEY"), config.HTTPTimeout())
	if !news.Configured() {
		Log.Warn("NEWSAPI_KEY not set, news routes will fail")
	}
	if redisClient != nil && config.UpstreamCacheTTL() > 0 {
		news.Cache = newsapi.NewRedisCache(redisClient)
		news.CacheTTL = config.UpstreamCacheTTL()
	}

	vapid := push.VAPIDConfig{
		PublicKey:  os.Getenv("VAPID_PUBLIC"),
		PrivateKey: os.Getenv("VAPID_PRIVATE"),
		Subject:    getEnvOrDefault("VAPID_SUBJECT", push.DefaultSubject),
		TTLSeconds: config.PUSH_TTL_SECOND,
	}
	if vapid.PublicKey == "" || vapid.PrivateKey == "" {
		Log.Warn("VAPID keys not set, push notifications disabled")
	}
	sender := push.NewWebPushSender(vapid, &http.Client{Timeout: config.HTTPTimeout()})

	limitStore, err := middlewares.NewRateLimitStore(redisClient)
	if err != nil {
		Log.WithError(err).Fatal("fail to create rate limit store")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		Log.Warn("JWT_SECRET not set, using the insecure default")
		jwtSecret = defaultJWTSecret
	}

	srv := &server.Server{
		Store:         s,
		Auth:          auth.NewService(s, jwtSecret, config.TokenTTL()),
		Tracker:       tracker.NewTracker(s),
		Preferences:   preference.NewService(s),
		Recommender:   recommender.NewEngine(s, news),
		News:          news,
		Push:          push.NewService(s, sender, vapid),
		AuthRateLimit: middlewares.RateLimit(limitStore, config.RATE_LIMIT_PER_MINUTE),
		StaticDir:     os.Getenv("STATIC_DIR"),
		Middlewares:   []gin.HandlerFunc{gintrace.Middleware(ServiceName)},
	}

	port := getEnvOrDefault("PORT", defaultPort)
	Log.WithField("port", port).Info("api server starts up")
	if err := srv.Router().Run(":" + port); err != nil {
		Log.WithError(err).Fatal("api server stopped")
	}
}
