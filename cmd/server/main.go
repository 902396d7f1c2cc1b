// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/skovalyov/reelgraph/internal/database"
	"github.com/skovalyov/reelgraph/internal/feed"
	"github.com/skovalyov/reelgraph/internal/handlers"
	"github.com/skovalyov/reelgraph/internal/middleware"
	"github.com/skovalyov/reelgraph/internal/recommend"
	"github.com/skovalyov/reelgraph/internal/social"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	ctx := context.Background()

	pool, err := database.Connect(ctx)
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatalf("failed to migrate schema: %v", err)
	}

	// Feed is fire-and-forget: run without it if Redis is down.
	var sink feed.Sink
	if rdb, err := feed.ConnectRedis(); err != nil {
		logger.Warnf("feed sink disabled: %v", err)
	} else {
		sink = feed.NewRedisSink(rdb)
	}

	users := database.NewUserStore(pool)
	films := database.NewFilmStore(pool)
	likes := database.NewLikeStore(pool)
	friendships := database.NewFriendshipStore(pool)

	srv := &handlers.Server{
		Users:       users,
		Films:       films,
		Likes:       likes,
		Graph:       social.NewGraph(users, friendships),
		Recommender: recommend.New(users, likes),
		Feed:        sink,
		FeedHistory: database.NewFeedStore(pool),
		Log:         logger,
	}

	handler := middleware.LogMiddleware(logger)(srv.Routes())

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
