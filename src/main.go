package main

import (
	"context"
	"log"
	"net/http"

	"savr-server/src/api"
	"savr-server/src/auth"
	"savr-server/src/budget"
	"savr-server/src/config"
	"savr-server/src/db"
	sqldb "savr-server/src/db/sql"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Connect to database
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}

	db.InitCache()

	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("token codec setup failed: %v", err)
	}

	// Redis shares the logout blacklist across instances; without it the
	// blacklist is process-local.
	var revocations auth.RevocationStore
	if cfg.RedisURL != "" {
		store, err := auth.NewRedisRevocationStore(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer store.Close()
		revocations = store
	} else {
		log.Println("REDIS_URL not set, using in-process revocation store")
		revocations = auth.NewMemoryRevocationStore()
	}

	engine := budget.NewEngine(sqldb.NewBudgetStore(pool))

	// Router
	router := api.NewRouter(pool, codec, revocations, engine)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
