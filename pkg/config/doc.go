// Package config loads plotkit settings from a TOML file and the
// environment.
//
// # File
//
// The default location follows the XDG base directory layout:
// $XDG_CONFIG_HOME/plotkit/config.toml, falling back to
// ~/.config/plotkit/config.toml. A missing file is not an error; [Default]
// values apply.
//
//	blueprints = ["~/field/catalog.toml"]
//
//	[store]
//	backend = "sqlite"           # memory | sqlite | mongo
//	path = "/data/plotkit.db"
//
//	[cache]
//	backend = "redis"            # none | file | redis
//	redis_addr = "localhost:6379"
//
//	[analysis]
//	iterations = 100
//	seed = 42
//
//	[server]
//	addr = ":8080"
//
// # Environment
//
// Environment variables override the file:
//
//	PLOTKIT_STORE        store backend
//	PLOTKIT_STORE_PATH   SQLite file
//	PLOTKIT_MONGO_URI    MongoDB connection string
//	PLOTKIT_CACHE        cache backend
//	PLOTKIT_REDIS_ADDR   Redis address
//	PLOTKIT_ADDR         API listen address
package config
