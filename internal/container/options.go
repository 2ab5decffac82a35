package container

// Options holds the CLI-configurable settings for the service binaries.
type Options struct {
	Port        int    `default:"8888"           help:"Port to listen on"                                          short:"p"`
	BaseURL     string `default:""               help:"Public base URL for short links (defaults to localhost)"`
	PostgresURL string `default:""               help:"Postgres connection string; empty uses the in-memory store"`
	RedisAddr   string `default:"localhost:6379" help:"Redis server address"                                       short:"r"`
	CacheTTL    int    `default:"600"            help:"Slug cache TTL in seconds (0 disables the Redis cache)"`
	LogFormat   string `default:"console"        help:"Log format: console or json"`
}
