// Package bootstrap provides initialization utilities for the VIS server
// binary:
//   - Logger setup with file rotation
//   - Redis connection management
//   - OpenTelemetry tracing initialization
//   - Kafka signal feed manager
//
// Example usage:
//
//	func main() {
//	    cfg := &config.Config{}
//	    if err := config.LoadConfig(cfg); err != nil {
//	        log.Fatal(err)
//	    }
//	    cfg.ApplyDefaults()
//
//	    if err := bootstrap.InitLoggerWithFile(cfg.Log, "vis-server"); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    redisClient, err := bootstrap.InitRedis(ctx, cfg.Redis)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    shutdown, err := bootstrap.InitTracing(ctx, cfg.Tracing)
//	    if err != nil {
//	        log.Warn(err)
//	    }
//	    defer shutdown(ctx)
//	}
package bootstrap
