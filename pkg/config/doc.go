// Package config provides the configuration types and loading utilities for
// the VIS server.
//
// Usage:
//
//	import "github.com/Goden-Gun/vis-server/pkg/config"
//
//	cfg := &config.Config{}
//	if err := config.LoadConfig(cfg); err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyDefaults()
package config
