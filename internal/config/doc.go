// Package config provides configuration parsing for reactive projects.
//
// The configuration is stored in reactive.json (or reactive.yaml) at the
// project root. This package handles loading, saving, and validating
// configuration, and builds the process logger from it.
//
// # Configuration File Structure
//
//	{
//	  "name": "demo",
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "page": "index.html",
//	    "metricsPath": "/metrics"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "store": {
//	    "path": "reactive.db"
//	  },
//	  "export": {
//	    "format": "markdown",
//	    "dir": "dist",
//	    "s3": {"bucket": "snapshots", "region": "eu-west-1"}
//	  },
//	  "telemetry": {
//	    "namespace": "reactive",
//	    "tracing": true
//	  }
//	}
//
// The same keys are used in YAML.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Port:", cfg.Server.Port)
package config
