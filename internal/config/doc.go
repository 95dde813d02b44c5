// Package config provides configuration parsing for signalgraph tooling.
//
// The configuration is stored in signalgraph.json (or a YAML file with a
// .yaml/.yml extension). Every field is optional; missing fields keep their
// defaults.
//
// # Configuration File Structure
//
//	{
//	  "graph": {
//	    "maxDepth": 1000
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "signalgraph"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "signalgraph"
//	  },
//	  "inspector": {
//	    "host": "localhost",
//	    "port": 7070,
//	    "eventBuffer": 256
//	  },
//	  "serve": {
//	    "tickInterval": "1s"
//	  }
//	}
package config
