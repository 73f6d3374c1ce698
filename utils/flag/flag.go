/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
)

var (
	ServiceName   string
	AppConfigPath string
)

func init() {
	flag.StringVar(&ServiceName, "service", APIServer, "name reported in logs and traces")
	flag.StringVar(&AppConfigPath, "app_config", "", "path to the server yaml config, defaults are used when empty")
}

// ParseFlags must be called from main, tests rely on the defaults above.
func ParseFlags() {
	flag.Parse()
}
