package types

// Version is set at build time via -ldflags "-X github.com/m-mizutani/newsdesk/pkg/domain/types.Version=x.y.z".
var Version = "dev"
