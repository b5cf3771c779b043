package ouro

// Set at link time with -ldflags "-X github.com/XFOSS/Oura-sub001/ouro.Version=...".
var (
	Version   = "0.1.0-dev"
	BuildDate = "unknown"
)
