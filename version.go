package ussd

// Version is the engine release, overridable at build time with
// -ldflags "-X github.com/jawabu/ussd.Version=...".
var Version = "0.3.0"
