package main

import (
	"os"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func defaultConfigPath() string {
	return env("REMIT_CONFIG", os.Getenv("HOME")+"/.remitd/config.toml")
}

func defaultKeyPath() string {
	return env("REMIT_PRIV_KEY", os.Getenv("HOME")+"/.remitd.priv.key")
}
