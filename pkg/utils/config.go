package utils

import "os"

type ServerConfig struct {
	HTTPAddr   string // gin listener
	EventsAddr string // TCP event feed
	OutputDir  string // export destination
}

func LoadServerConfig() ServerConfig {
	cfg := ServerConfig{
		HTTPAddr:   ":8080",
		EventsAddr: ":7070",
		OutputDir:  "output",
	}
	if v := os.Getenv("QNOTEHUB_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("QNOTEHUB_EVENTS_ADDR"); v != "" {
		cfg.EventsAddr = v
	}
	if v := os.Getenv("QNOTEHUB_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	return cfg
}
