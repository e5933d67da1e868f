package config

import "agentui/internal/logger"

var log = logger.Named("config")
