package main

import "agentui/internal/logger"

var log = logger.Named("cli")
