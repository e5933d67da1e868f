package render

import "agentui/internal/logger"

var log = logger.Named("render")
