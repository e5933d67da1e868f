package format

import "agentui/internal/logger"

var log = logger.Named("format")
