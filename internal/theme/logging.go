package theme

import "agentui/internal/logger"

var log = logger.Named("theme")
