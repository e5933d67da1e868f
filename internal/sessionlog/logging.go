package sessionlog

import "agentui/internal/logger"

var log = logger.Named("sessionlog")
