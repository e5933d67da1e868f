package replay

import "agentui/internal/logger"

var log = logger.Named("replay")
