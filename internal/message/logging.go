package message

import "agentui/internal/logger"

var log = logger.Named("message")
