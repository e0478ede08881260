package ffdh

import "github.com/go-i2p/logger"

// log is the package logger. Output is controlled by the go-i2p logger
// environment (DEBUG_I2P, WARNFAIL_I2P). Secret values are never logged.
var log = logger.GetGoI2PLogger()
