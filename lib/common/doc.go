// Package common provides the ambient pieces shared by the dPrefs library and
// its command line tool.
//
// Key Components:
//
//   - Logger: Custom logging implementation that plugs into Dragonboat's
//     logger registry (github.com/lni/dragonboat/v4/logger). Every package
//     obtains its logger with logger.GetLogger("<name>"); InitLoggers installs
//     the "LEVEL | name | message" format and sets the level.
//
//   - Config: Settings used by the CLI to open a suite (engine, database or
//     snapshot path, suite name, log level), with validation and a readable
//     String form.
package common
