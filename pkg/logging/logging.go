// Package logging builds the zap logger shared by all reposnap commands.
package logging

import (
	"go.uber.org/zap"
)

// Setup constructs the application logger and installs it as the zap global.
// Debug mode selects zap's development config (console encoding, DEBUG
// level); otherwise the production config applies.
func Setup(debug bool, appName, appVersion string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewExample(), err
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}
