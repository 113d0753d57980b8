// Package constants provides application-wide constants.
package constants

import "time"

const (
	// AppName is the application name.
	AppName = "sensi"

	// AppDataDir is the directory name for application data.
	AppDataDir = ".config/sensi"
)

// Defaults
const (
	// DefaultDPI is used before onboarding when no DPI is configured.
	DefaultDPI = 800

	// DefaultDecimals is the displayed precision of sensitivities.
	DefaultDecimals = 3

	// HistoryLimit is the default number of conversions shown.
	HistoryLimit = 20
)

// Timing constants
const (
	// DetectInterval is how often running games are polled.
	DetectInterval = 5 * time.Second

	// MinDetectInterval keeps polling from spinning.
	MinDetectInterval = 500 * time.Millisecond
)
