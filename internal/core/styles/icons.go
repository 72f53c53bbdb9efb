package styles

// Toast kind icons
var (
	IconSuccess = "✓"
	IconError   = "✗"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
)
