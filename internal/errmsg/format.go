// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Broker operations
	OpBrokerConnect Op = "connect to broker"
	OpBrokerRead    Op = "read from broker"

	// Playback operations
	OpPlaybackCommand Op = "send playback command"
	OpPlaybackSeek    Op = "seek"
	OpVolumeSet       Op = "set volume"

	// Lyrics operations
	OpLyricsLoad    Op = "load lyrics"
	OpLyricsRequest Op = "request lyrics"
	OpLyricsImport  Op = "import lyrics"

	// Podcast operations
	OpPodcastList     Op = "load podcasts"
	OpPodcastEpisodes Op = "load episodes"
	OpPodcastPlay     Op = "play episode"

	// Queue operations
	OpQueueLoad  Op = "load queue"
	OpQueueShift Op = "skip to queue item"

	// Config operations
	OpConfigLoad  Op = "load config"
	OpConfigSave  Op = "save config"
	OpBacklight   Op = "set backlight"
	OpPluginStore Op = "save plugin settings"

	// Input and display
	OpInputOpen   Op = "open input device"
	OpDisplayOpen Op = "open display"
	OpScreenshot  Op = "save screenshot"
	OpAlbumArt    Op = "load album art"

	// Plugins
	OpPluginInit Op = "start plugin"
	OpPluginRun  Op = "run plugin"

	// Initialization
	OpInitialize Op = "initialize device"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
