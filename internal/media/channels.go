package media

import (
	"context"

	"github.com/llehouerou/mediadash/internal/broker"
)

// Channels returns the media channels the phone can control. The key may
// hold a JSON array, an object with a "channels" array or a comma list.
func (s *Service) Channels(ctx context.Context) ([]string, bool) {
	raw, ok := s.getString(ctx, broker.KeyChannels)
	if !ok || raw == "" {
		return nil, false
	}
	return ParseChannels([]byte(raw)), true
}

// ParseChannels accepts the channel list forms published by the bridge.
func ParseChannels(data []byte) []string {
	if o, ok := decodeObject(data); ok {
		return o.strings("c", "channels")
	}
	if list := decodeStrings(data); list != nil {
		return list
	}
	return splitList(string(data))
}

// ControlledChannel returns the channel currently under control.
func (s *Service) ControlledChannel(ctx context.Context) (string, bool) {
	ch, ok := s.getString(ctx, broker.KeyControlledChannel)
	return ch, ok && ch != ""
}

// SelectChannel pushes a select command and writes the controlled-channel
// key so the choice shows before the bridge confirms it.
func (s *Service) SelectChannel(ctx context.Context, channel string) bool {
	if !s.Send(ctx, SelectChannelCmd(channel)) {
		return false
	}
	return s.setString(ctx, broker.KeyControlledChannel, channel)
}

// RequestChannels asks the phone to republish its channel list.
func (s *Service) RequestChannels(ctx context.Context) bool {
	return s.Send(ctx, Cmd(ActionRequestChannels))
}
