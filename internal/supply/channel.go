package supply

import (
	"fmt"
	"strings"
)

// Channel is an issuance pathway.
type Channel uint8

const (
	Public Channel = iota
	Presale
	Free
	Reserve

	numChannels = int(Reserve) + 1
)

var channelNames = [numChannels]string{"public", "presale", "free", "reserve"}

// Channels lists every channel in order.
func Channels() []Channel {
	return []Channel{Public, Presale, Free, Reserve}
}

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool { return int(c) < numChannels }

// Gated reports whether c is allowlist-gated and carries its own sub-cap.
func (c Channel) Gated() bool { return c == Presale || c == Free }

func (c Channel) String() string {
	if !c.Valid() {
		return fmt.Sprintf("channel(%d)", uint8(c))
	}
	return channelNames[c]
}

// ParseChannel parses a channel name.
func ParseChannel(s string) (Channel, error) {
	for i, name := range channelNames {
		if strings.EqualFold(s, name) {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChannel, s)
}

func (c Channel) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChannel, c)
	}
	return []byte(c.String()), nil
}

func (c *Channel) UnmarshalText(b []byte) error {
	parsed, err := ParseChannel(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
