package megalodon

import (
	"errors"
	"fmt"
)

// SNS identifies a server software family.
type SNS string

const (
	Mastodon  SNS = "mastodon"
	Pleroma   SNS = "pleroma"
	Misskey   SNS = "misskey"
	Friendica SNS = "friendica"
)

var ErrUnknownSNS = errors.New("unknown sns")

func ParseSNS(s string) (SNS, error) {
	switch sns := SNS(s); sns {
	case Mastodon, Pleroma, Misskey, Friendica:
		return sns, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownSNS, s)
	}
}

func (s SNS) String() string {
	return string(s)
}
