package fediverse

import (
	"context"
	"fmt"

	"megalodon/pkg/megalodon"
	"megalodon/pkg/streaming"
)

// Stream names accepted by OpenStream.
const (
	StreamUser   = "user"
	StreamPublic = "public"
	StreamLocal  = "local"
	StreamTag    = "tag"
	StreamList   = "list"
	StreamDirect = "direct"
)

func StreamNames() []string {
	return []string{StreamUser, StreamPublic, StreamLocal, StreamTag, StreamList, StreamDirect}
}

// OpenStream builds the named stream. param is the hashtag of a tag stream or the list id of a
// list stream and is ignored otherwise.
func OpenStream(ctx context.Context, c Client, name, param string) (streaming.Stream, error) {
	switch name {
	case StreamUser:
		return c.UserStream(ctx)
	case StreamPublic:
		return c.PublicStream(ctx)
	case StreamLocal:
		return c.LocalStream(ctx)
	case StreamTag:
		return c.TagStream(ctx, param)
	case StreamList:
		return c.ListStream(ctx, param)
	case StreamDirect:
		return c.DirectStream(ctx)
	default:
		return nil, &megalodon.ArgumentError{Argument: "stream", Reason: fmt.Sprintf("must be one of %v", StreamNames())}
	}
}
