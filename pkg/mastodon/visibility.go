package mastodon

import (
	"fmt"

	"megalodon/pkg/entity"
	"megalodon/pkg/megalodon"
)

// DecodeVisibility maps unrecognised values to private, the most restrictive non-direct scope.
func DecodeVisibility(native string) entity.Visibility {
	switch native {
	case "public":
		return entity.VisibilityPublic
	case "unlisted":
		return entity.VisibilityUnlisted
	case "private":
		return entity.VisibilityPrivate
	case "direct":
		return entity.VisibilityDirect
	default:
		return entity.VisibilityPrivate
	}
}

func EncodeVisibility(v entity.Visibility) (string, error) {
	switch v {
	case entity.VisibilityPublic, entity.VisibilityUnlisted, entity.VisibilityPrivate, entity.VisibilityDirect:
		return string(v), nil
	default:
		return "", fmt.Errorf("%w: mastodon visibility %q", megalodon.ErrNoNativeEquivalent, v)
	}
}
