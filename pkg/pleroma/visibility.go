package pleroma

import (
	"fmt"

	"megalodon/pkg/entity"
	"megalodon/pkg/mastodon"
	"megalodon/pkg/megalodon"
)

// DecodeVisibility folds list-scoped posts into private.
func DecodeVisibility(native string) entity.Visibility {
	switch native {
	case "local":
		return entity.VisibilityLocal
	case "list":
		return entity.VisibilityPrivate
	default:
		return mastodon.DecodeVisibility(native)
	}
}

func EncodeVisibility(v entity.Visibility) (string, error) {
	if v == entity.VisibilityLocal {
		return "local", nil
	}

	native, err := mastodon.EncodeVisibility(v)
	if err != nil {
		return "", fmt.Errorf("%w: pleroma visibility %q", megalodon.ErrNoNativeEquivalent, v)
	}
	return native, nil
}
