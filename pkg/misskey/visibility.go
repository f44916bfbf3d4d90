package misskey

import (
	"fmt"

	"megalodon/pkg/entity"
	"megalodon/pkg/megalodon"
)

const (
	VisibilityPublic    = "public"
	VisibilityHome      = "home"
	VisibilityFollowers = "followers"
	VisibilitySpecified = "specified"
)

// DecodeVisibility maps a note's scope. Local-only public notes decode to local.
func DecodeVisibility(native string, localOnly bool) entity.Visibility {
	switch native {
	case VisibilityPublic:
		if localOnly {
			return entity.VisibilityLocal
		}
		return entity.VisibilityPublic
	case VisibilityHome:
		return entity.VisibilityUnlisted
	case VisibilityFollowers:
		return entity.VisibilityPrivate
	case VisibilitySpecified:
		return entity.VisibilityDirect
	default:
		return entity.VisibilityPrivate
	}
}

// EncodeVisibility has no inverse for local: Misskey models it as a flag beside the scope.
func EncodeVisibility(v entity.Visibility) (string, error) {
	switch v {
	case entity.VisibilityPublic:
		return VisibilityPublic, nil
	case entity.VisibilityUnlisted:
		return VisibilityHome, nil
	case entity.VisibilityPrivate:
		return VisibilityFollowers, nil
	case entity.VisibilityDirect:
		return VisibilitySpecified, nil
	default:
		return "", fmt.Errorf("%w: misskey visibility %q", megalodon.ErrNoNativeEquivalent, v)
	}
}
