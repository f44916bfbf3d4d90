package fediverse

import (
	"context"
	"fmt"
	"strings"

	"megalodon/pkg/megalodon"
	"megalodon/pkg/rest"

	"github.com/samber/lo"
)

const nodeInfoSchemaPrefix = "http://nodeinfo.diaspora.software/ns/schema/"

type nodeInfoLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type nodeInfoLinks struct {
	Links []nodeInfoLink `json:"links"`
}

type nodeInfo struct {
	Software struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"software"`
}

// Detect identifies the server software through nodeinfo. Servers that are not recognised are
// assumed to speak the Mastodon API.
func Detect(ctx context.Context, cfg Config) (megalodon.SNS, error) {
	r, err := rest.New(rest.Config{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Proxy:     cfg.Proxy,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return "", fmt.Errorf("detect: %w", err)
	}
	defer r.Close()

	var links nodeInfoLinks
	if err := r.Get(ctx, "/.well-known/nodeinfo", nil, &links); err != nil {
		return "", fmt.Errorf("detect: nodeinfo links: %w", err)
	}

	schemas := lo.Filter(links.Links, func(l nodeInfoLink, _ int) bool {
		return strings.HasPrefix(l.Rel, nodeInfoSchemaPrefix) && l.Href != ""
	})
	if len(schemas) == 0 {
		return "", fmt.Errorf("detect: %s offers no nodeinfo document", cfg.BaseURL)
	}
	// Schema versions sort lexically; prefer the newest one the server offers.
	newest := lo.MaxBy(schemas, func(a, b nodeInfoLink) bool { return a.Rel > b.Rel })

	var info nodeInfo
	if err := r.Get(ctx, newest.Href, nil, &info); err != nil {
		return "", fmt.Errorf("detect: nodeinfo: %w", err)
	}
	return SoftwareSNS(info.Software.Name), nil
}

// SoftwareSNS maps a nodeinfo software name onto the API family it implements.
func SoftwareSNS(name string) megalodon.SNS {
	switch strings.ToLower(name) {
	case "pleroma", "akkoma":
		return megalodon.Pleroma
	case "misskey", "calckey", "firefish", "sharkey", "foundkey":
		return megalodon.Misskey
	case "friendica":
		return megalodon.Friendica
	default:
		return megalodon.Mastodon
	}
}
