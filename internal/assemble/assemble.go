// Package assemble builds the aggregator configuration from the selected
// subscription URLs and the storage destination.
package assemble

import (
	"strconv"

	"github.com/nao1215/procgen/internal/model"
)

// target binds an output format to its storage item and file name.
type target struct {
	itemID   string
	filename string
}

// Output formats of the main group, in serialisation order.
var (
	clashTarget   = target{itemID: model.MainGroup + "-clash", filename: "clash.yaml"}
	singboxTarget = target{itemID: model.MainGroup + "-singbox", filename: "singbox.json"}
	v2rayTarget   = target{itemID: model.MainGroup + "-v2ray", filename: "v2ray.txt"}
)

// Build assembles the configuration. The i-th URL (1-based) becomes the
// domain entry named "auto-i". Build never fails; urls and dest are
// expected to be validated already.
func Build(urls []string, dest model.Destination) *model.GeneratedConfig {
	domains := make([]model.DomainEntry, 0, len(urls))
	for i, u := range urls {
		domains = append(domains, model.DomainEntry{
			Name:   model.DomainNamePrefix + strconv.Itoa(i+1),
			Enable: true,
			Domain: "",
			Sub:    []string{u},
			PushTo: []string{model.MainGroup},
		})
	}

	groups := model.NewOrderedMap[model.GroupPolicy]()
	groups.Set(model.MainGroup, model.GroupPolicy{
		Emoji: true,
		List:  true,
		Targets: model.GroupTargets{
			Clash:   clashTarget.itemID,
			Singbox: singboxTarget.itemID,
			V2ray:   v2rayTarget.itemID,
		},
		Regularize: model.RegularizePolicy{
			Enable:      true,
			Locate:      true,
			Residential: true,
			Bits:        model.RegularizeBits,
		},
	})

	items := model.NewOrderedMap[model.StorageItem]()
	for _, t := range []target{clashTarget, singboxTarget, v2rayTarget} {
		items.Set(t.itemID, model.StorageItem{
			Username: dest.Owner(),
			GistID:   dest.ResourceID(),
			Filename: t.filename,
		})
	}

	return &model.GeneratedConfig{
		Domains: domains,
		Crawl:   model.CrawlPolicy{Enable: false},
		Groups:  groups,
		Storage: model.StorageConfig{
			Engine: model.StorageEngineGist,
			Items:  items,
		},
	}
}
