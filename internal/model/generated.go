package model

import (
	"bytes"
	"encoding/json"
)

// Fixed names used by the generated configuration.
const (
	// DomainNamePrefix prefixes the 1-based index of each domain entry.
	DomainNamePrefix = "auto-"

	// MainGroup is the only push target defined by procgen.
	MainGroup = "main"

	// StorageEngineGist names the gist storage backend.
	StorageEngineGist = "gist"

	// RegularizeBits is the precision used by the regularize policy.
	RegularizeBits = 2
)

// GeneratedConfig is the configuration document consumed by the aggregator.
// Field order is the serialisation order.
type GeneratedConfig struct {
	Domains []DomainEntry            `json:"domains"`
	Crawl   CrawlPolicy              `json:"crawl"`
	Groups  *OrderedMap[GroupPolicy] `json:"groups"`
	Storage StorageConfig            `json:"storage"`
}

// DomainEntry binds one subscription URL to a synthetic name.
type DomainEntry struct {
	Name   string   `json:"name"`
	Enable bool     `json:"enable"`
	Domain string   `json:"domain"`
	Sub    []string `json:"sub"`
	PushTo []string `json:"push_to"`
}

// CrawlPolicy controls whether the aggregator crawls for more subscriptions.
type CrawlPolicy struct {
	Enable bool `json:"enable"`
}

// GroupPolicy configures one output group of the aggregator.
type GroupPolicy struct {
	Emoji      bool             `json:"emoji"`
	List       bool             `json:"list"`
	Targets    GroupTargets     `json:"targets"`
	Regularize RegularizePolicy `json:"regularize"`
}

// GroupTargets maps each output format to a storage item id.
type GroupTargets struct {
	Clash   string `json:"clash"`
	Singbox string `json:"singbox"`
	V2ray   string `json:"v2ray"`
}

// RegularizePolicy controls node renaming by the aggregator.
type RegularizePolicy struct {
	Enable      bool `json:"enable"`
	Locate      bool `json:"locate"`
	Residential bool `json:"residential"`
	Bits        int  `json:"bits"`
}

// StorageConfig names the storage engine and its items.
type StorageConfig struct {
	Engine string                   `json:"engine"`
	Items  *OrderedMap[StorageItem] `json:"items"`
}

// StorageItem is one file inside the destination gist.
type StorageItem struct {
	Username string `json:"username"`
	GistID   string `json:"gistid"`
	Filename string `json:"filename"`
}

// OrderedMap is a string-keyed map that serialises its keys in insertion
// order. Setting an existing key replaces the value in place.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: make(map[string]V)}
}

// Set stores v under key.
func (m *OrderedMap[V]) Set(key string, v V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalUnescaped(k)
		if err != nil {
			return nil, err
		}
		val, err := marshalUnescaped(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalUnescaped is json.Marshal without HTML escaping.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
