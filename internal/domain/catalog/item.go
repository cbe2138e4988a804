// Package catalog holds the normalized, read-only representation of one laptop listing.
package catalog

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Category labels used by the catalog provider.
const (
	CategoryDetails  = "Product Details"
	CategoryScreen   = "Screen"
	CategorySpecs    = "Specs"
	CategoryFeatures = "Features"
	CategoryPorts    = "Ports"
	CategoryPrices   = "Prices"
)

// Spec keys recognized in the Specs category.
const (
	SpecCPU     = "cpu"
	SpecGPU     = "gpu"
	SpecRAM     = "ram"
	SpecStorage = "storage"
	SpecOS      = "os"
	SpecWeight  = "weight"
	SpecBattery = "battery"
)

// specAliases maps normalized field names onto spec keys.
var specAliases = map[string]string{
	"cpu": SpecCPU, "processor": SpecCPU,
	"gpu": SpecGPU, "graphics": SpecGPU, "graphics_card": SpecGPU,
	"ram": SpecRAM, "memory": SpecRAM,
	"storage": SpecStorage, "ssd": SpecStorage, "hard_drive": SpecStorage,
	"os": SpecOS, "operating_system": SpecOS,
	"weight": SpecWeight,
	"battery": SpecBattery, "battery_life": SpecBattery,
}

// Raw is the attribute bag delivered by the catalog provider: category label -> field -> scalar.
type Raw map[string]map[string]any

// Item is one immutable catalog entry. Absent fields are unknown, never false or zero.
type Item struct {
	brand       string
	name        string
	screenSize  float64
	hasSize     bool
	resolution  string
	panel       string
	refreshRate string
	specs       map[string]string
	features    map[string]bool
	ports       map[string]bool
	labels      map[string]string
	prices      map[string]float64
	description string
}

// FromRaw builds an Item from a provider attribute bag. Unparseable values are dropped.
func FromRaw(raw Raw) Item {
	it := Item{
		specs:    make(map[string]string),
		features: make(map[string]bool),
		ports:    make(map[string]bool),
		labels:   make(map[string]string),
		prices:   make(map[string]float64),
	}

	for category, fields := range raw {
		switch normalizeKey(category) {
		case normalizeKey(CategoryDetails):
			it.readDetails(fields)
		case normalizeKey(CategoryScreen):
			it.readScreen(fields)
		case normalizeKey(CategorySpecs):
			it.readSpecs(fields)
		case normalizeKey(CategoryFeatures):
			readFlags(fields, it.features, it.labels)
		case normalizeKey(CategoryPorts):
			readFlags(fields, it.ports, it.labels)
		case normalizeKey(CategoryPrices):
			it.readPrices(fields)
		}
	}

	it.description = it.buildDescription()
	return it
}

func (it *Item) readDetails(fields map[string]any) {
	for k, v := range fields {
		s := scalarString(v)
		if s == "" {
			continue
		}
		switch normalizeKey(k) {
		case "brand", "manufacturer":
			it.brand = s
		case "name", "model", "title", "product_name":
			if it.name == "" || normalizeKey(k) == "name" {
				it.name = s
			}
		}
	}
}

func (it *Item) readScreen(fields map[string]any) {
	for k, v := range fields {
		switch normalizeKey(k) {
		case "size", "screen_size", "display_size":
			if f, ok := scalarFloat(v); ok && f > 0 {
				it.screenSize, it.hasSize = f, true
			}
		case "resolution":
			it.resolution = scalarString(v)
		case "panel", "panel_type", "type":
			it.panel = scalarString(v)
		case "refresh_rate":
			it.refreshRate = scalarString(v)
		}
	}
}

func (it *Item) readSpecs(fields map[string]any) {
	for k, v := range fields {
		key, ok := specAliases[normalizeKey(k)]
		if !ok {
			continue
		}
		if s := scalarString(v); s != "" {
			it.specs[key] = s
		}
	}
}

func (it *Item) readPrices(fields map[string]any) {
	for retailer, v := range fields {
		if f, ok := scalarFloat(v); ok && f > 0 {
			it.prices[retailer] = f
		}
	}
}

func readFlags(fields map[string]any, dst map[string]bool, labels map[string]string) {
	for k, v := range fields {
		val, known := scalarBool(v)
		if !known {
			continue
		}
		key := normalizeKey(k)
		dst[key] = val
		labels[key] = k
	}
}

// Brand returns the brand, or "" when unknown.
func (it Item) Brand() string { return it.brand }

// Name returns the model name, or "" when unknown.
func (it Item) Name() string { return it.name }

// Complete reports whether the item can be shown: it needs a brand or a name.
func (it Item) Complete() bool { return it.brand != "" || it.name != "" }

// ScreenSize returns the diagonal in inches and whether it is known.
func (it Item) ScreenSize() (float64, bool) { return it.screenSize, it.hasSize }

// Spec returns a Specs value by key (SpecCPU, SpecGPU, ...) and whether it is known.
func (it Item) Spec(key string) (string, bool) {
	v, ok := it.specs[key]
	return v, ok
}

// Feature returns a feature flag and whether it is known. Keys are normalized names
// such as "backlit_keyboard".
func (it Item) Feature(key string) (value, known bool) {
	value, known = it.features[key]
	return value, known
}

// Port returns a port flag and whether it is known. Keys are normalized names such as "usb_c".
func (it Item) Port(key string) (value, known bool) {
	value, known = it.ports[key]
	return value, known
}

// LowestPrice returns the cheapest known retailer price.
func (it Item) LowestPrice() (float64, bool) {
	lowest := math.Inf(1)
	for _, p := range it.prices {
		if p < lowest {
			lowest = p
		}
	}
	if math.IsInf(lowest, 1) {
		return 0, false
	}
	return lowest, true
}

// Prices returns a copy of the retailer -> price map.
func (it Item) Prices() map[string]float64 {
	out := make(map[string]float64, len(it.prices))
	for k, v := range it.prices {
		out[k] = v
	}
	return out
}

// Description returns the canonical text used for embedding and display.
func (it Item) Description() string { return it.description }

// DisplayName joins brand and name, skipping the brand when the name already starts with it.
func (it Item) DisplayName() string {
	switch {
	case it.brand == "":
		return it.name
	case it.name == "":
		return it.brand
	case strings.HasPrefix(strings.ToLower(it.name), strings.ToLower(it.brand)):
		return it.name
	default:
		return it.brand + " " + it.name
	}
}

func (it Item) buildDescription() string {
	var b strings.Builder
	name := it.DisplayName()
	if name == "" {
		name = "Unnamed"
	}
	b.WriteString(name)
	b.WriteString(" laptop.")

	if it.hasSize || it.resolution != "" || it.panel != "" {
		b.WriteString(" Display:")
		if it.hasSize {
			b.WriteString(" " + strconv.FormatFloat(it.screenSize, 'f', -1, 64) + "-inch")
		}
		for _, part := range []string{it.resolution, it.panel} {
			if part != "" {
				b.WriteString(" " + part)
			}
		}
		if it.refreshRate != "" {
			b.WriteString(", " + it.refreshRate)
		}
		b.WriteString(".")
	}

	for _, spec := range []struct{ key, label string }{
		{SpecCPU, "Processor"},
		{SpecGPU, "Graphics"},
		{SpecRAM, "Memory"},
		{SpecStorage, "Storage"},
		{SpecOS, "Operating system"},
		{SpecWeight, "Weight"},
		{SpecBattery, "Battery"},
	} {
		if v, ok := it.specs[spec.key]; ok {
			fmt.Fprintf(&b, " %s: %s.", spec.label, v)
		}
	}

	if f := it.enabledLabels(it.features); f != "" {
		b.WriteString(" Features: " + f + ".")
	}
	if p := it.enabledLabels(it.ports); p != "" {
		b.WriteString(" Ports: " + p + ".")
	}
	return b.String()
}

func (it Item) enabledLabels(flags map[string]bool) string {
	keys := make([]string, 0, len(flags))
	for k, on := range flags {
		if on {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	labels := make([]string, len(keys))
	for i, k := range keys {
		labels[i] = strings.ToLower(it.labels[k])
	}
	return strings.Join(labels, ", ")
}

// normalizeKey lowercases and folds every run of non-alphanumerics into one underscore.
func normalizeKey(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			pendingSep = false
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// NormalizeKey exposes the flag key normalization used for features and ports.
func NormalizeKey(s string) string { return normalizeKey(s) }

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// scalarFloat parses numbers and strings like "£1,299.99" or `15.6"`.
func scalarFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		return parseLeadingNumber(x)
	default:
		return 0, false
	}
}

func parseLeadingNumber(s string) (float64, bool) {
	start := -1
	end := -1
	for i, r := range s {
		isNum := (r >= '0' && r <= '9') || r == '.' || (r == ',' && start >= 0)
		if isNum && start < 0 && r != '.' {
			start = i
		}
		if start >= 0 {
			if !isNum {
				end = i
				break
			}
		}
	}
	if start < 0 {
		return 0, false
	}
	if end < 0 {
		end = len(s)
	}
	num := strings.ReplaceAll(s[start:end], ",", "")
	num = strings.TrimRight(num, ".")
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// scalarBool interprets flag values; counts > 0 and non-negative words are true.
func scalarBool(v any) (value, known bool) {
	switch x := v.(type) {
	case nil:
		return false, false
	case bool:
		return x, true
	case float64:
		return x > 0, true
	case int:
		return x > 0, true
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		switch s {
		case "", "n/a", "unknown", "?":
			return false, false
		case "no", "false", "none", "0", "n", "not available":
			return false, true
		default:
			return true, true
		}
	default:
		return false, false
	}
}
