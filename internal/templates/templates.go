// =============================================================================
// Order Document Generator - Template Store
// =============================================================================
//
// Templates are the static vendor documents each converter mutates a copy
// of. They are read once at startup into immutable Template values and
// handed to the converters; nothing looks them up globally afterwards.
//
// A missing template file is not an error: the template is empty and the
// converter that needs it reports a missing-input failure when called.
//
// =============================================================================

package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ginjaninja78/orderdoc/internal/config"
	"github.com/ginjaninja78/orderdoc/internal/logging"
	"github.com/ginjaninja78/orderdoc/internal/types"
)

// KindOptionSample is the pre-authored option block spliced into vendor C
// order pages.
const KindOptionSample = "option_sample"

// Template is an immutable template document.
type Template struct {
	Vendor string
	Kind   string
	Path   string
	text   string
}

// New creates a template from text.
func New(vendor, kind, text string) Template {
	return Template{Vendor: vendor, Kind: kind, text: text}
}

// Text returns the template source.
func (t Template) Text() string {
	return t.text
}

// Empty reports whether the template has no content.
func (t Template) Empty() bool {
	return t.text == ""
}

type key struct {
	vendor string
	kind   string
}

// Set holds the templates loaded at startup.
type Set struct {
	items map[key]Template
}

// NewSet builds a set from already loaded templates.
func NewSet(ts ...Template) *Set {
	s := &Set{items: make(map[key]Template)}
	for _, t := range ts {
		s.items[key{t.Vendor, t.Kind}] = t
	}
	return s
}

// Get returns the template for (vendor, kind), or an empty template.
func (s *Set) Get(vendor, kind string) Template {
	if s == nil {
		return Template{Vendor: vendor, Kind: kind}
	}
	if t, ok := s.items[key{vendor, kind}]; ok {
		return t
	}
	return Template{Vendor: vendor, Kind: kind}
}

// Load reads a single template file. A missing file yields an empty
// template and no error.
func Load(vendor, kind, path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Template{Vendor: vendor, Kind: kind, Path: path}, nil
		}
		return Template{}, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return Template{Vendor: vendor, Kind: kind, Path: path, text: string(data)}, nil
}

// LoadAll reads every configured template.
func LoadAll(cfg *config.MainConfig, log logging.Logger) (*Set, error) {
	specs := []struct {
		vendor, kind, name string
	}{
		{types.VendorWholesale, types.KindOrder, cfg.Templates.WholesaleOrder},
		{types.VendorWholesale, types.KindReceipt, cfg.Templates.WholesaleReceipt},
		{types.VendorPayment, KindOptionSample, cfg.Templates.PaymentOptionSample},
	}

	var loaded []Template
	for _, spec := range specs {
		path := cfg.TemplatePath(spec.name)
		t, err := Load(spec.vendor, spec.kind, path)
		if err != nil {
			return nil, err
		}
		if t.Empty() {
			log.Warn("template %s/%s not found at %s", spec.vendor, spec.kind, path)
		} else {
			log.Debug("loaded template %s/%s (%d bytes)", spec.vendor, spec.kind, len(t.Text()))
		}
		loaded = append(loaded, t)
	}

	return NewSet(loaded...), nil
}
