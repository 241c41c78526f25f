package inventory

import (
	"bytes"
	"encoding/json"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// VariantQuery describe cómo el caller identifica la variante deseada.
// Los campos vacíos se ignoran.
type VariantQuery struct {
	VariantID  string
	Label      string
	Size       string
	Attributes json.RawMessage
}

// MatchStrategy intenta resolver una variante del producto según un criterio.
type MatchStrategy interface {
	Match(p *entity.Product, q VariantQuery) (*entity.ProductVariant, bool)
}

// Estrategias en orden fijo de prioridad: ID exacto, label, atributos, talla,
// y como último recurso la variante por defecto.
var strategies = []MatchStrategy{
	byID{},
	byLabel{},
	byAttributes{},
	bySize{},
	firstAvailable{},
}

// ResolveVariant recorre las estrategias en orden y devuelve la primera coincidencia.
func ResolveVariant(p *entity.Product, q VariantQuery) (*entity.ProductVariant, bool) {
	if p == nil {
		return nil, false
	}
	for _, s := range strategies {
		if v, ok := s.Match(p, q); ok {
			return v, true
		}
	}
	return nil, false
}

type byID struct{}

func (byID) Match(p *entity.Product, q VariantQuery) (*entity.ProductVariant, bool) {
	if q.VariantID == "" {
		return nil, false
	}
	for i := range p.Variants {
		if p.Variants[i].ID == q.VariantID {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

type byLabel struct{}

func (byLabel) Match(p *entity.Product, q VariantQuery) (*entity.ProductVariant, bool) {
	if q.Label == "" {
		return nil, false
	}
	for i := range p.Variants {
		if p.Variants[i].Label == q.Label {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

type byAttributes struct{}

func (byAttributes) Match(p *entity.Product, q VariantQuery) (*entity.ProductVariant, bool) {
	if len(q.Attributes) == 0 {
		return nil, false
	}
	want, err := canonicalJSON(q.Attributes)
	if err != nil {
		return nil, false
	}
	for i := range p.Variants {
		got, err := canonicalJSON(p.Variants[i].Attributes)
		if err != nil {
			continue
		}
		if bytes.Equal(want, got) {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

type bySize struct{}

func (bySize) Match(p *entity.Product, q VariantQuery) (*entity.ProductVariant, bool) {
	if q.Size == "" {
		return nil, false
	}
	for i := range p.Variants {
		if p.Variants[i].Size == q.Size {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// firstAvailable solo aplica cuando la query no pidió nada concreto: una query
// con criterios que no coincidieron no debe degradarse en silencio a otra variante.
type firstAvailable struct{}

func (firstAvailable) Match(p *entity.Product, q VariantQuery) (*entity.ProductVariant, bool) {
	if q.VariantID != "" || q.Label != "" || q.Size != "" || len(q.Attributes) > 0 {
		return nil, false
	}
	return p.DefaultVariant()
}

// canonicalJSON normaliza un documento JSON (orden de claves) para comparación.
func canonicalJSON(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
