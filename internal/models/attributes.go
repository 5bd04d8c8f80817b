package models

import (
	"encoding/json"
	"fmt"
)

// Category tags which attribute payload a product carries
type Category string

const (
	CategoryGeneral Category = "general"
	CategoryHandbag Category = "handbag"
	CategoryShoe    Category = "shoe"
)

// Attributes is the category-specific payload of a product.
// Implementations: GeneralAttributes, HandbagAttributes, ShoeAttributes.
type Attributes interface {
	Category() Category
}

// GeneralAttributes holds a free-text label such as "Electronics"
type GeneralAttributes struct {
	Label string `json:"label"`
}

func (GeneralAttributes) Category() Category { return CategoryGeneral }

type HandbagAttributes struct {
	Brand      string `json:"brand"`
	Material   string `json:"material"`
	Color      string `json:"color"`
	Dimensions string `json:"dimensions,omitempty"`
}

func (HandbagAttributes) Category() Category { return CategoryHandbag }

type ShoeAttributes struct {
	Brand     string  `json:"brand"`
	Size      float64 `json:"size"`
	Color     string  `json:"color"`
	Condition string  `json:"condition,omitempty"`
}

func (ShoeAttributes) Category() Category { return CategoryShoe }

// DecodeAttributes decodes raw into the payload type selected by category.
// An empty payload yields the zero value of that type.
func DecodeAttributes(category Category, raw json.RawMessage) (Attributes, error) {
	empty := len(raw) == 0 || string(raw) == "null"
	switch category {
	case CategoryGeneral, "":
		var a GeneralAttributes
		if !empty {
			if err := json.Unmarshal(raw, &a); err != nil {
				return nil, fmt.Errorf("decode general attributes: %w", err)
			}
		}
		return a, nil
	case CategoryHandbag:
		var a HandbagAttributes
		if !empty {
			if err := json.Unmarshal(raw, &a); err != nil {
				return nil, fmt.Errorf("decode handbag attributes: %w", err)
			}
		}
		return a, nil
	case CategoryShoe:
		var a ShoeAttributes
		if !empty {
			if err := json.Unmarshal(raw, &a); err != nil {
				return nil, fmt.Errorf("decode shoe attributes: %w", err)
			}
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown category %q", category)
	}
}

// MarshalJSON writes the attribute payload next to its category tag
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	var raw json.RawMessage
	if p.Attributes != nil {
		b, err := json.Marshal(p.Attributes)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(struct {
		alias
		Attributes json.RawMessage `json:"attributes,omitempty"`
	}{alias: alias(p), Attributes: raw})
}

// UnmarshalJSON restores the attribute payload using the category tag
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	aux := struct {
		*alias
		Attributes json.RawMessage `json:"attributes"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	attrs, err := DecodeAttributes(p.Category, aux.Attributes)
	if err != nil {
		return err
	}
	if p.Category == "" {
		p.Category = CategoryGeneral
	}
	p.Attributes = attrs
	return nil
}
