package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// LowStockThreshold is the quantity under which a variant counts as running low.
const LowStockThreshold = 3

// ImageDetail is one product variant: an image with its own price and stock.
type ImageDetail struct {
	URL         string `bson:"url" json:"url"`
	Price       *Money `bson:"price,omitempty" json:"price,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Quantity    *int   `bson:"quantity,omitempty" json:"quantity,omitempty"`
}

func (d ImageDetail) quantity() int {
	if d.Quantity == nil {
		return 0
	}
	return *d.Quantity
}

// ImageDetails is decoded from either a real array or the JSON text older
// documents and form posts carry.
type ImageDetails []ImageDetail

func (d *ImageDetails) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*d = nil
		return nil
	case bsontype.Array:
		var values []ImageDetail
		if err := bson.UnmarshalValue(t, data, &values); err != nil {
			return err
		}
		*d = values
		return nil
	case bsontype.String:
		var raw string
		if err := bson.UnmarshalValue(t, data, &raw); err != nil {
			return err
		}
		return d.fromString(raw)
	default:
		return fmt.Errorf("cannot decode %s into ImageDetails", t)
	}
}

func (d ImageDetails) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d == nil {
		return bson.MarshalValue([]ImageDetail{})
	}
	return bson.MarshalValue([]ImageDetail(d))
}

func (d *ImageDetails) UnmarshalJSON(data []byte) error {
	var values []ImageDetail
	if err := json.Unmarshal(data, &values); err == nil {
		*d = values
		return nil
	}
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("imageDetails: %w", err)
	}
	if raw == nil {
		*d = nil
		return nil
	}
	return d.fromString(*raw)
}

func (d *ImageDetails) fromString(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		*d = nil
		return nil
	}
	var values []ImageDetail
	if err := json.Unmarshal([]byte(trimmed), &values); err != nil {
		return fmt.Errorf("imageDetails: %w", err)
	}
	*d = values
	return nil
}

// TotalQuantity sums the positive variant quantities.
func (d ImageDetails) TotalQuantity() int {
	total := 0
	for _, detail := range d {
		if q := detail.quantity(); q > 0 {
			total += q
		}
	}
	return total
}

// LowStock returns the variants whose quantity is in (0, LowStockThreshold).
// A zero quantity is out of stock, not low.
func (d ImageDetails) LowStock() []ImageDetail {
	var low []ImageDetail
	for _, detail := range d {
		if q := detail.quantity(); q > 0 && q < LowStockThreshold {
			low = append(low, detail)
		}
	}
	return low
}
