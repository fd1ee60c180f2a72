package models

import (
	"math"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// Product is a catalog record. Price and Rating are optional: a record coming
// from the wire may omit them or carry a value of the wrong type, in which case
// they stay nil and the card falls back to its placeholder text.
type Product struct {
	ID     int      `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Price  *float64 `json:"price,omitempty" yaml:"price"`
	Rating *float64 `json:"rating,omitempty" yaml:"rating"`
	Image  string   `json:"image,omitempty" yaml:"image"`

	// MissingID marks a wire record without a usable integer id. Such a
	// record still renders but takes no part in id based deduplication.
	MissingID bool `json:"-" yaml:"-"`
}

// UnmarshalJSON decodes field by field so that one malformed attribute does
// not reject the whole record.
func (p *Product) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return &InvalidRecordError{Kind: "product", Reason: "invalid json"}
	}
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		return nil
	}
	if !res.IsObject() {
		return &InvalidRecordError{Kind: "product", Reason: "expected object, got " + res.Type.String()}
	}

	id, ok := idField(res.Get("id"))
	*p = Product{
		ID:        id,
		MissingID: !ok,
		Name:      stringField(res.Get("name")),
		Price:     numberField(res.Get("price")),
		Rating:    numberField(res.Get("rating")),
		Image:     stringField(res.Get("image")),
	}
	return nil
}

func idField(r gjson.Result) (int, bool) {
	v := numberField(r)
	if v == nil || *v != math.Trunc(*v) || math.Abs(*v) > math.MaxInt32 {
		return 0, false
	}
	return int(*v), true
}

// Catalog is a products response. Null elements are skipped and counted so
// the caller can report them.
type Catalog struct {
	Products []Product
	Skipped  int
}

func (c *Catalog) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return &InvalidRecordError{Kind: "catalog", Reason: "invalid json"}
	}
	res := gjson.ParseBytes(data)
	if !res.IsArray() {
		return &InvalidRecordError{Kind: "catalog", Reason: "expected array, got " + res.Type.String()}
	}

	out := Catalog{Products: []Product{}}
	var err error
	res.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.Null {
			out.Skipped++
			return true
		}
		var p Product
		if err = p.UnmarshalJSON([]byte(item.Raw)); err != nil {
			return false
		}
		out.Products = append(out.Products, p)
		return true
	})
	if err != nil {
		return err
	}
	*c = out
	return nil
}

func stringField(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

func numberField(r gjson.Result) *float64 {
	switch r.Type {
	case gjson.Number:
		v := r.Num
		return &v
	case gjson.String:
		v, err := cast.ToFloat64E(r.Str)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	default:
		return nil
	}
}
