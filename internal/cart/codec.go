package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"storefront/internal/domain"
)

var errMalformed = errors.New("malformed cart")

var (
	idFields       = []string{"productId", "id", "productID"}
	quantityFields = []string{"quantity", "qty"}
)

// encode writes the canonical persisted shape: a JSON array of
// {"productId","quantity"} objects.
func encode(c domain.Cart) (string, error) {
	lines := c.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decode accepts the canonical shape plus older ones: a {"lines": [...]}
// wrapper, id under productId/id/productID and quantity under quantity/qty.
// Duplicate ids are merged. A line without an id or with a non-numeric
// quantity rejects the whole value.
func decode(raw string) (domain.Cart, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return domain.Cart{Lines: []domain.CartLine{}}, nil
	}

	var items []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return domain.Cart{}, errMalformed
		}
	case '{':
		var wrapped struct {
			Lines []json.RawMessage `json:"lines"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return domain.Cart{}, errMalformed
		}
		items = wrapped.Lines
	default:
		return domain.Cart{}, errMalformed
	}

	out := domain.Cart{Lines: make([]domain.CartLine, 0, len(items))}
	for _, item := range items {
		line, err := decodeLine(item)
		if err != nil {
			return domain.Cart{}, err
		}
		if i := out.Find(line.ProductID); i >= 0 {
			out.Lines[i].Quantity += line.Quantity
			continue
		}
		out.Lines = append(out.Lines, line)
	}
	return out, nil
}

func decodeLine(item json.RawMessage) (domain.CartLine, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return domain.CartLine{}, errMalformed
	}

	var id string
	for _, name := range idFields {
		v, ok := fields[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, &id); err != nil {
			return domain.CartLine{}, errMalformed
		}
		break
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.CartLine{}, errMalformed
	}

	qty := 1
	for _, name := range quantityFields {
		v, ok := fields[name]
		if !ok {
			continue
		}
		n, ok := parseQuantity(v)
		if !ok {
			return domain.CartLine{}, errMalformed
		}
		qty = n
		break
	}
	return domain.CartLine{ProductID: id, Quantity: max(1, qty)}, nil
}
