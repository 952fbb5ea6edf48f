package catalogapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hemantajax/connectclo/internal/domain"
)

// RawProduct is one record as delivered by a source. Field names differ between
// feeds, e.g. Fake Store uses numeric ids, "image" and no pricing option.
type RawProduct map[string]any

// Normalize converts raw records to canonical products, dropping the malformed ones.
// Records without an id get "product-<index>" from their position in raw.
func Normalize(raw []RawProduct) []domain.Product {
	out := make([]domain.Product, 0, len(raw))
	for i, r := range raw {
		p, ok := normalizeOne(r)
		if !ok {
			continue
		}
		if p.ID == "" {
			p.ID = domain.ProductKey(p, i)
		}
		out = append(out, p)
	}
	return out
}

func normalizeOne(r RawProduct) (domain.Product, bool) {
	if r == nil {
		return domain.Product{}, false
	}
	title, ok := str(r, "title")
	if !ok || strings.TrimSpace(title) == "" {
		return domain.Product{}, false
	}
	image, ok := firstStr(r, "imagePath", "imageUrl", "image")
	if !ok {
		return domain.Product{}, false
	}

	p := domain.Product{
		Title:     title,
		ImagePath: image,
		ID:        id(r["id"]),
	}
	p.Category, _ = str(r, "category")
	if desc, ok := str(r, "description"); ok {
		p.Description = plainText(desc)
	}
	if creator, ok := firstStr(r, "creator", "userName"); ok {
		p.Creator = creator
	} else {
		p.Creator = p.Category
	}

	priceVal, hasPrice := num(r["price"])

	if v, present := r["pricingOption"]; present && v != nil {
		opt, ok := pricingOption(v)
		if !ok {
			return domain.Product{}, false
		}
		p.PricingOption = opt
	} else if hasPrice && priceVal > 0 {
		p.PricingOption = domain.PricingPaid
	} else {
		p.PricingOption = domain.PricingFree
	}
	if p.PricingOption == domain.PricingPaid && hasPrice {
		v := priceVal
		p.Price = &v
	}

	if rm, ok := r["rating"].(map[string]any); ok {
		rate, okRate := num(rm["rate"])
		count, _ := num(rm["count"])
		if okRate {
			p.Rating = &domain.Rating{Rate: rate, Count: int(count)}
		}
	}
	return p, true
}

func str(r RawProduct, key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

func firstStr(r RawProduct, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := str(r, k); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

func id(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}

func num(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}

func pricingOption(v any) (domain.PricingOption, bool) {
	switch t := v.(type) {
	case string:
		return domain.ParsePricingOption(t)
	case json.Number:
		return domain.ParsePricingOption(t.String())
	case float64, int:
		return domain.ParsePricingOption(fmt.Sprint(t))
	}
	return 0, false
}

// plainText flattens markup some feeds put in descriptions, so search only sees the
// visible words.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
