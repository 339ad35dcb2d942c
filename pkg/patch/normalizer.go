package patch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"contractor-estimate-be/internal/entity"

	"github.com/google/uuid"
)

// NormalizeItem turns a loosely-formatted addition payload into a well-typed
// line item. Agents sometimes emit quasi-JSON (bare keys, unquoted values),
// so a string payload gets a strict parse first and a repair-then-reparse on
// failure. The input is never mutated; the returned item always carries a
// uid — preserved verbatim when the payload supplies one, synthesized
// otherwise so later patches in the same conversation can address it.
func NormalizeItem(value interface{}) (*entity.EstimateItem, error) {
	switch v := value.(type) {
	case *entity.EstimateItem:
		if v == nil {
			return nil, fmt.Errorf("%w: payload is nil", ErrMalformedLineItem)
		}
		item := *v
		return finalizeItem(&item)
	case entity.EstimateItem:
		item := v
		return finalizeItem(&item)
	case map[string]interface{}:
		return itemFromMap(v)
	case json.RawMessage:
		return itemFromJSON(string(v))
	case []byte:
		return itemFromJSON(string(v))
	case string:
		return itemFromJSON(v)
	case nil:
		return nil, fmt.Errorf("%w: payload is nil", ErrMalformedLineItem)
	default:
		return nil, fmt.Errorf("%w: unsupported payload type %T", ErrMalformedLineItem, value)
	}
}

func itemFromJSON(raw string) (*entity.EstimateItem, error) {
	raw = strings.TrimSpace(raw)

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		repaired := repairLooseJSON(raw)
		if err := json.Unmarshal([]byte(repaired), &fields); err != nil {
			return nil, fmt.Errorf("%w: not valid JSON even after repair: %v", ErrMalformedLineItem, err)
		}
	}
	return itemFromMap(fields)
}

func itemFromMap(fields map[string]interface{}) (*entity.EstimateItem, error) {
	item := &entity.EstimateItem{}

	if uid, ok := asString(fields["uid"]); ok {
		item.Uid = uid
	}
	item.Description, _ = asString(fields["description"])
	item.Category, _ = asString(fields["category"])
	item.Subcategory, _ = asString(fields["subcategory"])
	item.Unit, _ = asString(fields["unit"])
	item.Assumptions, _ = asString(fields["assumptions"])
	item.ConfidenceLevel, _ = asString(fields["confidence_level"])
	item.Notes, _ = asString(fields["notes"])

	if raw, present := fields["cost_range_min"]; present {
		f, ok := asFloat(raw)
		if !ok {
			return nil, fmt.Errorf("%w: cost_range_min %v is not numeric", ErrMalformedLineItem, raw)
		}
		item.CostRangeMin = f
	} else {
		return nil, fmt.Errorf("%w: missing cost_range_min", ErrMalformedLineItem)
	}
	if raw, present := fields["cost_range_max"]; present {
		f, ok := asFloat(raw)
		if !ok {
			return nil, fmt.Errorf("%w: cost_range_max %v is not numeric", ErrMalformedLineItem, raw)
		}
		item.CostRangeMax = f
	} else {
		return nil, fmt.Errorf("%w: missing cost_range_max", ErrMalformedLineItem)
	}

	if raw, present := fields["quantity"]; present && raw != nil {
		f, ok := asFloat(raw)
		if !ok {
			return nil, fmt.Errorf("%w: quantity %v is not numeric", ErrMalformedLineItem, raw)
		}
		item.Quantity = &f
	}

	return finalizeItem(item)
}

// finalizeItem validates required fields and assigns a uid when absent.
func finalizeItem(item *entity.EstimateItem) (*entity.EstimateItem, error) {
	if strings.TrimSpace(item.Description) == "" {
		return nil, fmt.Errorf("%w: missing description", ErrMalformedLineItem)
	}
	if strings.TrimSpace(item.Category) == "" {
		return nil, fmt.Errorf("%w: missing category", ErrMalformedLineItem)
	}
	if item.CostRangeMin < 0 || item.CostRangeMax < 0 {
		return nil, fmt.Errorf("%w: cost range must be non-negative", ErrMalformedLineItem)
	}
	if item.Uid == "" {
		item.Uid = uuid.NewString()
	}
	return item, nil
}

// repairLooseJSON rewrites agent-emitted quasi-JSON into parseable JSON by
// quoting bare object keys and bare scalar values. Quoted substrings are
// copied verbatim, escapes included, so already well-formed parts survive.
// Valid literals (numbers, true, false, null) are left alone.
func repairLooseJSON(raw string) string {
	var out strings.Builder
	out.Grow(len(raw) + 16)

	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case c == '"':
			// Copy the quoted string through its closing quote.
			out.WriteByte(c)
			i++
			for i < len(raw) {
				out.WriteByte(raw[i])
				if raw[i] == '\\' && i+1 < len(raw) {
					i++
					out.WriteByte(raw[i])
					i++
					continue
				}
				if raw[i] == '"' {
					i++
					break
				}
				i++
			}
		case c == '{' || c == '}' || c == '[' || c == ']' || c == ':' || c == ',':
			out.WriteByte(c)
			i++
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			out.WriteByte(c)
			i++
		default:
			// Bare token: runs until structural punctuation or a quote.
			start := i
			for i < len(raw) && !strings.ContainsRune(`{}[]:,"`, rune(raw[i])) {
				i++
			}
			token := strings.TrimSpace(raw[start:i])
			if token == "" {
				continue
			}
			if isJSONLiteral(token) {
				out.WriteString(token)
			} else {
				out.WriteString(strconv.Quote(token))
			}
		}
	}
	return out.String()
}

func isJSONLiteral(token string) bool {
	if token == "true" || token == "false" || token == "null" {
		return true
	}
	_, err := strconv.ParseFloat(token, 64)
	return err == nil
}

// asFloat coerces the numeric shapes an agent payload can carry, including
// numeric-looking strings like "1500".
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
