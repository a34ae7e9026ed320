//Package parameters converts the loosely typed option maps handed to processing and analysis steps
//into Go values. Maps may come from Go code, YAML documents or the command line, so numbers can
//arrive as int, float64 or string and lists as []float64 or []interface{}
package parameters

import (
	"fmt"
	"strconv"
	"strings"
)

//Parameters maps option names to raw values. Unknown keys are ignored by the consumers
type Parameters map[string]interface{}

//Has returns true if key is present and not nil
func (p Parameters) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

//String returns the value of key as string or def if key is absent
func (p Parameters) String(key, def string) (string, error) {
	if !p.Has(key) {
		return def, nil
	}
	switch v := p[key].(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("parameter %v : expected string got %T", key, v)
	}
}

//Bool returns the value of key as bool or def if key is absent. Strings like "true" or "0" are accepted
func (p Parameters) Bool(key string, def bool) (bool, error) {
	if !p.Has(key) {
		return def, nil
	}
	switch v := p[key].(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("parameter %v : %q is not a boolean", key, v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("parameter %v : expected bool got %T", key, v)
	}
}

//Int returns the value of key as int or def if key is absent. Floats are accepted if they have no fractional part
func (p Parameters) Int(key string, def int) (int, error) {
	if !p.Has(key) {
		return def, nil
	}
	v, err := toInt(p[key])
	if err != nil {
		return 0, fmt.Errorf("parameter %v : %v", key, err)
	}
	return v, nil
}

//Float returns the value of key as float64 or def if key is absent
func (p Parameters) Float(key string, def float64) (float64, error) {
	if !p.Has(key) {
		return def, nil
	}
	v, err := toFloat(p[key])
	if err != nil {
		return 0, fmt.Errorf("parameter %v : %v", key, err)
	}
	return v, nil
}

//Floats returns the value of key as []float64 or def if key is absent. A single number is returned as slice
//of length one. Strings are split at ","
func (p Parameters) Floats(key string, def []float64) ([]float64, error) {
	if !p.Has(key) {
		return def, nil
	}
	var raw []interface{}
	switch v := p[key].(type) {
	case []float64:
		return append([]float64(nil), v...), nil
	case []int:
		res := make([]float64, len(v))
		for i := range v {
			res[i] = float64(v[i])
		}
		return res, nil
	case []interface{}:
		raw = v
	case string:
		for _, token := range strings.Split(v, ",") {
			raw = append(raw, strings.TrimSpace(token))
		}
	default:
		raw = []interface{}{v}
	}
	res := make([]float64, len(raw))
	for i := range raw {
		f, err := toFloat(raw[i])
		if err != nil {
			return nil, fmt.Errorf("parameter %v entry %v : %v", key, i, err)
		}
		res[i] = f
	}
	return res, nil
}

//Ints is the integer counterpart of Floats
func (p Parameters) Ints(key string, def []int) ([]int, error) {
	if !p.Has(key) {
		return def, nil
	}
	floats, err := p.Floats(key, nil)
	if err != nil {
		return nil, err
	}
	res := make([]int, len(floats))
	for i := range floats {
		if res[i], err = toInt(floats[i]); err != nil {
			return nil, fmt.Errorf("parameter %v entry %v : %v", key, i, err)
		}
	}
	return res, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse %q as number : %v", n, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected number got %T", v)
	}
}

func toInt(v interface{}) (int, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("expected integer got %v", f)
	}
	return int(f), nil
}

//ParseAssignments converts "key=value" tokens into Parameters. Values stay strings, the typed getters
//convert them on access
func ParseAssignments(tokens []string) (Parameters, error) {
	p := Parameters{}
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		kv := strings.SplitN(token, "=", 2)
		if len(kv) != 2 || strings.TrimSpace(kv[0]) == "" {
			return nil, fmt.Errorf("expected key=value got %q", token)
		}
		p[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return p, nil
}
